// Package server exposes a counters board over HTTP and WebSocket.
//
// All board access runs on one dispatch goroutine. Handlers submit work with
// loop.do and wait for the result; after each job the board's watchers run,
// which push a JSON snapshot to every connected WebSocket client.
//
// Routes:
//
//	GET    /api/counters                 snapshot
//	POST   /api/counters                 add one counter
//	DELETE /api/counters                 clear
//	POST   /api/counters/batch?n=        add n counters in one write
//	DELETE /api/counters/last            remove the newest counter
//	POST   /api/counters/{id}/increment?by=
//	DELETE /api/counters/{id}
//	GET    /ws                           snapshot stream
//	GET    /metrics                      Prometheus
//	GET    /healthz
package server
