// Package config provides configuration parsing for the tracked server.
//
// The configuration is stored in tracked.json. Every field is optional;
// missing values take the defaults returned by New.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "localhost",
//	    "port": 8080,
//	    "shutdownTimeout": "10s",
//	    "dispatchQueueSize": 256
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "metrics": {
//	    "disabled": false,
//	    "namespace": "tracked",
//	    "path": "/metrics"
//	  },
//	  "tracing": {
//	    "tracerName": "github.com/vango-dev/tracked"
//	  },
//	  "board": {
//	    "batchSize": 1000,
//	    "strategy": "helpers"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadOrDefault("tracked.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
