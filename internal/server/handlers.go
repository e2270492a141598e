package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/tracked/internal/config"
	"github.com/vango-dev/tracked/internal/counters"
	"github.com/vango-dev/tracked/internal/errors"
)

// batchResult is the response of a batch add.
type batchResult struct {
	Added  int `json:"added"`
	NextID int `json:"nextId"`
}

func annotate(r *http.Request, op string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(append(attrs, opAttr.String(op))...)
}

// intParam parses a query parameter, returning def when it is absent.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("T010").
			WithDetailf("query parameter %q must be an integer, got %q", name, raw).
			Wrap(err)
	}
	return n, nil
}

func counterID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 0 {
		return 0, errors.New("T010").WithDetailf("counter id %q is not a non-negative integer", raw)
	}
	return id, nil
}

func view(c counters.Counter) counters.CounterView {
	return counters.CounterView{ID: c.ID, Value: c.Value.Peek()}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap counters.Snapshot
	err := s.loop.do(r.Context(), func(b *counters.Board) error {
		snap = b.Snapshot()
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	annotate(r, "push")

	var added counters.CounterView
	err := s.loop.do(r.Context(), func(b *counters.Board) error {
		c, err := b.AddCounter()
		if err != nil {
			return err
		}
		added = view(c)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "n", s.cfg.Board.BatchSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if n < 0 || n > config.MaxBatchSize {
		s.writeError(w, r, errors.New("T010").
			WithDetailf("n must be between 0 and %d", config.MaxBatchSize))
		return
	}
	annotate(r, "extend", attribute.Int("tracked.count", n))

	var res batchResult
	err = s.loop.do(r.Context(), func(b *counters.Board) error {
		if err := b.AddMany(n); err != nil {
			return err
		}
		res = batchResult{Added: n, NextID: b.NextID().Peek()}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	annotate(r, "clear")

	err := s.loop.do(r.Context(), func(b *counters.Board) error {
		return b.Clear()
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveLast(w http.ResponseWriter, r *http.Request) {
	annotate(r, "pop")

	var removed counters.CounterView
	err := s.loop.do(r.Context(), func(b *counters.Board) error {
		c, err := b.RemoveLast()
		if err != nil {
			return err
		}
		removed = view(c)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, removed)
}

func (s *Server) handleIncrement(w http.ResponseWriter, r *http.Request) {
	id, err := counterID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	by, err := intParam(r, "by", 1)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	annotate(r, "add", attribute.Int("tracked.counter_id", id))

	var updated counters.CounterView
	err = s.loop.do(r.Context(), func(b *counters.Board) error {
		v, err := b.Increment(id, by)
		if err != nil {
			return err
		}
		updated = counters.CounterView{ID: id, Value: v}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	id, err := counterID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	annotate(r, "remove", attribute.Int("tracked.counter_id", id))

	var removed counters.CounterView
	err = s.loop.do(r.Context(), func(b *counters.Board) error {
		c, err := b.RemoveCounter(id)
		if err != nil {
			return err
		}
		removed = view(c)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, removed)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the request.
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	if err := s.register(r.Context(), c); err != nil {
		conn.Close()
		return
	}

	go c.writePump(s.logger)
	c.readPump(s.logger)
	s.hub.remove(c)
}

// register adds c to the hub with the current snapshot as its first
// message. Registering on the loop orders that snapshot before any broadcast
// that follows it. On error c is not left in the hub.
func (s *Server) register(ctx context.Context, c *client) error {
	err := s.loop.do(ctx, func(b *counters.Board) error {
		// The job may run after the caller gave up waiting.
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := json.Marshal(b.Snapshot())
		if err != nil {
			return err
		}
		s.hub.add(c, data)
		return nil
	})
	if err != nil {
		s.hub.remove(c)
	}
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
