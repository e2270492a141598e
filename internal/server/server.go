package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/tracked/internal/config"
	"github.com/vango-dev/tracked/internal/counters"
	"github.com/vango-dev/tracked/internal/errors"
	"github.com/vango-dev/tracked/pkg/reactive"
	"github.com/vango-dev/tracked/pkg/reactive/metrics"
)

// Server serves one counters board.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	tracer   trace.Tracer

	loop     *loop
	hub      *hub

	// removeObserver unregisters this server's runtime metrics observer.
	removeObserver func()
	upgrader websocket.Upgrader
	router   chi.Router
}

// Option configures a Server.
type Option func(*options)

type options struct {
	logger         *slog.Logger
	registry       *prometheus.Registry
	tracerProvider trace.TracerProvider
	checkOrigin    func(r *http.Request) bool
}

// WithLogger sets the server logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRegistry sets the Prometheus registry metrics are registered with and
// served from. Default: a new registry per server.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider. Default: the
// global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithCheckOrigin sets the WebSocket origin check. Default: same origin.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(o *options) {
		o.checkOrigin = fn
	}
}

// New creates a server and starts its dispatch loop. Call Close to stop it.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{
		logger:         slog.Default(),
		tracerProvider: otel.GetTracerProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}

	strategy, err := counters.ParseStrategy(cfg.Board.Strategy)
	if err != nil {
		return nil, errors.New("T001").Wrap(err)
	}
	board := counters.NewBoard(
		counters.WithStrategy(strategy),
		counters.WithLogger(o.logger),
	)

	s := &Server{
		cfg:      cfg,
		logger:   o.logger,
		registry: o.registry,
		tracer:   o.tracerProvider.Tracer(cfg.Tracing.TracerName),
		loop:     newLoop(board, cfg.Server.DispatchQueueSize, o.logger),
		hub:      newHub(o.logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     o.checkOrigin,
		},
	}

	if !cfg.Metrics.Disabled {
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		s.removeObserver = reactive.AddObserver(metrics.NewObserver(
			metrics.WithNamespace(cfg.Metrics.Namespace),
			metrics.WithRegistry(s.registry),
		))
	}

	go s.loop.run()

	// The watcher runs on the loop goroutine, after every job that changed
	// the board.
	err = s.loop.do(context.Background(), func(b *counters.Board) error {
		b.Watch(s.publish)
		return nil
	})
	if err != nil {
		s.Close()
		return nil, err
	}

	s.router = s.routes()
	return s, nil
}

// publish sends a snapshot to every WebSocket client.
func (s *Server) publish(snap counters.Snapshot) {
	if s.hub.len() == 0 {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error("snapshot encode failed", "error", err)
		return
	}
	s.hub.broadcast(data)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(tracing(s.tracer))
	if !s.cfg.Metrics.Disabled {
		m := newHTTPMetrics(s.registry, s.cfg.Metrics.Namespace, func() float64 {
			return float64(s.hub.len())
		})
		r.Use(m.middleware)
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/ws", s.handleWebSocket)
	if !s.cfg.Metrics.Disabled {
		r.Method(http.MethodGet, s.cfg.Metrics.Path,
			promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))
	}

	r.Route("/api/counters", func(r chi.Router) {
		r.Get("/", s.handleSnapshot)
		r.Post("/", s.handleAdd)
		r.Delete("/", s.handleClear)
		r.Post("/batch", s.handleBatch)
		r.Delete("/last", s.handleRemoveLast)
		r.Post("/{id}/increment", s.handleIncrement)
		r.Delete("/{id}", s.handleRemove)
	})

	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Registry returns the Prometheus registry the server reports to.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully and closes the server.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address())
	if err != nil {
		return errors.New("T020").
			WithDetailf("cannot listen on %s", s.cfg.Address()).
			Wrap(err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server started", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.Close()
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.New("T020").Wrap(err)

	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout())
	defer cancel()

	s.logger.Info("server shutting down")
	s.hub.closeAll()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return errors.Newf(errors.CategoryServer, "shutdown incomplete").Wrap(err)
	}
	return nil
}

// Close stops the dispatch loop, disposes the board and disconnects every
// WebSocket client. It is safe to call more than once.
func (s *Server) Close() {
	s.loop.close()
	s.hub.closeAll()
	if s.removeObserver != nil {
		s.removeObserver()
	}
}
