package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"
)

// DefaultMaxBodyBytes bounds request bodies when Config leaves it zero.
const DefaultMaxBodyBytes int64 = 4 << 20

// Config configures a Server.
type Config struct {
	Addr         string
	RateLimit    float64 // requests per second, 0 = unlimited
	Burst        int
	MaxBodyBytes int64
	Cache        ResultCache // nil disables result caching
	// ShutdownTimeout bounds graceful shutdown; 0 means 5s.
	ShutdownTimeout time.Duration
}

// Server is the HTTP front of the tokenizer.
type Server struct {
	cfg     Config
	router  *mux.Router
	metrics *Metrics
	limiter *Limiter
	cache   ResultCache
	ready   atomic.Bool
}

// New builds the router. The server reports ready once Serve is running.
func New(cfg Config) *Server {
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	s := &Server{
		cfg:     cfg,
		metrics: NewMetrics(),
		limiter: NewLimiter(cfg.RateLimit, cfg.Burst),
		cache:   cfg.Cache,
	}

	r := mux.NewRouter()
	r.Use(withRequestID, withMetrics(s.metrics))

	api := r.PathPrefix("/v1").Subrouter()
	api.Use(withRateLimit(s.limiter))
	api.HandleFunc("/tokenize", s.tokenizeJSON).Methods(http.MethodPost)
	api.HandleFunc("/tokenize/raw", s.tokenizeRaw).Methods(http.MethodPost)

	// Health related handlers
	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.readyz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	s.router = r
	return s
}

// Handler returns the root handler, e.g. for httptest.
func (s *Server) Handler() http.Handler { return s.router }

// Metrics exposes the server collectors.
func (s *Server) Metrics() *Metrics { return s.metrics }

// SetReady flips the readiness probe.
func (s *Server) SetReady(ready bool) { s.ready.Store(ready) }

// ListenAndServe listens on cfg.Addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.SetReady(true)
	klog.InfoS("wstok server listening", "addr", ln.Addr().String(), "rateLimit", s.limiter.Limit(), "maxBodyBytes", s.cfg.MaxBodyBytes)

	select {
	case err := <-errCh:
		s.SetReady(false)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.SetReady(false)
	klog.InfoS("shutting down wstok server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
