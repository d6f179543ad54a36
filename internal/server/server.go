package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"goodgood/internal/gg"
)

// Server runs the content listener and, optionally, a metrics listener.
type Server struct {
	http    *http.Server
	metrics *http.Server
	logger  gg.Logger
}

// NewServer creates a Server. An empty metricsAddr disables the metrics
// listener; reg is only used when it is enabled.
func NewServer(addr, metricsAddr string, handler http.Handler, reg prometheus.Gatherer, logger gg.Logger) *Server {
	s := &Server{
		http: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		s.metrics = &http.Server{
			Addr:         metricsAddr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
	}
	return s
}

// Run listens until ctx is cancelled, then shuts down gracefully. A
// listener failure stops both listeners and is returned.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	var mln net.Listener
	if s.metrics != nil {
		mln, err = net.Listen("tcp", s.metrics.Addr)
		if err != nil {
			ln.Close()
			return err
		}
	}
	return s.Serve(ctx, ln, mln)
}

// Serve is Run on already-open listeners. mln may be nil.
func (s *Server) Serve(ctx context.Context, ln, mln net.Listener) error {
	errc := make(chan error, 2)
	s.logger.Info("server listening", "addr", ln.Addr().String())
	go func() { errc <- s.http.Serve(ln) }()
	if s.metrics != nil && mln != nil {
		s.logger.Info("metrics listening", "addr", mln.Addr().String())
		go func() { errc <- s.metrics.Serve(mln) }()
	} else if mln != nil {
		mln.Close()
	}

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errc:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("server shutting down")
	err := s.http.Shutdown(shutdownCtx)
	if s.metrics != nil {
		err = errors.Join(err, s.metrics.Shutdown(shutdownCtx))
	}

	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return serveErr
	}
	return err
}
