package telemetry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// MetricsServer serves a metrics handler for the duration of a run.
type MetricsServer struct {
	srv  *http.Server
	addr string
	done chan error
}

// StartMetricsServer listens on addr and serves handler at /metrics.
func StartMetricsServer(addr string, handler http.Handler) (*MetricsServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	s := &MetricsServer{
		srv:  &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		addr: ln.Addr().String(),
		done: make(chan error, 1),
	}
	go func() {
		err := s.srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.done <- err
	}()
	LogInfo("metrics server started", "addr", s.addr)
	return s, nil
}

// Addr returns the bound address.
func (s *MetricsServer) Addr() string { return s.addr }

// Shutdown stops the server and waits for it to exit.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return err
	}
	return <-s.done
}
