package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Lutefd/nbu-rates/internal/commons"
	"github.com/Lutefd/nbu-rates/internal/logger"
	"github.com/Lutefd/nbu-rates/internal/service"
)

type Server struct {
	port   int
	router http.Handler
	config commons.Config
}

func NewServer(config commons.Config, rateService service.RateServiceInterface) *Server {
	server := &Server{
		port:   int(config.ServerPort),
		config: config,
	}
	server.registerRoutes(rateService)
	return server
}

func (s *Server) Router() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then drains in-flight requests for
// up to ServerShutdownTimeout.
func (s *Server) Start(ctx context.Context) error {
	logger.Infof("starting server on port %d", s.port)
	ch := make(chan error, 1)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		IdleTimeout:  commons.ServerIdleTimeout,
		ReadTimeout:  commons.ServerReadTimeout,
		WriteTimeout: commons.ServerWriteTimeout,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			ch <- fmt.Errorf("failed to start server: %w", err)
		}
		close(ch)
	}()

	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), commons.ServerShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	}
}
