// Package server implementa el servidor HTTP de mate-review: el endpoint
// de webhooks de GitHub y la API de reviews on-demand.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/Tomas-vilte/MateReview/internal/config"
	"github.com/Tomas-vilte/MateReview/internal/domain/models"
	"github.com/Tomas-vilte/MateReview/internal/domain/ports"
	"github.com/Tomas-vilte/MateReview/internal/logger"
)

const defaultAddr = ":8080"

// ServiceFactory crea el servicio de review y el publisher atados a un
// repo. El servidor la invoca por evento: cada webhook puede nombrar un
// repo distinto y los clientes VCS van atados a owner/repo.
type ServiceFactory func(ctx context.Context, owner, repo string) (ports.ReviewService, ports.ReviewPublisher, error)

// Server es el servidor HTTP de mate-review.
type Server struct {
	addr     string
	mux      *http.ServeMux
	server   *http.Server
	services ServiceFactory
	opts     models.ReviewOptions
	secret   []byte

	// reviews cuenta las reviews de webhook en vuelo; el shutdown espera a
	// que terminen y el run deadline de cada una acota esa espera.
	reviews sync.WaitGroup
}

// New arma el servidor con las rutas registradas. Los defaults de review
// del config aplican a todas las corridas que dispare el servidor.
func New(cfg *config.Config, services ServiceFactory) *Server {
	addr := cfg.Server.Addr
	if addr == "" {
		addr = defaultAddr
	}

	s := &Server{
		addr:     addr,
		services: services,
		opts:     cfg.ReviewOptions(),
		secret:   []byte(cfg.Server.WebhookSecret),
	}

	s.mux = http.NewServeMux()
	s.registerRoutes()

	// El write timeout tiene que sobrevivir una review síncrona completa.
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: s.opts.RunDeadline + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /webhook/github", s.handleGitHubWebhook)
	s.mux.HandleFunc("POST /review", s.handleReview)
}

// Run sirve hasta que el contexto se cancele y después apaga en orden:
// primero el listener, después las reviews de webhook en vuelo.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	log := logger.FromContext(ctx)
	log.Info("server listening", "addr", s.addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	s.reviews.Wait()
	log.Info("server stopped")
	return nil
}

// Handler expone el mux para tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Addr retorna la dirección efectiva de escucha.
func (s *Server) Addr() string {
	return s.addr
}
