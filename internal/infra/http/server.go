// Package http exposes the ops surface: health probe and Prometheus metrics.
package http

import (
	"context"
	"fmt"
	"net/http"

	"vk-ticket-bot/internal/config"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Server struct {
	cfg    *config.OpsConfig
	log    *zerolog.Logger
	server *http.Server
}

func NewServer(cfg *config.OpsConfig, logger *zerolog.Logger) *Server {
	l := logger.With().Str("component", "OpsServer").Logger()
	return &Server{cfg: cfg, log: &l}
}

func (s *Server) Start() error {
	r := chi.NewRouter()
	r.Use(TraceID)
	r.Use(RequestLog(s.log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: r,
	}

	s.log.Info().Int("port", s.cfg.Port).Msg("ops server listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
