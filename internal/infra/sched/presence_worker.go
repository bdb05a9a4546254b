package sched

import (
	"context"
	"time"

	"vk-ticket-bot/internal/domain/ports/repository"
	"vk-ticket-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// PresenceWorker periodically flips is_online off for users who went quiet.
// It replaces a detached per-message timer with one supervised loop, so
// failures are observable and the process can stop it on shutdown.
type PresenceWorker struct {
	interval  time.Duration
	idleAfter time.Duration
	users     repository.UserRepository
	log       *zerolog.Logger
}

func NewPresenceWorker(interval, idleAfter time.Duration, users repository.UserRepository, logger *zerolog.Logger) *PresenceWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	if idleAfter <= 0 {
		idleAfter = 5 * time.Minute
	}
	l := logger.With().Str("component", "PresenceWorker").Logger()
	return &PresenceWorker{
		interval:  interval,
		idleAfter: idleAfter,
		users:     users,
		log:       &l,
	}
}

func (w *PresenceWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("starting presence worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping presence worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.users.MarkOfflineIdle(ctx, w.idleAfter)
			if err != nil {
				w.log.Warn().Err(err).Msg("presence sweep error")
				continue
			}
			if n > 0 {
				metrics.AddUsersMarkedOffline(n)
				w.log.Debug().Int("count", n).Msg("users marked offline")
			}
		}
	}
}
