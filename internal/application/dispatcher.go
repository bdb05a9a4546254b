// Package application wires the per-message pipeline around the dialog
// engine: trace ids, flood control, best-effort user bookkeeping, and the
// catch-all that turns unclassified failures into one apologetic reply.
package application

import (
	"context"
	"time"

	"vk-ticket-bot/internal/domain/ports/adapter"
	"vk-ticket-bot/internal/infra/logging"
	"vk-ticket-bot/internal/infra/metrics"
	"vk-ticket-bot/internal/infra/worker"
	"vk-ticket-bot/internal/usecase"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FloodLimiter is the minimal surface the dispatcher needs from the
// Redis rate limiter. Nil-able: without Redis flood control is off.
type FloodLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// FloodKeyFunc builds the limiter key for a sender.
type FloodKeyFunc func(vkID int64) string

type Dispatcher struct {
	dialog usecase.DialogUseCase
	users  usecase.UserUseCase
	msgr   adapter.Messenger
	pool   *worker.Pool

	flood        FloodLimiter
	floodKey     FloodKeyFunc
	maxPerMinute int

	log *zerolog.Logger
}

func NewDispatcher(
	dialog usecase.DialogUseCase,
	users usecase.UserUseCase,
	msgr adapter.Messenger,
	pool *worker.Pool,
	flood FloodLimiter,
	floodKey FloodKeyFunc,
	maxPerMinute int,
	logger *zerolog.Logger,
) *Dispatcher {
	l := logger.With().Str("component", "Dispatcher").Logger()
	return &Dispatcher{
		dialog:       dialog,
		users:        users,
		msgr:         msgr,
		pool:         pool,
		flood:        flood,
		floodKey:     floodKey,
		maxPerMinute: maxPerMinute,
		log:          &l,
	}
}

// HandleMessage processes one inbound message event end to end. It never
// panics and never returns: every failure ends as a log line plus, at
// worst, a generic error reply. Conversation state is left as-is on
// unclassified failures so the user can retry.
func (d *Dispatcher) HandleMessage(ctx context.Context, senderID, peerID int64, text string) {
	ctx = logging.WithTraceID(ctx, uuid.NewString())
	ctx = logging.WithVKID(ctx, senderID)
	ctx = logging.WithPeerID(ctx, peerID)
	log := logging.With(ctx, d.log)

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("message pipeline panicked")
			metrics.IncMessageProcessed("panic")
			_ = d.msgr.SendMessage(ctx, peerID, usecase.MsgTechError, "")
		}
	}()

	if banned, err := d.users.IsBanned(ctx, senderID); err != nil {
		log.Warn().Err(err).Msg("ban check failed")
	} else if banned {
		log.Debug().Msg("dropping message from banned user")
		metrics.IncMessageProcessed("banned")
		return
	}

	if d.flood != nil {
		ok, err := d.flood.Allow(ctx, d.floodKey(senderID), d.maxPerMinute, time.Minute)
		if err != nil {
			// Limiter malfunction must not take down messaging.
			log.Warn().Err(err).Msg("flood limiter failed")
		} else if !ok {
			log.Debug().Msg("dropping flooded message")
			metrics.IncMessageProcessed("flood")
			return
		}
	}

	d.syncUserAsync(senderID)

	if err := d.dialog.ProcessInboundMessage(ctx, senderID, peerID, text); err != nil {
		log.Error().Err(err).Msg("dialog pipeline failed")
		metrics.IncMessageProcessed("error")
		_ = d.msgr.SendMessage(ctx, peerID, usecase.MsgTechError, "")
		return
	}
	metrics.IncMessageProcessed("ok")
}

// syncUserAsync queues the user bookkeeping off the hot path. Failures are
// logged by the pool and swallowed.
func (d *Dispatcher) syncUserAsync(senderID int64) {
	err := d.pool.Submit(func(ctx context.Context) error {
		profile, err := d.msgr.FetchUser(ctx, senderID)
		if err != nil {
			// Fall back to a bare record so activity still counts.
			if err := d.users.UpdateActivity(ctx, senderID, true); err != nil {
				return err
			}
			return d.users.IncrementMessageCount(ctx, senderID)
		}
		if err := d.users.Sync(ctx, senderID, profile.FirstName, profile.LastName, profile.Username, true); err != nil {
			return err
		}
		return d.users.IncrementMessageCount(ctx, senderID)
	})
	if err != nil {
		d.log.Warn().Err(err).Int64("vk_id", senderID).Msg("user sync not queued")
	}
}
