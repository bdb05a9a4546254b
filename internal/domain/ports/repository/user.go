package repository

import (
	"context"
	"time"

	"vk-ticket-bot/internal/domain/model"
)

// UserStats aggregates the counters shown by the admin /стат command.
type UserStats struct {
	Total    int
	Online   int
	Banned   int
	Messages int
}

// UserRepository is the port for the bot's user ledger. Every write on this
// interface is best-effort from the dialog pipeline's perspective.
type UserRepository interface {
	FindByVKID(ctx context.Context, vkID int64) (*model.User, error)
	Upsert(ctx context.Context, user *model.User) error
	IncrementMessageCount(ctx context.Context, vkID int64) error
	UpdateActivity(ctx context.Context, vkID int64, online bool) error
	// MarkOfflineIdle flips is_online off for users silent longer than
	// idleFor and returns how many rows changed.
	MarkOfflineIdle(ctx context.Context, idleFor time.Duration) (int, error)
	Stats(ctx context.Context) (*UserStats, error)
	Search(ctx context.Context, query string, limit int) ([]*model.User, error)
	SetBanned(ctx context.Context, vkID int64, banned bool, reason string) error
}
