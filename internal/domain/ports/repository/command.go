package repository

import (
	"context"

	"vk-ticket-bot/internal/domain/model"
)

// CommandRepository is the port for the configurable command table.
type CommandRepository interface {
	// FindByText resolves free-form message text against the command
	// triggers. Returns domain.ErrNotFound when nothing matches.
	FindByText(ctx context.Context, text string) (*model.Command, error)
	List(ctx context.Context) ([]*model.Command, error)
	Save(ctx context.Context, cmd *model.Command) error
	Delete(ctx context.Context, name string) error
}
