package adapter

import (
	"context"

	"vk-ticket-bot/internal/domain/model"
)

// Messenger is the outbound messaging port. keyboard is a serialized
// keyboard payload; empty keeps whatever keyboard the user already has.
type Messenger interface {
	SendMessage(ctx context.Context, peerID int64, text, keyboard string) error
	FetchUser(ctx context.Context, vkID int64) (*model.User, error)
}
