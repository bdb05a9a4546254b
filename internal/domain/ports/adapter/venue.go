package adapter

import (
	"context"

	"vk-ticket-bot/internal/domain/model"
)

// VenueAPI is the port for the venue's live data source. Dates use the
// dd.MM.yyyy format the dialog shows to users. Failures surface as errors;
// the dialog engine converts them into user-facing fallback messages.
type VenueAPI interface {
	FetchCurrentLoad(ctx context.Context) (*model.LoadSnapshot, error)
	FetchSessions(ctx context.Context, date string) ([]model.Session, error)
	FetchTariffs(ctx context.Context, date string) ([]model.Tariff, error)
}
