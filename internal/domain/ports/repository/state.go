package repository

import (
	"context"

	"vk-ticket-bot/internal/domain/model"
)

// Step enumerates where a user is in the ticket purchase flow.
type Step string

const (
	StepIdle               Step = "idle"
	StepWaitingForDate     Step = "waiting_date"
	StepWaitingForSession  Step = "waiting_session"
	StepWaitingForCategory Step = "waiting_category"
	StepWaitingForPayment  Step = "waiting_payment"
)

// Fallbacks used when a selection field is read before it was set.
const (
	UnknownDate    = "неизвестная дата"
	UnknownSession = "неизвестный сеанс"
)

// Selection accumulates the user's choices during the purchase flow.
// Fields are filled step by step and wiped together with the state.
type Selection struct {
	Date     string               `json:"date,omitempty"` // dd.MM.yyyy
	Session  string               `json:"session,omitempty"`
	Category model.TariffCategory `json:"category,omitempty"`
}

// ConversationState holds the user's progress in the ticket purchase flow.
type ConversationState struct {
	Step      Step      `json:"step"`
	Selection Selection `json:"selection"`
}

func NewIdleState() *ConversationState {
	return &ConversationState{Step: StepIdle}
}

// DateOrFallback never returns an empty date; the dialog engine renders
// selections without guarding every read.
func (s *ConversationState) DateOrFallback() string {
	if s == nil || s.Selection.Date == "" {
		return UnknownDate
	}
	return s.Selection.Date
}

func (s *ConversationState) SessionOrFallback() string {
	if s == nil || s.Selection.Session == "" {
		return UnknownSession
	}
	return s.Selection.Session
}

func (s *ConversationState) CategoryLabel() string {
	if s == nil {
		return model.TariffCategory("").Label()
	}
	return s.Selection.Category.Label()
}

// StateRepository is the port for managing per-user conversational state.
// GetState returns a fresh idle state for users it has never seen.
type StateRepository interface {
	GetState(ctx context.Context, vkID int64) (*ConversationState, error)
	SetState(ctx context.Context, vkID int64, state *ConversationState) error
	ClearState(ctx context.Context, vkID int64) error
}
