package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vk-ticket-bot/internal/domain/ports/repository"
)

var _ repository.StateRepository = (*StateRepo)(nil)

// StateRepo manages user conversational state in Redis.
type StateRepo struct {
	client *Client
	ttl    time.Duration
}

// NewStateRepo builds the Redis-backed state store. ttl bounds how long an
// abandoned purchase flow survives before falling back to idle.
func NewStateRepo(client *Client, ttl time.Duration) *StateRepo {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &StateRepo{client: client, ttl: ttl}
}

func (s *StateRepo) stateKey(vkID int64) string {
	return fmt.Sprintf("conv_state:%d", vkID)
}

func (s *StateRepo) SetState(ctx context.Context, vkID int64, state *repository.ConversationState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.stateKey(vkID), data, s.ttl)
}

func (s *StateRepo) GetState(ctx context.Context, vkID int64) (*repository.ConversationState, error) {
	data, err := s.client.Get(ctx, s.stateKey(vkID))
	if err != nil {
		if IsNil(err) {
			// Unseen user: implicit idle state.
			return repository.NewIdleState(), nil
		}
		return nil, err
	}

	var state repository.ConversationState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	if state.Step == "" {
		state.Step = repository.StepIdle
	}
	return &state, nil
}

func (s *StateRepo) ClearState(ctx context.Context, vkID int64) error {
	return s.client.Del(ctx, s.stateKey(vkID))
}
