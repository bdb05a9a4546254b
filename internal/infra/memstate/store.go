// Package memstate provides an in-memory StateRepository. It backs the bot
// when no Redis is configured and the dialog tests.
package memstate

import (
	"context"
	"sync"

	"vk-ticket-bot/internal/domain/ports/repository"
)

var _ repository.StateRepository = (*Store)(nil)

// Store keeps conversation state in a mutex-guarded map keyed by VK id.
// Values are copied on the way in and out, so callers never share memory
// with the store.
type Store struct {
	mu     sync.RWMutex
	states map[int64]repository.ConversationState
}

func New() *Store {
	return &Store{states: make(map[int64]repository.ConversationState)}
}

func (s *Store) GetState(ctx context.Context, vkID int64) (*repository.ConversationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[vkID]
	if !ok {
		return repository.NewIdleState(), nil
	}
	cp := st
	return &cp, nil
}

func (s *Store) SetState(ctx context.Context, vkID int64, state *repository.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[vkID] = *state
	return nil
}

func (s *Store) ClearState(ctx context.Context, vkID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, vkID)
	return nil
}
