// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"vk-ticket-bot/internal/domain"
	"vk-ticket-bot/internal/domain/model"
	"vk-ticket-bot/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// mockStateRepo is a small in-memory state store used by unit tests.
type mockStateRepo struct {
	mu       sync.Mutex
	states   map[int64]repository.ConversationState
	getErr   error
	setErr   error
	clearErr error
}

func newMockStateRepo() *mockStateRepo {
	return &mockStateRepo{states: make(map[int64]repository.ConversationState)}
}

func (m *mockStateRepo) GetState(ctx context.Context, vkID int64) (*repository.ConversationState, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[vkID]
	if !ok {
		return repository.NewIdleState(), nil
	}
	cp := st
	return &cp, nil
}

func (m *mockStateRepo) SetState(ctx context.Context, vkID int64, state *repository.ConversationState) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[vkID] = *state
	return nil
}

func (m *mockStateRepo) ClearState(ctx context.Context, vkID int64) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, vkID)
	return nil
}

// step is a test convenience for asserting the current step of a user.
func (m *mockStateRepo) step(vkID int64) repository.Step {
	st, _ := m.GetState(context.Background(), vkID)
	return st.Step
}

func (m *mockStateRepo) selection(vkID int64) repository.Selection {
	st, _ := m.GetState(context.Background(), vkID)
	return st.Selection
}

// mockCommandRepo resolves against a fixed in-memory command list.
type mockCommandRepo struct {
	commands []*model.Command
	findErr  error
}

func newMockCommandRepo(cmds ...*model.Command) *mockCommandRepo {
	return &mockCommandRepo{commands: cmds}
}

func (m *mockCommandRepo) FindByText(ctx context.Context, text string) (*model.Command, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, c := range m.commands {
		if c.Matches(text) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockCommandRepo) List(ctx context.Context) ([]*model.Command, error) {
	return m.commands, nil
}

func (m *mockCommandRepo) Save(ctx context.Context, cmd *model.Command) error {
	m.commands = append(m.commands, cmd)
	return nil
}

func (m *mockCommandRepo) Delete(ctx context.Context, name string) error { return nil }

// mockVenue lets each test script the external data source.
type mockVenue struct {
	loadFunc     func(ctx context.Context) (*model.LoadSnapshot, error)
	sessionsFunc func(ctx context.Context, date string) ([]model.Session, error)
	tariffsFunc  func(ctx context.Context, date string) ([]model.Tariff, error)
}

func newMockVenue() *mockVenue {
	return &mockVenue{
		loadFunc: func(ctx context.Context) (*model.LoadSnapshot, error) {
			return &model.LoadSnapshot{VisitorCount: 42, LoadPercent: 21}, nil
		},
		sessionsFunc: func(ctx context.Context, date string) ([]model.Session, error) {
			return []model.Session{
				{TimeLabel: "10:00", FreeCount: 12, TotalCount: 50},
				{TimeLabel: "14:00", FreeCount: 3, TotalCount: 50},
			}, nil
		},
		tariffsFunc: func(ctx context.Context, date string) ([]model.Tariff, error) {
			return []model.Tariff{
				{Name: "Взрослый билет", Price: 1500},
				{Name: "Детский билет", Price: 500},
			}, nil
		},
	}
}

func (m *mockVenue) FetchCurrentLoad(ctx context.Context) (*model.LoadSnapshot, error) {
	return m.loadFunc(ctx)
}

func (m *mockVenue) FetchSessions(ctx context.Context, date string) ([]model.Session, error) {
	return m.sessionsFunc(ctx, date)
}

func (m *mockVenue) FetchTariffs(ctx context.Context, date string) ([]model.Tariff, error) {
	return m.tariffsFunc(ctx, date)
}

// sentMessage captures one outbound send.
type sentMessage struct {
	peerID   int64
	text     string
	keyboard string
}

type mockMessenger struct {
	mu      sync.Mutex
	sent    []sentMessage
	sendErr error
}

func newMockMessenger() *mockMessenger { return &mockMessenger{} }

func (m *mockMessenger) SendMessage(ctx context.Context, peerID int64, text, keyboard string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{peerID: peerID, text: text, keyboard: keyboard})
	return nil
}

func (m *mockMessenger) FetchUser(ctx context.Context, vkID int64) (*model.User, error) {
	return model.NewUser(vkID, "Иван", "Тестов", "ivan_test")
}

func (m *mockMessenger) last() sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMessage{}
	}
	return m.sent[len(m.sent)-1]
}

func (m *mockMessenger) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// mockUserRepo is an in-memory UserRepository.
type mockUserRepo struct {
	mu    sync.Mutex
	store map[int64]*model.User

	statsErr  error
	searchErr error
	banErr    error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{store: make(map[int64]*model.User)}
}

func (m *mockUserRepo) FindByVKID(ctx context.Context, vkID int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[vkID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) Upsert(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	if prev, ok := m.store[user.VKID]; ok {
		cp.MessageCount = prev.MessageCount
		cp.Banned = prev.Banned
		cp.BanReason = prev.BanReason
	}
	m.store[user.VKID] = &cp
	return nil
}

func (m *mockUserRepo) IncrementMessageCount(ctx context.Context, vkID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.store[vkID]; ok {
		u.MessageCount++
	}
	return nil
}

func (m *mockUserRepo) UpdateActivity(ctx context.Context, vkID int64, online bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.store[vkID]; ok {
		u.IsOnline = online
		u.LastActiveAt = time.Now()
	}
	return nil
}

func (m *mockUserRepo) MarkOfflineIdle(ctx context.Context, idleFor time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-idleFor)
	n := 0
	for _, u := range m.store {
		if u.IsOnline && u.LastActiveAt.Before(cutoff) {
			u.IsOnline = false
			n++
		}
	}
	return n, nil
}

func (m *mockUserRepo) Stats(ctx context.Context) (*repository.UserStats, error) {
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &repository.UserStats{}
	for _, u := range m.store {
		s.Total++
		if u.IsOnline {
			s.Online++
		}
		if u.Banned {
			s.Banned++
		}
		s.Messages += u.MessageCount
	}
	return s, nil
}

func (m *mockUserRepo) Search(ctx context.Context, query string, limit int) ([]*model.User, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.User
	for _, u := range m.store {
		if len(out) >= limit {
			break
		}
		if containsFold(u.FirstName, query) || containsFold(u.LastName, query) || containsFold(u.Username, query) {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockUserRepo) SetBanned(ctx context.Context, vkID int64, banned bool, reason string) error {
	if m.banErr != nil {
		return m.banErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[vkID]
	if !ok {
		return domain.ErrNotFound
	}
	u.Banned = banned
	u.BanReason = reason
	return nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
