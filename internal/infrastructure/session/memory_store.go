package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	domainRepo "github.com/sangkips/tillpoint-api/internal/domain/repository"
)

type userState struct {
	till        *uuid.UUID
	closeReauth time.Time // expiry; zero when not granted
	forceReauth bool
}

// MemoryStore is a process-local SessionStore used with the memory storage driver
type MemoryStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*userState
	now   func() time.Time
}

// NewMemoryStore creates an empty in-process session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[uuid.UUID]*userState), now: time.Now}
}

var _ domainRepo.SessionStore = (*MemoryStore)(nil)

// SetClock overrides the clock used for re-authentication expiry
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *MemoryStore) get(userID uuid.UUID) *userState {
	st, ok := m.users[userID]
	if !ok {
		st = &userState{}
		m.users[userID] = st
	}
	return st
}

func (m *MemoryStore) SetSelectedTill(ctx context.Context, userID, tillID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := tillID
	m.get(userID).till = &id
	return nil
}

func (m *MemoryStore) GetSelectedTill(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.users[userID]
	if !ok || st.till == nil {
		return nil, nil
	}
	id := *st.till
	return &id, nil
}

func (m *MemoryStore) ClearSelectedTill(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.get(userID).till = nil
	return nil
}

func (m *MemoryStore) GrantCloseReauth(ctx context.Context, userID uuid.UUID, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.get(userID).closeReauth = m.now().Add(ttl)
	return nil
}

func (m *MemoryStore) HasCloseReauth(ctx context.Context, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.users[userID]
	if !ok || st.closeReauth.IsZero() {
		return false, nil
	}
	return m.now().Before(st.closeReauth), nil
}

func (m *MemoryStore) RevokeCloseReauth(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.get(userID).closeReauth = time.Time{}
	return nil
}

func (m *MemoryStore) SetForceReauth(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.get(userID).forceReauth = true
	return nil
}

func (m *MemoryStore) IsForceReauth(ctx context.Context, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.users[userID]
	return ok && st.forceReauth, nil
}

func (m *MemoryStore) ClearForceReauth(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.get(userID).forceReauth = false
	return nil
}

func (m *MemoryStore) Destroy(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, userID)
	return nil
}
