package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrLeaseNotFound = errors.New("session lease not found or expired")

// LeaseStore records session liveness with a TTL.
type LeaseStore interface {
	Touch(ctx context.Context, sessionID string, createdAt time.Time, ttl time.Duration) error
	Lookup(ctx context.Context, sessionID string) (LeaseData, error)
	Revoke(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
	Close() error
}

type memoryLease struct {
	data      LeaseData
	expiresAt time.Time
}

// MemoryStore is the LeaseStore used when no Redis URL is configured.
// Expired leases are dropped lazily on lookup.
type MemoryStore struct {
	mu     sync.Mutex
	leases map[string]memoryLease
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		leases: make(map[string]memoryLease),
		now:    time.Now,
	}
}

func (m *MemoryStore) Touch(_ context.Context, sessionID string, createdAt time.Time, ttl time.Duration) error {
	now := m.now()
	m.mu.Lock()
	m.leases[sessionID] = memoryLease{
		data:      LeaseData{SessionID: sessionID, CreatedAt: createdAt, TouchedAt: now.UTC()},
		expiresAt: now.Add(ttl),
	}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Lookup(_ context.Context, sessionID string) (LeaseData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lease, ok := m.leases[sessionID]
	if !ok {
		return LeaseData{}, ErrLeaseNotFound
	}
	if !m.now().Before(lease.expiresAt) {
		delete(m.leases, sessionID)
		return LeaseData{}, ErrLeaseNotFound
	}
	return lease.data, nil
}

func (m *MemoryStore) Revoke(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.leases, sessionID)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }
