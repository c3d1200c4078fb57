package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"wishlist/api/internal/util"
	"wishlist/api/internal/wishlist"
)

var ErrNotFound = errors.New("session not found")

// Factory builds a fresh core session for id.
type Factory func(id string) (*wishlist.Session, error)

// Registry owns every live session. Each access slides the lease TTL; a
// session whose lease has expired is torn down on its next lookup.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*wishlist.Session
	leases   LeaseStore
	factory  Factory
	ttl      time.Duration
	logger   *zap.Logger
}

func NewRegistry(leases LeaseStore, factory Factory, ttl time.Duration, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Registry{
		sessions: make(map[string]*wishlist.Session),
		leases:   leases,
		factory:  factory,
		ttl:      ttl,
		logger:   logger,
	}
}

// Create starts a new session. Sessions left behind by visitors who never
// came back are swept first.
func (r *Registry) Create(ctx context.Context) (*wishlist.Session, error) {
	r.Sweep(ctx)
	id := util.NewID("ws")
	sess, err := r.factory(id)
	if err != nil {
		return nil, fmt.Errorf("init session: %w", err)
	}
	if err := r.leases.Touch(ctx, id, sess.CreatedAt(), r.ttl); err != nil {
		sess.Teardown()
		return nil, err
	}
	r.mu.Lock()
	r.sessions[id] = sess
	r.mu.Unlock()
	r.logger.Info("session created", zap.String("session_id", id))
	return sess, nil
}

func (r *Registry) Get(ctx context.Context, id string) (*wishlist.Session, error) {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}

	if _, err := r.leases.Lookup(ctx, id); err != nil {
		if errors.Is(err, ErrLeaseNotFound) {
			r.logger.Info("session lease expired", zap.String("session_id", id))
			r.drop(id, sess)
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := r.leases.Touch(ctx, id, sess.CreatedAt(), r.ttl); err != nil {
		return nil, err
	}
	return sess, nil
}

// Teardown ends the session and forgets it.
func (r *Registry) Teardown(ctx context.Context, id string) error {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	r.drop(id, sess)
	if err := r.leases.Revoke(ctx, id); err != nil {
		return err
	}
	r.logger.Info("session ended", zap.String("session_id", id))
	return nil
}

func (r *Registry) drop(id string, sess *wishlist.Session) {
	r.mu.Lock()
	if current, ok := r.sessions[id]; ok && current == sess {
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	sess.Teardown()
}

// Sweep tears down every session whose lease has expired and returns how
// many were dropped. Lease store errors leave the session in place.
func (r *Registry) Sweep(ctx context.Context) int {
	r.mu.Lock()
	live := make(map[string]*wishlist.Session, len(r.sessions))
	for id, sess := range r.sessions {
		live[id] = sess
	}
	r.mu.Unlock()

	dropped := 0
	for id, sess := range live {
		_, err := r.leases.Lookup(ctx, id)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrLeaseNotFound) {
			r.logger.Warn("lease lookup failed during sweep", zap.String("session_id", id), zap.Error(err))
			continue
		}
		r.drop(id, sess)
		dropped++
	}
	if dropped > 0 {
		r.logger.Info("expired sessions swept", zap.Int("count", dropped))
	}
	return dropped
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) Ping(ctx context.Context) error {
	return r.leases.Ping(ctx)
}
