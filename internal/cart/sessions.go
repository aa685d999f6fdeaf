package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sessions persists carts keyed by session identifier.
type Sessions interface {
	Load(ctx context.Context, sessionID string) (*Store, error)
	Save(ctx context.Context, store *Store) error
	Delete(ctx context.Context, sessionID string) error
}

const sessionKeyPrefix = "cart:session:"

// RedisSessions stores carts as JSON documents in Redis with a sliding TTL.
type RedisSessions struct {
	Client *redis.Client
	TTL    time.Duration
	Now    func() time.Time
}

func (r *RedisSessions) ttl() time.Duration {
	if r == nil || r.TTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return r.TTL
}

func (r *RedisSessions) now() time.Time {
	if r != nil && r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Load fetches the cart for a session, returning a fresh empty cart when no
// document exists yet.
func (r *RedisSessions) Load(ctx context.Context, sessionID string) (*Store, error) {
	if r == nil || r.Client == nil {
		return nil, fmt.Errorf("cart sessions not configured")
	}
	data, err := r.Client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return NewStore(sessionID), nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}
	var store Store
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	store.ID = sessionID
	return &store, nil
}

// Save writes the cart back and refreshes its TTL.
func (r *RedisSessions) Save(ctx context.Context, store *Store) error {
	if r == nil || r.Client == nil {
		return fmt.Errorf("cart sessions not configured")
	}
	store.UpdatedAt = r.now()
	data, err := json.Marshal(store)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := r.Client.Set(ctx, sessionKeyPrefix+store.ID, data, r.ttl()).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Delete removes the cart document.
func (r *RedisSessions) Delete(ctx context.Context, sessionID string) error {
	if r == nil || r.Client == nil {
		return fmt.Errorf("cart sessions not configured")
	}
	if err := r.Client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

// MemorySessions keeps carts in process memory. Used in tests and when no
// Redis is configured.
type MemorySessions struct {
	mu     sync.Mutex
	stores map[string]*Store
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{stores: make(map[string]*Store)}
}

func (m *MemorySessions) Load(_ context.Context, sessionID string) (*Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stores[sessionID]; ok {
		clone := *s
		clone.Lines = append([]Line(nil), s.Lines...)
		return &clone, nil
	}
	return NewStore(sessionID), nil
}

func (m *MemorySessions) Save(_ context.Context, store *Store) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *store
	clone.Lines = append([]Line(nil), store.Lines...)
	m.stores[store.ID] = &clone
	return nil
}

func (m *MemorySessions) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, sessionID)
	return nil
}
