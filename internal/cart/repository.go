package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	pkgerrors "github.com/casakiran/storefront-backend/pkg/errors"
	redisclient "github.com/casakiran/storefront-backend/pkg/redis"
)

// Repository persists carts keyed by visitor session id. Load returns an
// empty store for unknown sessions.
type Repository interface {
	Load(ctx context.Context, sessionID string) (*Store, error)
	Save(ctx context.Context, sessionID string, store *Store) error
	Delete(ctx context.Context, sessionID string) error
}

type memoryRepository struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

// NewMemoryRepository returns a process-local repository. Carts live for
// the lifetime of the process and never expire.
func NewMemoryRepository() Repository {
	return &memoryRepository{carts: map[string][]byte{}}
}

func (r *memoryRepository) Load(_ context.Context, sessionID string) (*Store, error) {
	r.mu.RLock()
	raw, ok := r.carts[sessionID]
	r.mu.RUnlock()
	if !ok {
		return NewStore(), nil
	}
	store := NewStore()
	if err := json.Unmarshal(raw, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode stored cart")
	}
	return store, nil
}

func (r *memoryRepository) Save(_ context.Context, sessionID string, store *Store) error {
	raw, err := json.Marshal(store)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	r.mu.Lock()
	r.carts[sessionID] = raw
	r.mu.Unlock()
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.carts, sessionID)
	r.mu.Unlock()
	return nil
}

type cartCache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

type redisRepository struct {
	cache cartCache
	ttl   time.Duration
}

// NewRedisRepository returns a repository that stores carts as JSON blobs
// with the supplied TTL. The TTL is refreshed on every save.
func NewRedisRepository(client *redisclient.Client, ttl time.Duration) (Repository, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &redisRepository{cache: client, ttl: ttl}, nil
}

func (r *redisRepository) Load(ctx context.Context, sessionID string) (*Store, error) {
	raw, err := r.cache.Get(ctx, r.cache.CartKey(sessionID))
	if err != nil {
		if redisclient.IsNil(err) {
			return NewStore(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	store := NewStore()
	if err := json.Unmarshal([]byte(raw), store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode stored cart")
	}
	return store, nil
}

func (r *redisRepository) Save(ctx context.Context, sessionID string, store *Store) error {
	raw, err := json.Marshal(store)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := r.cache.Set(ctx, r.cache.CartKey(sessionID), string(raw), r.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func (r *redisRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.cache.Del(ctx, r.cache.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart")
	}
	return nil
}
