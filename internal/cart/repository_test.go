package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

func TestMemoryRepositoryLoadUnknownSessionReturnsEmptyCart(t *testing.T) {
	repo := NewMemoryRepository()

	store, err := repo.Load(context.Background(), "missing")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !store.Empty() {
		t.Fatal("expected empty cart")
	}
}

func TestMemoryRepositorySaveIsolatesLaterMutations(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	store := NewStore()
	store.AddItem(Snapshot{ProductID: uuid.New(), Name: "vela", Price: 100}, 1)
	if err := repo.Save(ctx, "sess", store); err != nil {
		t.Fatalf("save: %v", err)
	}

	// mutating the saved store must not leak into the repository copy
	store.Clear()

	loaded, err := repo.Load(ctx, "sess")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ItemCount() != 1 {
		t.Fatal("repository should hold the snapshot taken at save time")
	}
}

func TestMemoryRepositoryDelete(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	store := NewStore()
	store.AddItem(Snapshot{ProductID: uuid.New(), Name: "vela", Price: 100}, 1)
	if err := repo.Save(ctx, "sess", store); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Delete(ctx, "sess"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	loaded, err := repo.Load(ctx, "sess")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.Empty() {
		t.Fatal("deleted session should load as empty")
	}
}

type stubCache struct {
	values  map[string]string
	lastTTL time.Duration
	getErr  error
}

func (s *stubCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	s.values[key] = value.(string)
	s.lastTTL = ttl
	return nil
}

func (s *stubCache) Get(_ context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	v, ok := s.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (s *stubCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

func (s *stubCache) CartKey(sessionID string) string {
	return "ck:cart:" + sessionID
}

func TestRedisRepositoryRoundtrip(t *testing.T) {
	cache := &stubCache{values: map[string]string{}}
	repo := &redisRepository{cache: cache, ttl: time.Hour}
	ctx := context.Background()

	store := NewStore()
	store.AddItem(Snapshot{ProductID: uuid.New(), Name: "vela", Price: 250}, 2)
	store.SetOpen(true)

	if err := repo.Save(ctx, "sess", store); err != nil {
		t.Fatalf("save: %v", err)
	}
	if cache.lastTTL != time.Hour {
		t.Fatalf("expected ttl refresh, got %v", cache.lastTTL)
	}

	loaded, err := repo.Load(ctx, "sess")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ItemCount() != 2 || !loaded.Open() {
		t.Fatal("loaded cart lost state")
	}

	if err := repo.Delete(ctx, "sess"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	empty, err := repo.Load(ctx, "sess")
	if err != nil {
		t.Fatalf("load after delete: %v", err)
	}
	if !empty.Empty() {
		t.Fatal("deleted cart should load empty")
	}
}

func TestRedisRepositoryMissingKeyYieldsEmptyCart(t *testing.T) {
	repo := &redisRepository{cache: &stubCache{values: map[string]string{}}, ttl: time.Hour}

	store, err := repo.Load(context.Background(), "missing")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !store.Empty() {
		t.Fatal("missing key should produce an empty cart")
	}
}

func TestRedisRepositoryPropagatesBackendErrors(t *testing.T) {
	repo := &redisRepository{
		cache: &stubCache{values: map[string]string{}, getErr: errors.New("connection refused")},
		ttl:   time.Hour,
	}

	if _, err := repo.Load(context.Background(), "sess"); err == nil {
		t.Fatal("expected backend error to propagate")
	}
}
