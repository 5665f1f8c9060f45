package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type expireCall struct {
	key string
	ttl time.Duration
}

type mockCmdable struct {
	data        map[string]string
	incr        map[string]int64
	expireCalls []expireCall
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: map[string]string{},
		incr: map[string]int64{},
	}
}

func (m *mockCmdable) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	value, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

func (m *mockCmdable) Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	m.expireCalls = append(m.expireCalls, expireCall{key: key, ttl: ttl})
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			delete(m.data, key)
			removed++
		}
		delete(m.incr, key)
	}
	return redis.NewIntResult(removed, nil)
}

func TestSetGetDel(t *testing.T) {
	mock := newMockCmdable()
	client := &Client{store: mock}
	ctx := context.Background()

	if err := client.Set(ctx, "ck:cart:abc", "payload", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	value, err := client.Get(ctx, "ck:cart:abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != "payload" {
		t.Fatalf("value = %q, want %q", value, "payload")
	}

	if err := client.Del(ctx, "ck:cart:abc"); err != nil {
		t.Fatalf("del: %v", err)
	}

	_, err = client.Get(ctx, "ck:cart:abc")
	if !IsNil(err) {
		t.Fatalf("expected nil sentinel after delete, got %v", err)
	}
}

func TestSetNXOnlySetsOnce(t *testing.T) {
	mock := newMockCmdable()
	client := &Client{store: mock}
	ctx := context.Background()

	first, err := client.SetNX(ctx, "ck:session:access:abc", "1", time.Minute)
	if err != nil {
		t.Fatalf("first setnx: %v", err)
	}
	if !first {
		t.Fatal("first SetNX should win")
	}

	second, err := client.SetNX(ctx, "ck:session:access:abc", "2", time.Minute)
	if err != nil {
		t.Fatalf("second setnx: %v", err)
	}
	if second {
		t.Fatal("second SetNX should lose")
	}

	value, err := client.Get(ctx, "ck:session:access:abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != "1" {
		t.Fatalf("value = %q, want the first write to stick", value)
	}
}

func TestIncrWithTTLFixedWindow(t *testing.T) {
	mock := newMockCmdable()
	client := &Client{store: mock}
	ctx := context.Background()

	key := client.RateLimitKey("ip:login:127.0.0.1")
	window := time.Minute

	for want := int64(1); want <= 3; want++ {
		count, err := client.IncrWithTTL(ctx, key, window)
		if err != nil {
			t.Fatalf("incr %d: %v", want, err)
		}
		if count != want {
			t.Fatalf("count = %d, want %d", count, want)
		}
	}

	if len(mock.expireCalls) != 1 {
		t.Fatalf("expire calls = %d, want exactly 1 (first increment only)", len(mock.expireCalls))
	}
	if mock.expireCalls[0].key != key || mock.expireCalls[0].ttl != window {
		t.Fatalf("unexpected expire call %+v", mock.expireCalls[0])
	}
}

func TestIncrCountsIndependently(t *testing.T) {
	mock := newMockCmdable()
	client := &Client{store: mock}
	ctx := context.Background()

	if _, err := client.Incr(ctx, "ck:rate_limit:a"); err != nil {
		t.Fatalf("incr a: %v", err)
	}
	count, err := client.Incr(ctx, "ck:rate_limit:a")
	if err != nil {
		t.Fatalf("incr a again: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}

	other, err := client.Incr(ctx, "ck:rate_limit:b")
	if err != nil {
		t.Fatalf("incr b: %v", err)
	}
	if other != 1 {
		t.Fatalf("count = %d, want 1 for a fresh key", other)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}

	if got := client.RateLimitKey("ip:login:10.0.0.1"); got != "ck:rate_limit:ip:login:10.0.0.1" {
		t.Fatalf("rate limit key = %q", got)
	}
	if got := client.AccessSessionKey("abc-123"); got != "ck:session:access:abc-123" {
		t.Fatalf("access session key = %q", got)
	}
	if got := client.CartKey("visitor-1"); got != "ck:cart:visitor-1" {
		t.Fatalf("cart key = %q", got)
	}
	if got := client.AccessSessionKey(""); got != "ck:session:access" {
		t.Fatalf("empty id key = %q", got)
	}
}

func TestPingRequiresStore(t *testing.T) {
	client := &Client{}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("ping without a store should fail")
	}

	client = &Client{store: newMockCmdable()}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
