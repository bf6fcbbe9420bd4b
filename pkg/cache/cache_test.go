package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "doc:abc", []byte("{}"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "doc:abc")
	if err != nil || hit || data != nil {
		t.Errorf("Get after Set = %q, %v, %v; want a miss", data, hit, err)
	}
	if err := c.Delete(ctx, "doc:abc"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	dk1 := k.DocumentKey("hash123", DocumentKeyOpts{})
	dk2 := k.DocumentKey("hash123", DocumentKeyOpts{Mutate: true})
	if dk1 == dk2 {
		t.Error("Different DocumentKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(dk1, "doc:") {
		t.Errorf("DocumentKey should start with doc: %s", dk1)
	}
	if dk1 != k.DocumentKey("hash123", DocumentKeyOpts{}) {
		t.Error("DocumentKey should be deterministic")
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "html"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "js"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(ak1, "artifact:") {
		t.Errorf("ArtifactKey should start with artifact: %s", ak1)
	}
	if ak1 == k.ArtifactKey("hash456", ArtifactKeyOpts{Format: "html"}) {
		t.Error("Different document hashes should produce different keys")
	}
}

func TestWithPrefix(t *testing.T) {
	inner := NewDefaultKeyer()
	tests := []struct {
		name    string
		inner   Keyer
		prefix  string
		wantDoc string
	}{
		{name: "prefixed", inner: inner, prefix: "preview:", wantDoc: "preview:" + inner.DocumentKey("h", DocumentKeyOpts{})},
		{name: "nil inner uses default", prefix: "ci:", wantDoc: "ci:" + inner.DocumentKey("h", DocumentKeyOpts{})},
		{name: "empty prefix", inner: inner, wantDoc: inner.DocumentKey("h", DocumentKeyOpts{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := WithPrefix(tt.inner, tt.prefix)
			if got := k.DocumentKey("h", DocumentKeyOpts{}); got != tt.wantDoc {
				t.Errorf("DocumentKey = %q, want %q", got, tt.wantDoc)
			}
			if got := k.ArtifactKey("h", ArtifactKeyOpts{Format: "html"}); !strings.HasPrefix(got, tt.prefix+"artifact:") {
				t.Errorf("ArtifactKey = %q, want prefix %q", got, tt.prefix+"artifact:")
			}
		})
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get missing = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "doc:1", []byte(`{"id":"c1"}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "doc:1")
	if err != nil || !hit {
		t.Fatalf("Get after Set = hit %v, err %v", hit, err)
	}
	if string(data) != `{"id":"c1"}` {
		t.Errorf("Get = %q", data)
	}

	if err := c.Delete(ctx, "doc:1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "doc:1"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "doc:1"); err != nil {
		t.Errorf("Delete of missing key should succeed: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should be a miss")
	}
}

func TestDecodeEntry(t *testing.T) {
	now := time.Unix(100, 0)
	future := strconv.FormatInt(now.Add(time.Minute).UnixNano(), 10)
	past := strconv.FormatInt(now.Add(-time.Minute).UnixNano(), 10)

	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{name: "no expiry", raw: "0 doc:1\nfunction() {}", want: "function() {}", ok: true},
		{name: "not yet expired", raw: future + " doc:1\n{}", want: "{}", ok: true},
		{name: "data with newlines", raw: "0 doc:1\na\nb\n", want: "a\nb\n", ok: true},
		{name: "expired", raw: past + " doc:1\n{}"},
		{name: "other key", raw: "0 doc:2\n{}"},
		{name: "no header", raw: "{}"},
		{name: "bad expiry", raw: "soon doc:1\n{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := decodeEntry([]byte(tt.raw), "doc:1", now)
			if ok != tt.ok || string(got) != tt.want {
				t.Errorf("decodeEntry = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	if c.Dir() != dir {
		t.Errorf("Dir = %q, want %q", c.Dir(), dir)
	}

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, key := range []string{"a", "b"} {
		if _, hit, _ := c.Get(ctx, key); hit {
			t.Errorf("%s should be gone after Clear", key)
		}
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir should exist after Clear: %v", err)
	}
}

func TestLRUCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewLRUCache(2)
	if err != nil {
		t.Fatalf("NewLRUCache: %v", err)
	}
	defer c.Close()

	buf := []byte("one")
	_ = c.Set(ctx, "a", buf, 0)
	buf[0] = 'X'
	data, hit, _ := c.Get(ctx, "a")
	if !hit || string(data) != "one" {
		t.Errorf("Get(a) = %q, %v; Set should copy its input", data, hit)
	}

	_ = c.Set(ctx, "b", []byte("two"), 0)
	_ = c.Set(ctx, "c", []byte("three"), 0)
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
	if _, hit, _ := c.Get(ctx, "b"); hit {
		t.Error("least recently used entry should be evicted")
	}

	_ = c.Delete(ctx, "a")
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry should be gone after Delete")
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewLRUCache(0)
	if err != nil {
		t.Fatalf("NewLRUCache: %v", err)
	}

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("fresh entry should hit")
	}
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should be a miss")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be evicted, Len = %d", c.Len())
	}
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("CHARTWIRE_TEST_REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/15"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, err := NewRedisCache(ctx, url)
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	defer c.Close()

	key := "chartwire:test:" + Hash([]byte(t.Name()))
	defer c.Delete(context.Background(), key)

	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("Get missing = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "payload" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
}

func TestClassifyRedisError(t *testing.T) {
	if classifyRedisError(nil) != nil {
		t.Error("nil should stay nil")
	}
	if IsRetryable(classifyRedisError(redis.Nil)) {
		t.Error("redis.Nil is a miss, not a retryable failure")
	}
	if IsRetryable(classifyRedisError(context.Canceled)) {
		t.Error("context errors should not be retried")
	}
	err := classifyRedisError(errors.New("dial tcp: connection refused"))
	if !IsRetryable(err) {
		t.Error("transport errors should be retryable")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("transport errors should wrap ErrNetwork")
	}
}

var errMiss = errors.New("chart not cached")

// fastBackoff keeps retry tests quick.
var fastBackoff = Backoff{Attempts: 3, Delay: time.Millisecond}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}

	err := Retryable(ErrNetwork)
	if !IsRetryable(err) {
		t.Error("marked errors should be retryable")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("marked errors should unwrap to the cause")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("message = %q, want the cause's", err.Error())
	}
	if IsRetryable(errMiss) {
		t.Error("unmarked errors are not retryable")
	}
}

func TestBackoffRetry(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   bool
	}{
		{name: "first call succeeds", wantCalls: 1},
		{name: "permanent error stops", failures: 5, err: errMiss, wantCalls: 1, wantErr: true},
		{name: "recovers after retries", failures: 2, err: Retryable(ErrNetwork), wantCalls: 3},
		{name: "gives up after attempts", failures: 5, err: Retryable(ErrNetwork), wantCalls: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := fastBackoff.Retry(ctx, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestBackoffZeroAttemptsCallsOnce(t *testing.T) {
	calls := 0
	_ = Backoff{}.Retry(context.Background(), func() error {
		calls++
		return Retryable(ErrNetwork)
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
