package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Entry is a stored response snapshot. Entries for the same key are
// idempotent, so concurrent writers may race with last-write-wins.
type Entry struct {
	Status   int         `json:"status"`
	Header   http.Header `json:"header"`
	Body     []byte      `json:"body"`
	StoredAt time.Time   `json:"stored_at"`
}

// Clone copies an entry so the cached copy is independent of whatever the
// caller does with the returned one.
func (e *Entry) Clone() *Entry {
	clone := &Entry{
		Status:   e.Status,
		Header:   make(http.Header, len(e.Header)),
		Body:     append([]byte(nil), e.Body...),
		StoredAt: e.StoredAt,
	}
	for k, v := range e.Header {
		clone.Header[k] = append([]string(nil), v...)
	}
	return clone
}

// BucketStore is the persistent store of named response buckets. A miss is
// (nil, nil), not an error.
type BucketStore interface {
	Get(ctx context.Context, bucket, key string) (*Entry, error)
	Put(ctx context.Context, bucket, key string, entry *Entry) error
	Buckets(ctx context.Context) ([]string, error)
	DeleteBucket(ctx context.Context, bucket string) error
}

// ============================================================
// Redis-backed store: one hash per bucket
// ============================================================

const redisBucketPrefix = "offline-cache:"

type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client}
}

func (s *RedisStore) Get(ctx context.Context, bucket, key string) (*Entry, error) {
	raw, err := s.Client.HGet(ctx, redisBucketPrefix+bucket, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *RedisStore) Put(ctx context.Context, bucket, key string, entry *Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.Client.HSet(ctx, redisBucketPrefix+bucket, key, raw).Err()
}

func (s *RedisStore) Buckets(ctx context.Context) ([]string, error) {
	var buckets []string
	iter := s.Client.Scan(ctx, 0, redisBucketPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		buckets = append(buckets, strings.TrimPrefix(iter.Val(), redisBucketPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return buckets, nil
}

func (s *RedisStore) DeleteBucket(ctx context.Context, bucket string) error {
	return s.Client.Del(ctx, redisBucketPrefix+bucket).Err()
}

// ============================================================
// In-memory store: used in tests and when Redis is unavailable
// ============================================================

type MemoryStore struct {
	mu      sync.RWMutex
	buckets map[string]map[string]*Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]map[string]*Entry)}
}

func (s *MemoryStore) Get(ctx context.Context, bucket, key string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.buckets[bucket][key]
	if !ok {
		return nil, nil
	}
	return entry.Clone(), nil
}

func (s *MemoryStore) Put(ctx context.Context, bucket, key string, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buckets[bucket] == nil {
		s.buckets[bucket] = make(map[string]*Entry)
	}
	s.buckets[bucket][key] = entry.Clone()
	return nil
}

func (s *MemoryStore) Buckets(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	buckets := make([]string, 0, len(s.buckets))
	for name := range s.buckets {
		buckets = append(buckets, name)
	}
	return buckets, nil
}

func (s *MemoryStore) DeleteBucket(ctx context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, bucket)
	return nil
}
