package idempotency

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore хранит ключи в памяти процесса (один экземпляр API)
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore(defaultTTL time.Duration) *MemoryStore {
	return &MemoryStore{cache: cache.New(defaultTTL, 10*time.Minute)}
}

func (s *MemoryStore) Reserve(_ context.Context, key string, fingerprint uint64, ttl time.Duration) (*Record, bool, error) {
	rec := Record{Fingerprint: fingerprint}
	if err := s.cache.Add(key, rec, ttl); err == nil {
		return nil, true, nil
	}
	x, found := s.cache.Get(key)
	if !found {
		// ключ истёк между Add и Get
		if err := s.cache.Add(key, rec, ttl); err == nil {
			return nil, true, nil
		}
		x, found = s.cache.Get(key)
		if !found {
			return nil, false, nil
		}
	}
	existing := x.(Record)
	return &existing, false, nil
}

func (s *MemoryStore) Complete(_ context.Context, key string, rec Record, ttl time.Duration) error {
	rec.Done = true
	s.cache.Set(key, rec, ttl)
	return nil
}

func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}
