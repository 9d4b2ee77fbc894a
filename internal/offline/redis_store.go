package offline

import (
	"context"
	"errors"
	"strings"

	"github.com/noah-isme/mustang-stride-api/internal/repository"
	appErrors "github.com/noah-isme/mustang-stride-api/pkg/errors"
)

const keyPrefix = "offline:"

// RedisStore keeps cached responses in redis under
// offline:<generation>:<request key>. Generation names must not contain
// a colon. Entries never expire; sweeping old generations on activation
// is the only invalidation mechanism.
type RedisStore struct {
	cache *repository.CacheRepository
}

// NewRedisStore wraps a cache repository.
func NewRedisStore(cache *repository.CacheRepository) *RedisStore {
	return &RedisStore{cache: cache}
}

func (s *RedisStore) Get(ctx context.Context, generation, key string) (*Entry, error) {
	var entry Entry
	if err := s.cache.Get(ctx, keyPrefix+generation+":"+key, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *RedisStore) Match(ctx context.Context, key string) (*Entry, error) {
	stored, err := s.cache.Keys(ctx, keyPrefix+"*")
	if err != nil {
		return nil, err
	}
	for _, full := range stored {
		parts := strings.SplitN(full, ":", 3)
		if len(parts) != 3 || parts[2] != key {
			continue
		}
		var entry Entry
		if err := s.cache.Get(ctx, full, &entry); err != nil {
			if errors.Is(err, appErrors.ErrCacheMiss) {
				continue
			}
			return nil, err
		}
		return &entry, nil
	}
	return nil, appErrors.ErrCacheMiss
}

func (s *RedisStore) Put(ctx context.Context, generation, key string, entry *Entry) error {
	return s.cache.Set(ctx, keyPrefix+generation+":"+key, entry, 0)
}

func (s *RedisStore) Sweep(ctx context.Context, keep string) error {
	stored, err := s.cache.Keys(ctx, keyPrefix+"*")
	if err != nil {
		return err
	}
	for _, full := range stored {
		parts := strings.SplitN(full, ":", 3)
		if len(parts) != 3 || parts[1] == keep {
			continue
		}
		if err := s.cache.DeleteByPattern(ctx, keyPrefix+parts[1]+":*"); err != nil {
			return err
		}
	}
	return nil
}
