package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache stores opaque values by key. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// NoopCache never stores anything; every read is a miss.
type NoopCache struct{}

func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (n *NoopCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (n *NoopCache) Delete(context.Context, string) error {
	return nil
}

// GetJSON decodes a cached value into dst. An entry that no longer decodes
// counts as a miss so callers refill it.
func GetJSON(ctx context.Context, c Cache, key string, dst interface{}) (bool, error) {
	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, nil
	}
	return true, nil
}

func SetJSON(ctx context.Context, c Cache, key string, v interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, raw, ttl)
}
