// Package conditionscache implements the read-through cache for normalized
// weather conditions.
package conditionscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/mstolarz/astro-advisor/internal/domain/conditions"
)

// ValkeyCache stores conditions in a Valkey-compatible database so repeated
// report runs across process restarts still hit the cache.
type ValkeyCache struct {
	client valkey.Client
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client) *ValkeyCache {
	return &ValkeyCache{client: client}
}

func (c *ValkeyCache) Get(ctx context.Context, key string) (conditions.Conditions, bool, error) {
	cmd := c.client.B().Get().Key(key).Build()
	payload, err := c.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return conditions.Conditions{}, false, nil
		}
		return conditions.Conditions{}, false, err
	}
	var cond conditions.Conditions
	if err := json.Unmarshal([]byte(payload), &cond); err != nil {
		return conditions.Conditions{}, false, err
	}
	return cond, true, nil
}

func (c *ValkeyCache) Set(ctx context.Context, key string, cond conditions.Conditions, ttl time.Duration) error {
	payload, err := json.Marshal(cond)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(key).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

var _ conditions.Cache = (*ValkeyCache)(nil)
