// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// FastCacheConfig holds fastcache configuration
type FastCacheConfig struct {
	MaxBytes int // Maximum bytes for fastcache, default 16MB
}

// FastCache is a local cache implementation using VictoriaMetrics fastcache.
// Expired keys are dropped lazily on access.
type FastCache struct {
	cache *fastcache.Cache
	ttls  map[string]time.Time
	mu    sync.RWMutex
	now   func() time.Time
}

// NewFastCache creates a new FastCache instance
func NewFastCache(conf FastCacheConfig) *FastCache {
	maxBytes := conf.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 16 * 1024 * 1024
	}

	return &FastCache{
		cache: fastcache.New(maxBytes),
		ttls:  make(map[string]time.Time),
		now:   time.Now,
	}
}

// Get returns the value for the given key, or redis.Nil when absent or expired
func (fc *FastCache) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)

	fc.mu.Lock()
	defer fc.mu.Unlock()

	if fc.expiredLocked(key) {
		cmd.SetErr(redis.Nil)
		return cmd
	}

	value, ok := fc.cache.HasGet(nil, []byte(key))
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(string(value))
	return cmd
}

// Set sets the value for the given key with expiration
func (fc *FastCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key)

	var valueBytes []byte
	switch v := value.(type) {
	case string:
		valueBytes = []byte(v)
	case []byte:
		valueBytes = v
	default:
		data, err := sonic.Marshal(v)
		if err != nil {
			cmd.SetErr(err)
			return cmd
		}
		valueBytes = data
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.cache.Set([]byte(key), valueBytes)
	if expiration > 0 {
		fc.ttls[key] = fc.now().Add(expiration)
	} else {
		delete(fc.ttls, key)
	}

	cmd.SetVal("OK")
	return cmd
}

// Del deletes the given keys
func (fc *FastCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "del")

	fc.mu.Lock()
	defer fc.mu.Unlock()

	count := int64(0)
	for _, key := range keys {
		if fc.expiredLocked(key) {
			continue
		}
		if fc.cache.Has([]byte(key)) {
			fc.cache.Del([]byte(key))
			delete(fc.ttls, key)
			count++
		}
	}

	cmd.SetVal(count)
	return cmd
}

// Expire sets the expiration time for a key
func (fc *FastCache) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx, "expire", key)

	fc.mu.Lock()
	defer fc.mu.Unlock()

	if fc.expiredLocked(key) || !fc.cache.Has([]byte(key)) {
		cmd.SetVal(false)
		return cmd
	}

	if expiration > 0 {
		fc.ttls[key] = fc.now().Add(expiration)
	} else {
		fc.cache.Del([]byte(key))
		delete(fc.ttls, key)
	}

	cmd.SetVal(true)
	return cmd
}

// expiredLocked drops the key when its deadline has passed; callers hold fc.mu.
func (fc *FastCache) expiredLocked(key string) bool {
	exp, ok := fc.ttls[key]
	if !ok || fc.now().Before(exp) {
		return false
	}
	fc.cache.Del([]byte(key))
	delete(fc.ttls, key)
	return true
}

// Clear removes all items from the cache
func (fc *FastCache) Clear() {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.cache.Reset()
	fc.ttls = make(map[string]time.Time)
}

// Stats returns cache statistics
func (fc *FastCache) Stats() fastcache.Stats {
	var stats fastcache.Stats
	fc.cache.UpdateStats(&stats)
	return stats
}
