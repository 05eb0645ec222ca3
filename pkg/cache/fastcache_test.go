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
	"errors"
	"testing"
	"time"

	"github.com/go-arcade/activation/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFastCache() (*FastCache, *time.Time) {
	fc := NewFastCache(FastCacheConfig{MaxBytes: 1024 * 1024})
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	fc.now = func() time.Time { return now }
	return fc, &now
}

func TestFastCache_Set_Get(t *testing.T) {
	fc, _ := newTestFastCache()
	defer fc.Clear()

	ctx := context.Background()
	require.Equal(t, "OK", fc.Set(ctx, "test_key", "test_value", time.Hour).Val())

	val, err := fc.Get(ctx, "test_key").Result()
	require.NoError(t, err)
	assert.Equal(t, "test_value", val)
}

func TestFastCache_MissIsRedisNil(t *testing.T) {
	fc, _ := newTestFastCache()

	_, err := fc.Get(context.Background(), "absent").Result()
	assert.True(t, errors.Is(err, ErrCacheMiss))
}

func TestFastCache_Expiration(t *testing.T) {
	fc, now := newTestFastCache()
	ctx := context.Background()

	fc.Set(ctx, "expire_key", "expire_value", 100*time.Millisecond)
	assert.Equal(t, "expire_value", fc.Get(ctx, "expire_key").Val())

	*now = now.Add(150 * time.Millisecond)

	_, err := fc.Get(ctx, "expire_key").Result()
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestFastCache_Del(t *testing.T) {
	fc, _ := newTestFastCache()
	ctx := context.Background()

	fc.Set(ctx, "del_key1", "value1", time.Hour)
	fc.Set(ctx, "del_key2", "value2", time.Hour)

	assert.Equal(t, int64(2), fc.Del(ctx, "del_key1", "del_key2", "missing").Val())
	_, err := fc.Get(ctx, "del_key1").Result()
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestFastCache_Expire(t *testing.T) {
	fc, now := newTestFastCache()
	ctx := context.Background()

	assert.False(t, fc.Expire(ctx, "missing", time.Minute).Val())

	fc.Set(ctx, "k", "v", time.Minute)
	assert.True(t, fc.Expire(ctx, "k", time.Hour).Val())

	*now = now.Add(30 * time.Minute)
	assert.Equal(t, "v", fc.Get(ctx, "k").Val())
}

func TestFastCache_StructValue(t *testing.T) {
	fc, _ := newTestFastCache()
	ctx := context.Background()

	type payload struct {
		State string `json:"state"`
	}
	require.NoError(t, fc.Set(ctx, "struct", payload{State: "pending"}, 0).Err())
	assert.JSONEq(t, `{"state":"pending"}`, fc.Get(ctx, "struct").Val())
}

func TestProvideICache_UnknownBackend(t *testing.T) {
	_, _, err := ProvideICache(Conf{Backend: "memcached"}, &log.Logger{Log: log.GetLogger()})
	assert.Error(t, err)
}
