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

package activation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/activation/internal/invitation"
	"github.com/go-arcade/activation/pkg/cache"
)

const (
	checkedKeyPrefix  = "activation_checked_"
	snapshotKeyPrefix = "activation_snapshot_"
	sessionKeyPrefix  = "activation:session:"
)

// CheckedKey is the marker written after the first successful status fetch
func CheckedKey(token string) string {
	return checkedKeyPrefix + token
}

// SnapshotKey holds the cached state and record for token
func SnapshotKey(token string) string {
	return snapshotKeyPrefix + token
}

// Snapshot is the cached flow state restored when a controller is recreated
type Snapshot struct {
	State     UIState            `json:"state"`
	Record    *invitation.Record `json:"record,omitempty"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// SessionStore is the session scoped key value storage of the flow
type SessionStore interface {
	Get(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key string) error
	LoadSnapshot(ctx context.Context, token string) (*Snapshot, error)
	SaveSnapshot(ctx context.Context, token string, snap *Snapshot) error
}

// CacheSessionStore scopes keys to one browser session on top of ICache.
// Entries expire together with the session.
type CacheSessionStore struct {
	cache     cache.ICache
	sessionId string
	ttl       time.Duration
}

func NewCacheSessionStore(c cache.ICache, sessionId string, ttl time.Duration) *CacheSessionStore {
	return &CacheSessionStore{cache: c, sessionId: sessionId, ttl: ttl}
}

func (s *CacheSessionStore) key(key string) string {
	return sessionKeyPrefix + s.sessionId + ":" + key
}

// Get reports whether key is set
func (s *CacheSessionStore) Get(ctx context.Context, key string) (bool, error) {
	val, err := s.cache.Get(ctx, s.key(key)).Result()
	if errors.Is(err, cache.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return val == "1", nil
}

// Set marks key as true
func (s *CacheSessionStore) Set(ctx context.Context, key string) error {
	return s.cache.Set(ctx, s.key(key), "1", s.ttl).Err()
}

// LoadSnapshot returns nil, nil when no snapshot was saved
func (s *CacheSessionStore) LoadSnapshot(ctx context.Context, token string) (*Snapshot, error) {
	data, err := s.cache.Get(ctx, s.key(SnapshotKey(token))).Bytes()
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err = sonic.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if _, ok := ParseUIState(string(snap.State)); !ok {
		return nil, fmt.Errorf("decode snapshot: unknown state %q", snap.State)
	}
	return &snap, nil
}

func (s *CacheSessionStore) SaveSnapshot(ctx context.Context, token string, snap *Snapshot) error {
	data, err := sonic.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.cache.Set(ctx, s.key(SnapshotKey(token)), data, s.ttl).Err()
}
