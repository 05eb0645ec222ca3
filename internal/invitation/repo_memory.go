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

package invitation

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo keeps invitations in process memory. It backs local runs
// without MySQL and handler tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextId uint64
	byTok  map[string]*Invitation
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byTok: make(map[string]*Invitation)}
}

func (m *MemoryRepo) Create(_ context.Context, inv *Invitation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byTok[inv.Token]; ok {
		return ErrInvalidRequest
	}
	m.nextId++
	now := time.Now()
	inv.ID = m.nextId
	inv.CreatedAt, inv.UpdatedAt = now, now
	cp := *inv
	m.byTok[inv.Token] = &cp
	return nil
}

func (m *MemoryRepo) GetByToken(_ context.Context, token string) (*Invitation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inv, ok := m.byTok[token]
	if !ok {
		return nil, ErrInvitationNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *MemoryRepo) GetByTokenFromPrimary(ctx context.Context, token string) (*Invitation, error) {
	return m.GetByToken(ctx, token)
}

func (m *MemoryRepo) TransitionStatus(_ context.Context, token string, from, to Status, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.byTok[token]
	if !ok || inv.Status != from {
		return false, nil
	}
	inv.Status = to
	inv.UpdatedAt = at
	switch to {
	case StatusAccepted:
		inv.AcceptedAt = &at
	case StatusRevoked:
		inv.RevokedAt = &at
	}
	return true, nil
}

func (m *MemoryRepo) SetPasswordHash(_ context.Context, token, hash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.byTok[token]
	if !ok || inv.Status != StatusAccepted || inv.PasswordHash != "" {
		return false, nil
	}
	inv.PasswordHash = hash
	return true, nil
}

func (m *MemoryRepo) AutoMigrate() error { return nil }
