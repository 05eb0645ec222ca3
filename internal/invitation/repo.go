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
	"errors"
	"time"

	"github.com/go-arcade/activation/pkg/database"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

type IInvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	// GetByTokenFromPrimary bypasses read replicas; mutations decide on it.
	GetByTokenFromPrimary(ctx context.Context, token string) (*Invitation, error)
	// TransitionStatus moves token from -> to; false when the row was not in from.
	TransitionStatus(ctx context.Context, token string, from, to Status, at time.Time) (bool, error)
	// SetPasswordHash stores the hash once for an accepted invitation.
	SetPasswordHash(ctx context.Context, token, hash string) (bool, error)
	AutoMigrate() error
}

type InvitationRepo struct {
	database.IDatabase
}

func NewInvitationRepo(db database.IDatabase) IInvitationRepository {
	return &InvitationRepo{IDatabase: db}
}

// Create 创建邀请
func (r *InvitationRepo) Create(ctx context.Context, inv *Invitation) error {
	return r.Database().WithContext(ctx).Create(inv).Error
}

// GetByToken 根据令牌获取邀请
func (r *InvitationRepo) GetByToken(ctx context.Context, token string) (*Invitation, error) {
	return r.first(r.Database().WithContext(ctx), token)
}

// GetByTokenFromPrimary 从主库读取邀请
func (r *InvitationRepo) GetByTokenFromPrimary(ctx context.Context, token string) (*Invitation, error) {
	return r.first(r.Database().WithContext(ctx).Clauses(dbresolver.Write), token)
}

func (r *InvitationRepo) first(db *gorm.DB, token string) (*Invitation, error) {
	var inv Invitation
	err := db.Where("token = ?", token).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// TransitionStatus 条件更新状态，保证状态单调
func (r *InvitationRepo) TransitionStatus(ctx context.Context, token string, from, to Status, at time.Time) (bool, error) {
	updates := map[string]any{"status": to}
	switch to {
	case StatusAccepted:
		updates["accepted_at"] = at
	case StatusRevoked:
		updates["revoked_at"] = at
	}
	res := r.Database().WithContext(ctx).Model(&Invitation{}).
		Where("token = ? AND status = ?", token, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// SetPasswordHash 设置密码哈希，仅允许设置一次
func (r *InvitationRepo) SetPasswordHash(ctx context.Context, token, hash string) (bool, error) {
	res := r.Database().WithContext(ctx).Model(&Invitation{}).
		Where("token = ? AND status = ? AND password_hash = ?", token, StatusAccepted, "").
		Update("password_hash", hash)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// AutoMigrate 同步表结构
func (r *InvitationRepo) AutoMigrate() error {
	return r.Database().AutoMigrate(&Invitation{})
}
