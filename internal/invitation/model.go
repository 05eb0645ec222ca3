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
	"fmt"
	"time"
)

// Status 邀请生命周期状态，只会 pending -> accepted 或 pending -> revoked
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRevoked  Status = "revoked"
)

// Known reports whether s is one of the lifecycle states
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRevoked:
		return true
	}
	return false
}

type BaseModel struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// Invitation 组织邀请表
type Invitation struct {
	BaseModel
	InvitationId string     `gorm:"column:invitation_id;size:26;uniqueIndex" json:"invitationId"` // 邀请唯一标识
	OrgId        string     `gorm:"column:org_id;size:64;index" json:"orgId"`                     // 组织ID
	CompanyName  string     `gorm:"column:company_name;size:255" json:"companyName"`              // 公司名称
	Email        string     `gorm:"column:email;size:255" json:"email"`                           // 被邀请人邮箱
	Role         string     `gorm:"column:role;size:64" json:"role"`                              // 角色
	Token        string     `gorm:"column:token;size:32;uniqueIndex" json:"-"`                    // 邀请令牌
	InvitedBy    string     `gorm:"column:invited_by;size:64" json:"invitedBy"`                   // 邀请人用户ID
	Status       Status     `gorm:"column:status;size:16;index" json:"status"`                    // pending | accepted | revoked
	PasswordHash string     `gorm:"column:password_hash;size:255" json:"-"`                       // bcrypt
	ExpiresAt    time.Time  `gorm:"column:expires_at" json:"expiresAt"`                           // 过期时间
	AcceptedAt   *time.Time `gorm:"column:accepted_at" json:"acceptedAt,omitempty"`
	RevokedAt    *time.Time `gorm:"column:revoked_at" json:"revokedAt,omitempty"`
}

func (Invitation) TableName() string {
	return "t_organization_invitation"
}

// IsPassword reports whether the invitee has already set a password
func (i *Invitation) IsPassword() bool {
	return i.PasswordHash != ""
}

// Valid reports whether the token can still move the flow forward at now
func (i *Invitation) Valid(now time.Time) bool {
	switch i.Status {
	case StatusPending:
		return now.Before(i.ExpiresAt)
	case StatusAccepted:
		return !i.IsPassword()
	default:
		return false
	}
}

// Record builds the status snapshot served to the activation console
func (i *Invitation) Record(now time.Time) *Record {
	return &Record{
		Valid:       i.Valid(now),
		Status:      i.Status,
		IsPassword:  i.IsPassword(),
		Email:       i.Email,
		CompanyName: i.CompanyName,
	}
}

// Record is the read-only invitation status consumed by the activation flow
type Record struct {
	Valid       bool   `json:"valid"`
	Status      Status `json:"status"`
	IsPassword  bool   `json:"is_password"`
	Email       string `json:"email"`
	CompanyName string `json:"company_name"`
}

// Validate rejects records that cannot be resolved
func (r *Record) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: empty record", ErrMalformedRecord)
	}
	if !r.Status.Known() {
		return fmt.Errorf("%w: unknown status %q", ErrMalformedRecord, r.Status)
	}
	if r.Email == "" || r.CompanyName == "" {
		return fmt.Errorf("%w: email and company_name are required", ErrMalformedRecord)
	}
	return nil
}

// CreateReq 创建邀请请求
type CreateReq struct {
	OrgId       string `json:"orgId"`
	CompanyName string `json:"companyName"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	InvitedBy   string `json:"invitedBy"`
}

// CreateResp 创建邀请响应
type CreateResp struct {
	InvitationId string    `json:"invitationId"`
	Token        string    `json:"token"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// PasswordReq 设置密码请求
type PasswordReq struct {
	Password string `json:"password"`
}

// VerifyResp 密码校验结果
type VerifyResp struct {
	Verified bool `json:"verified"`
}
