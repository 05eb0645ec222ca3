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
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/go-arcade/activation/internal/config"
	"github.com/go-arcade/activation/pkg/id"
	"github.com/go-arcade/activation/pkg/log"
	"github.com/go-arcade/activation/pkg/metrics"
	"golang.org/x/crypto/bcrypt"
)

const defaultRole = "member"

type Service struct {
	repo    IInvitationRepository
	ttl     time.Duration
	metrics *metrics.ActivationMetrics
	now     func() time.Time
}

func NewService(repo IInvitationRepository, conf config.InvitationConfig, m *metrics.ActivationMetrics) *Service {
	ttl := conf.TTL
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &Service{repo: repo, ttl: ttl, metrics: m, now: time.Now}
}

// Create 创建邀请
func (s *Service) Create(ctx context.Context, req *CreateReq) (*CreateResp, error) {
	if err := validateCreateReq(req); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = defaultRole
	}

	inv := &Invitation{
		InvitationId: id.GetUlid(),
		OrgId:        req.OrgId,
		CompanyName:  req.CompanyName,
		Email:        strings.TrimSpace(req.Email),
		Role:         role,
		Token:        id.GetUUIDWithoutDashes(),
		InvitedBy:    req.InvitedBy,
		Status:       StatusPending,
		ExpiresAt:    s.now().Add(s.ttl),
	}
	err := s.repo.Create(ctx, inv)
	s.metrics.ObserveMutation("create", err)
	if err != nil {
		log.Errorw("failed to create invitation", "orgId", req.OrgId, "error", err)
		return nil, err
	}

	log.Infow("invitation created", "invitationId", inv.InvitationId, "orgId", inv.OrgId)
	return &CreateResp{InvitationId: inv.InvitationId, Token: inv.Token, ExpiresAt: inv.ExpiresAt}, nil
}

func validateCreateReq(req *CreateReq) error {
	if req == nil || req.OrgId == "" || req.CompanyName == "" || req.Email == "" {
		return ErrInvalidRequest
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// GetStatus 查询邀请状态
func (s *Service) GetStatus(ctx context.Context, token string) (*Record, error) {
	if token == "" {
		return nil, ErrTokenEmpty
	}
	inv, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return inv.Record(s.now()), nil
}

// Accept 接受邀请
func (s *Service) Accept(ctx context.Context, token string) error {
	err := s.transition(ctx, token, StatusAccepted, true)
	s.metrics.ObserveMutation("accept", err)
	return err
}

// Reject 被邀请人拒绝邀请
func (s *Service) Reject(ctx context.Context, token string) error {
	err := s.transition(ctx, token, StatusRevoked, true)
	s.metrics.ObserveMutation("reject", err)
	return err
}

// Revoke 管理员撤销邀请，过期邀请同样可以撤销
func (s *Service) Revoke(ctx context.Context, token string) error {
	err := s.transition(ctx, token, StatusRevoked, false)
	s.metrics.ObserveMutation("revoke", err)
	return err
}

func (s *Service) transition(ctx context.Context, token string, to Status, checkExpiry bool) error {
	if token == "" {
		return ErrTokenEmpty
	}
	inv, err := s.repo.GetByTokenFromPrimary(ctx, token)
	if err != nil {
		return err
	}
	now := s.now()
	if err = s.checkPending(inv, now, checkExpiry); err != nil {
		return err
	}

	ok, err := s.repo.TransitionStatus(ctx, token, StatusPending, to, now)
	if err != nil {
		log.Errorw("failed to update invitation status", "invitationId", inv.InvitationId, "to", to, "error", err)
		return err
	}
	if !ok {
		// 并发修改，按最新状态返回
		latest, err := s.repo.GetByTokenFromPrimary(ctx, token)
		if err != nil {
			return err
		}
		if err = s.checkPending(latest, now, false); err != nil {
			return err
		}
		return fmt.Errorf("invitation %s changed concurrently", inv.InvitationId)
	}

	log.Infow("invitation status changed", "invitationId", inv.InvitationId, "from", StatusPending, "to", to)
	return nil
}

func (s *Service) checkPending(inv *Invitation, now time.Time, checkExpiry bool) error {
	switch inv.Status {
	case StatusAccepted:
		return ErrAlreadyAccepted
	case StatusRevoked:
		return ErrAlreadyRevoked
	}
	if checkExpiry && !now.Before(inv.ExpiresAt) {
		return ErrInvitationExpired
	}
	return nil
}

// SetPassword 为已接受的邀请设置密码
func (s *Service) SetPassword(ctx context.Context, token, password string) error {
	err := s.setPassword(ctx, token, password)
	s.metrics.ObserveMutation("password", err)
	return err
}

func (s *Service) setPassword(ctx context.Context, token, password string) error {
	if token == "" {
		return ErrTokenEmpty
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}
	inv, err := s.repo.GetByTokenFromPrimary(ctx, token)
	if err != nil {
		return err
	}
	switch {
	case inv.Status == StatusPending:
		return ErrNotAccepted
	case inv.Status == StatusRevoked:
		return ErrAlreadyRevoked
	case inv.IsPassword():
		return ErrPasswordAlreadySet
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	ok, err := s.repo.SetPasswordHash(ctx, token, string(hash))
	if err != nil {
		log.Errorw("failed to set password", "invitationId", inv.InvitationId, "error", err)
		return err
	}
	if !ok {
		return ErrPasswordAlreadySet
	}

	log.Infow("invitation password set", "invitationId", inv.InvitationId)
	return nil
}

// VerifyPassword 校验邀请账户密码
func (s *Service) VerifyPassword(ctx context.Context, token, password string) (bool, error) {
	inv, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return false, err
	}
	if !inv.IsPassword() {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(inv.PasswordHash), []byte(password)) == nil, nil
}
