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
	"testing"
	"time"

	"github.com/go-arcade/activation/internal/config"
	"github.com/go-arcade/activation/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc  *Service
	repo *MemoryRepo
	now  time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo: NewMemoryRepo(),
		now:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(f.repo, config.InvitationConfig{TTL: time.Hour}, metrics.NewActivationMetrics())
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) create(t *testing.T) string {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), &CreateReq{
		OrgId:       "org-1",
		CompanyName: "Acme",
		Email:       "jane@acme.io",
		InvitedBy:   "admin",
	})
	require.NoError(t, err)
	require.Len(t, resp.Token, 32)
	require.Len(t, resp.InvitationId, 26)
	return resp.Token
}

func TestService_Create(t *testing.T) {
	f := newFixture(t)
	token := f.create(t)

	inv, err := f.repo.GetByToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, inv.Status)
	assert.Equal(t, defaultRole, inv.Role)
	assert.Equal(t, f.now.Add(time.Hour), inv.ExpiresAt)
}

func TestService_CreateInvalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, &CreateReq{OrgId: "org-1", CompanyName: "Acme"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = f.svc.Create(ctx, &CreateReq{OrgId: "org-1", CompanyName: "Acme", Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestService_StatusLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token := f.create(t)

	rec, err := f.svc.GetStatus(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, &Record{Valid: true, Status: StatusPending, Email: "jane@acme.io", CompanyName: "Acme"}, rec)

	require.NoError(t, f.svc.Accept(ctx, token))
	rec, err = f.svc.GetStatus(ctx, token)
	require.NoError(t, err)
	assert.True(t, rec.Valid)
	assert.Equal(t, StatusAccepted, rec.Status)
	assert.False(t, rec.IsPassword)

	require.NoError(t, f.svc.SetPassword(ctx, token, "Str0ng!pw"))
	rec, err = f.svc.GetStatus(ctx, token)
	require.NoError(t, err)
	assert.False(t, rec.Valid)
	assert.True(t, rec.IsPassword)

	ok, err := f.svc.VerifyPassword(ctx, token, "Str0ng!pw")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestService_StatusIsMonotonic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	accepted := f.create(t)
	require.NoError(t, f.svc.Accept(ctx, accepted))
	assert.ErrorIs(t, f.svc.Accept(ctx, accepted), ErrAlreadyAccepted)
	assert.ErrorIs(t, f.svc.Reject(ctx, accepted), ErrAlreadyAccepted)
	assert.ErrorIs(t, f.svc.Revoke(ctx, accepted), ErrAlreadyAccepted)

	rejected := f.create(t)
	require.NoError(t, f.svc.Reject(ctx, rejected))
	assert.ErrorIs(t, f.svc.Accept(ctx, rejected), ErrAlreadyRevoked)

	rec, err := f.svc.GetStatus(ctx, rejected)
	require.NoError(t, err)
	assert.False(t, rec.Valid)
	assert.Equal(t, StatusRevoked, rec.Status)
}

func TestService_Expired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token := f.create(t)

	f.now = f.now.Add(2 * time.Hour)
	rec, err := f.svc.GetStatus(ctx, token)
	require.NoError(t, err)
	assert.False(t, rec.Valid)
	assert.Equal(t, StatusPending, rec.Status)

	assert.ErrorIs(t, f.svc.Accept(ctx, token), ErrInvitationExpired)
	assert.ErrorIs(t, f.svc.Reject(ctx, token), ErrInvitationExpired)
	// admin revoke ignores expiry
	assert.NoError(t, f.svc.Revoke(ctx, token))
}

func TestService_SetPasswordErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token := f.create(t)

	assert.ErrorIs(t, f.svc.SetPassword(ctx, token, "weak"), ErrWeakPassword)
	assert.ErrorIs(t, f.svc.SetPassword(ctx, token, "Str0ng!pw"), ErrNotAccepted)

	require.NoError(t, f.svc.Accept(ctx, token))
	require.NoError(t, f.svc.SetPassword(ctx, token, "Str0ng!pw"))
	assert.ErrorIs(t, f.svc.SetPassword(ctx, token, "An0ther!pw"), ErrPasswordAlreadySet)
}

func TestService_UnknownToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetStatus(ctx, "missing")
	assert.ErrorIs(t, err, ErrInvitationNotFound)
	assert.ErrorIs(t, f.svc.Accept(ctx, "missing"), ErrInvitationNotFound)
	assert.ErrorIs(t, f.svc.Accept(ctx, ""), ErrTokenEmpty)
}

func TestRecord_Validate(t *testing.T) {
	assert.NoError(t, (&Record{Status: StatusPending, Email: "a@b.c", CompanyName: "Acme"}).Validate())
	assert.ErrorIs(t, (&Record{Status: "archived", Email: "a@b.c", CompanyName: "Acme"}).Validate(), ErrMalformedRecord)
	assert.ErrorIs(t, (&Record{Status: StatusPending}).Validate(), ErrMalformedRecord)

	var nilRecord *Record
	assert.ErrorIs(t, nilRecord.Validate(), ErrMalformedRecord)
}

func TestErrorCodes_RoundTrip(t *testing.T) {
	for _, ec := range errorCodes {
		assert.Equal(t, ec.resp, ResponseOf(ec.err))
		assert.Equal(t, ec.err, ErrorOf(ec.resp.Code))
	}
	assert.Nil(t, ResponseOf(assert.AnError))
	assert.Nil(t, ErrorOf(200))
}
