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

	"github.com/go-arcade/activation/internal/invitation"
)

// InvitationClient reaches the invitation service. Errors carry the
// invitation package sentinels so callers can match them with errors.Is.
type InvitationClient interface {
	Status(ctx context.Context, token string) (*invitation.Record, error)
	Accept(ctx context.Context, token string) error
	Reject(ctx context.Context, token string) error
	SetupPassword(ctx context.Context, token, password string) error
}
