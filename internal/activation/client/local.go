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

package client

import (
	"context"

	"github.com/go-arcade/activation/internal/invitation"
)

// LocalClient calls the invitation service in process
type LocalClient struct {
	svc *invitation.Service
}

func NewLocalClient(svc *invitation.Service) *LocalClient {
	return &LocalClient{svc: svc}
}

func (l *LocalClient) Status(ctx context.Context, token string) (*invitation.Record, error) {
	return l.svc.GetStatus(ctx, token)
}

func (l *LocalClient) Accept(ctx context.Context, token string) error {
	return l.svc.Accept(ctx, token)
}

func (l *LocalClient) Reject(ctx context.Context, token string) error {
	return l.svc.Reject(ctx, token)
}

func (l *LocalClient) SetupPassword(ctx context.Context, token, password string) error {
	return l.svc.SetPassword(ctx, token, password)
}
