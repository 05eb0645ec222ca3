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
	"testing"
	"time"

	"github.com/go-arcade/activation/internal/config"
	"github.com/go-arcade/activation/internal/invitation"
	"github.com/go-arcade/activation/pkg/log"
	"github.com/go-arcade/activation/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestProvideInvitationClient(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := &log.Logger{Log: zap.New(core).Sugar()}
	svc := invitation.NewService(invitation.NewMemoryRepo(), config.InvitationConfig{TTL: time.Hour}, metrics.NewActivationMetrics())

	local := ProvideInvitationClient(config.ActivationConfig{}, svc, noop.NewTracerProvider(), logger)
	assert.IsType(t, &LocalClient{}, local)
	assert.Zero(t, logs.Len())

	remote := ProvideInvitationClient(config.ActivationConfig{Upstream: "http://invitations.local", FetchTimeout: time.Second}, svc, noop.NewTracerProvider(), logger)
	assert.IsType(t, &RemoteClient{}, remote)
	assert.Equal(t, 1, logs.FilterMessage("activation uses remote invitation service").Len())
}
