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
	"github.com/go-arcade/activation/internal/activation"
	"github.com/go-arcade/activation/internal/config"
	"github.com/go-arcade/activation/internal/invitation"
	"github.com/go-arcade/activation/pkg/log"
	"github.com/google/wire"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// ProviderSet 提供邀请服务客户端
var ProviderSet = wire.NewSet(ProvideInvitationClient)

// ProvideInvitationClient 配置了 upstream 时走 REST，否则进程内调用
func ProvideInvitationClient(conf config.ActivationConfig, svc *invitation.Service, tp oteltrace.TracerProvider, logger *log.Logger) activation.InvitationClient {
	if conf.Upstream != "" {
		logger.Log.Infow("activation uses remote invitation service", "upstream", conf.Upstream)
		return NewRemoteClient(conf.Upstream, conf.FetchTimeout, tp)
	}
	return NewLocalClient(svc)
}
