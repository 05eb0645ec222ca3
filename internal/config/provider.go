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

package config

import (
	"github.com/go-arcade/activation/pkg/cache"
	"github.com/go-arcade/activation/pkg/database"
	"github.com/go-arcade/activation/pkg/http"
	"github.com/go-arcade/activation/pkg/log"
	"github.com/go-arcade/activation/pkg/metrics"
	"github.com/go-arcade/activation/pkg/trace"
	"github.com/google/wire"
)

// ProviderSet 提供配置相关的依赖
var ProviderSet = wire.NewSet(
	ProvideConf,
	ProvideLogConfig,
	ProvideHttpConfig,
	ProvideDatabaseConfig,
	ProvideCacheConfig,
	ProvideMetricsConfig,
	ProvideTraceConfig,
	ProvideInvitationConfig,
	ProvideActivationConfig,
)

// ProvideConf 提供完整配置实例
func ProvideConf(configFile string) AppConfig {
	return NewConf(configFile)
}

// ProvideLogConfig 提供日志配置
func ProvideLogConfig(appConf AppConfig) *log.Conf {
	c := appConf.Log
	return &c
}

// ProvideHttpConfig 提供 HTTP 配置
func ProvideHttpConfig(appConf AppConfig) *http.Http {
	c := appConf.Http
	return &c
}

// ProvideDatabaseConfig 提供数据库配置
func ProvideDatabaseConfig(appConf AppConfig) database.Database {
	return appConf.Database
}

// ProvideCacheConfig 提供缓存配置
func ProvideCacheConfig(appConf AppConfig) cache.Conf {
	return appConf.Cache
}

// ProvideMetricsConfig 提供指标配置
func ProvideMetricsConfig(appConf AppConfig) metrics.MetricsConfig {
	return appConf.Metrics
}

// ProvideTraceConfig 提供链路追踪配置
func ProvideTraceConfig(appConf AppConfig) trace.Conf {
	return appConf.Trace
}

// ProvideInvitationConfig 提供邀请配置
func ProvideInvitationConfig(appConf AppConfig) InvitationConfig {
	return appConf.Invitation
}

// ProvideActivationConfig 提供激活流程配置
func ProvideActivationConfig(appConf AppConfig) ActivationConfig {
	return appConf.Activation
}
