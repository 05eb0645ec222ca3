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

//go:build wireinject
// +build wireinject

package main

import (
	"github.com/go-arcade/activation/internal/activation"
	"github.com/go-arcade/activation/internal/activation/client"
	"github.com/go-arcade/activation/internal/bootstrap"
	"github.com/go-arcade/activation/internal/config"
	"github.com/go-arcade/activation/internal/invitation"
	"github.com/go-arcade/activation/internal/router"
	"github.com/go-arcade/activation/pkg/cache"
	"github.com/go-arcade/activation/pkg/log"
	"github.com/go-arcade/activation/pkg/metrics"
	"github.com/go-arcade/activation/pkg/trace"
	"github.com/google/wire"
)

func initApp(configPath string) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		// 配置层
		config.ProviderSet,
		// 基础设施
		log.ProviderSet,
		cache.ProviderSet,
		metrics.ProviderSet,
		trace.ProviderSet,
		// 业务层
		invitation.ProviderSet,
		client.ProviderSet,
		activation.ProviderSet,
		// 路由层
		router.ProviderSet,
		// 应用层
		bootstrap.NewApp,
	))
}
