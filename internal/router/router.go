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

package router

import (
	"context"
	"errors"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/activation/internal/activation"
	"github.com/go-arcade/activation/internal/activation/client"
	"github.com/go-arcade/activation/internal/config"
	"github.com/go-arcade/activation/internal/invitation"
	"github.com/go-arcade/activation/pkg/http"
	"github.com/go-arcade/activation/pkg/http/middleware"
	"github.com/go-arcade/activation/pkg/version"
	"github.com/gofiber/fiber/v2"
	oteltrace "go.opentelemetry.io/otel/trace"
)

type Router struct {
	Http       *http.Http
	Activation config.ActivationConfig
	Invitation *invitation.Service
	Registry   *activation.Registry
	Tracer     oteltrace.TracerProvider
}

func NewRouter(
	httpConf *http.Http,
	activationConf config.ActivationConfig,
	invitationService *invitation.Service,
	registry *activation.Registry,
	tp oteltrace.TracerProvider,
) *Router {
	return &Router{
		Http:       httpConf,
		Activation: activationConf,
		Invitation: invitationService,
		Registry:   registry,
		Tracer:     tp,
	}
}

func (rt *Router) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Arcade Activation",
		DisableStartupMessage: true,
		ReadTimeout:           rt.Http.ReadTimeoutDuration(),
		WriteTimeout:          rt.Http.WriteTimeoutDuration(),
		IdleTimeout:           rt.Http.IdleTimeoutDuration(),
		BodyLimit:             rt.Http.BodyLimit,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
	})

	// 中间件
	app.Use(
		middleware.ExceptionMiddleware,
		middleware.RequestMiddleware(),
		middleware.TraceMiddleware(rt.Tracer),
		middleware.AccessLogMiddleware(rt.Http),
		middleware.CorsMiddleware(strings.Join(rt.Activation.Cors, ",")),
		middleware.UnifiedResponseMiddleware(),
	)

	// 健康检查
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// 版本信息
	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	api := app.Group(rt.Http.ContextPath)
	{
		rt.invitationRouter(api)
		rt.activationRouter(api)
	}

	// 找不到路径时的处理 - 必须在所有路由注册之后
	app.Use(func(c *fiber.Ctx) error {
		return http.WithRepErr(c, http.NotFound.Code, "request path not found", c.Path())
	})

	return app
}

// withRepErr maps domain errors to response codes
func withRepErr(c *fiber.Ctx, err error) error {
	if rep := invitation.ResponseOf(err); rep != nil {
		return http.WithRepErrCode(c, rep)
	}
	switch {
	case errors.Is(err, activation.ErrActionInProgress):
		return http.WithRepErrCode(c, http.ActionInProgress)
	case errors.Is(err, activation.ErrActionNotAllowed):
		return http.WithRepErrCode(c, http.ActionNotAllowed)
	case errors.Is(err, client.ErrUpstream), errors.Is(err, context.DeadlineExceeded):
		return http.WithRepErrCode(c, http.UpstreamUnavailable)
	case errors.Is(err, activation.ErrStatusFetch):
		return http.WithRepErrCode(c, http.StatusFetchFailed)
	default:
		return http.WithRepErrCode(c, http.Failed)
	}
}
