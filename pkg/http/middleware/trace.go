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

package middleware

import (
	"github.com/go-arcade/activation/pkg/trace"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	TraceIdKey = "trace_id"

	tracerName = "github.com/go-arcade/activation/pkg/http/middleware"
)

// headerCarrier adapts the fasthttp request headers to a TextMapCarrier
type headerCarrier struct {
	c *fiber.Ctx
}

func (h headerCarrier) Get(key string) string {
	return h.c.Get(key)
}

func (h headerCarrier) Set(key, value string) {
	h.c.Request().Header.Set(key, value)
}

func (h headerCarrier) Keys() []string {
	keys := make([]string, 0)
	h.c.Request().Header.VisitAll(func(k, _ []byte) {
		keys = append(keys, string(k))
	})
	return keys
}

// TraceMiddleware 为每个请求创建 server span，并继承上游的 traceparent
func TraceMiddleware(tp oteltrace.TracerProvider) fiber.Handler {
	tracer := tp.Tracer(tracerName)
	return func(c *fiber.Ctx) error {
		ctx := trace.Propagator.Extract(c.UserContext(), headerCarrier{c: c})
		ctx, span := tracer.Start(ctx, "http.server.request",
			oteltrace.WithSpanKind(oteltrace.SpanKindServer),
			oteltrace.WithAttributes(attribute.String("http.method", c.Method())),
		)
		defer span.End()

		c.SetUserContext(ctx)
		if sc := span.SpanContext(); sc.HasTraceID() {
			c.Locals(TraceIdKey, sc.TraceID().String())
		}

		err := c.Next()

		// 使用路由模板命名，路径中的 token 不进入 span
		route := c.Route().Path
		span.SetName(c.Method() + " " + route)
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", c.Response().StatusCode()),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return err
	}
}
