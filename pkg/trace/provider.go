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

package trace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-arcade/activation/pkg/log"
	"github.com/google/wire"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// ProviderSet 提供 TracerProvider
var ProviderSet = wire.NewSet(ProvideTracerProvider)

// Propagator W3C TraceContext + Baggage，服务端提取与客户端注入共用
var Propagator propagation.TextMapPropagator = propagation.NewCompositeTextMapPropagator(
	propagation.TraceContext{},
	propagation.Baggage{},
)

// Conf Trace 配置
type Conf struct {
	Enabled            bool              `mapstructure:"enabled"`
	Endpoint           string            `mapstructure:"endpoint"` // localhost:4317 或 localhost:4318
	Protocol           string            `mapstructure:"protocol"` // grpc | http
	ServiceName        string            `mapstructure:"serviceName"`
	ServiceVersion     string            `mapstructure:"serviceVersion"`
	Insecure           bool              `mapstructure:"insecure"`
	Headers            map[string]string `mapstructure:"headers"` // 仅 http 协议
	BatchTimeout       time.Duration     `mapstructure:"batchTimeout"`
	ExportTimeout      time.Duration     `mapstructure:"exportTimeout"`
	MaxExportBatchSize int               `mapstructure:"maxExportBatchSize"`
}

func (c *Conf) SetDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "arcade-activation"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "1.0.0"
	}
	if c.Protocol == "" {
		c.Protocol = "grpc"
	}
	if c.BatchTimeout <= 0 {
		c.BatchTimeout = 5 * time.Second
	}
	if c.ExportTimeout <= 0 {
		c.ExportTimeout = 30 * time.Second
	}
	if c.MaxExportBatchSize <= 0 {
		c.MaxExportBatchSize = 512
	}
	if c.Endpoint == "" {
		if c.Protocol == "grpc" {
			c.Endpoint = "localhost:4317"
		} else {
			c.Endpoint = "localhost:4318"
		}
	}
}

// ProvideTracerProvider 为 wire 提供 TracerProvider
func ProvideTracerProvider(conf Conf, logger *log.Logger) (oteltrace.TracerProvider, func(), error) {
	conf.SetDefaults()
	tp, cleanup, err := NewTracerProvider(context.Background(), conf)
	if err != nil {
		return nil, nil, err
	}
	if conf.Enabled {
		logger.Log.Infow("tracing enabled", "protocol", conf.Protocol, "endpoint", conf.Endpoint)
	}
	return tp, cleanup, nil
}

// NewTracerProvider 创建 TracerProvider 并注册为全局实例。
// 未启用时不导出，但 span 仍带有效的 trace id，便于日志关联
func NewTracerProvider(ctx context.Context, conf Conf, opts ...sdktrace.TracerProviderOption) (*sdktrace.TracerProvider, func(), error) {
	otel.SetTextMapPropagator(Propagator)

	opts = append([]sdktrace.TracerProviderOption{sdktrace.WithSampler(sdktrace.AlwaysSample())}, opts...)
	if !conf.Enabled {
		tp := sdktrace.NewTracerProvider(opts...)
		otel.SetTracerProvider(tp)
		return tp, func() { _ = tp.Shutdown(context.Background()) }, nil
	}

	conf.SetDefaults()
	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", conf.ServiceName),
		attribute.String("service.version", conf.ServiceVersion),
	))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := newExporter(ctx, conf)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	opts = append(opts,
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(conf.BatchTimeout),
			sdktrace.WithExportTimeout(conf.ExportTimeout),
			sdktrace.WithMaxExportBatchSize(conf.MaxExportBatchSize),
		),
		sdktrace.WithResource(res),
	)
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)

	cleanup := func() {
		shutdownTimeout := min(max(conf.ExportTimeout+5*time.Second, 10*time.Second), 30*time.Second)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				log.Warnw("tracer provider shutdown timed out", "timeout", shutdownTimeout)
				return
			}
			log.Errorw("failed to shutdown tracer provider", "error", err)
		}
	}
	return tp, cleanup, nil
}

func newExporter(ctx context.Context, conf Conf) (sdktrace.SpanExporter, error) {
	switch conf.Protocol {
	case "grpc":
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(conf.Endpoint),
			otlptracegrpc.WithTimeout(conf.ExportTimeout),
		}
		if conf.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		return otlptrace.New(ctx, otlptracegrpc.NewClient(opts...))
	case "http":
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(conf.Endpoint),
			otlptracehttp.WithTimeout(conf.ExportTimeout),
		}
		if conf.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if len(conf.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(conf.Headers))
		}
		return otlptrace.New(ctx, otlptracehttp.NewClient(opts...))
	default:
		return nil, fmt.Errorf("unsupported protocol: %s", conf.Protocol)
	}
}
