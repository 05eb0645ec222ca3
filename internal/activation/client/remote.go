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
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/activation/internal/invitation"
	"github.com/go-arcade/activation/pkg/log"
	"github.com/go-arcade/activation/pkg/trace"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/go-arcade/activation/internal/activation/client"

// ErrUpstream is returned when the invitation service cannot be reached
// or answers outside the response envelope
var ErrUpstream = errors.New("invitation service unavailable")

// envelope covers both the success and the failure response shapes
type envelope[T any] struct {
	Code    int    `json:"code"`
	Msg     string `json:"msg"`
	Detail  T      `json:"detail"`
	ErrCode int    `json:"errCode"`
	ErrMsg  string `json:"errMsg"`
}

// RemoteClient talks to the invitation API over HTTP. Requests are never retried.
type RemoteClient struct {
	client *resty.Client
	tracer oteltrace.Tracer
}

// NewRemoteClient creates a client for baseURL, e.g. http://invitations:8080/api/v1.
// Every call runs in a client span whose context is injected as traceparent.
func NewRemoteClient(baseURL string, timeout time.Duration, tp oteltrace.TracerProvider) *RemoteClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			trace.Propagator.Inject(req.Context(), propagation.HeaderCarrier(req.Header))
			return nil
		})
	return &RemoteClient{client: c, tracer: tp.Tracer(tracerName)}
}

func (r *RemoteClient) Status(ctx context.Context, token string) (*invitation.Record, error) {
	var env envelope[*invitation.Record]
	if err := r.do(ctx, resty.MethodGet, "/invitations/{token}/status", token, nil, &env); err != nil {
		return nil, err
	}
	if env.Detail == nil {
		return nil, fmt.Errorf("%w: empty detail", invitation.ErrMalformedRecord)
	}
	return env.Detail, nil
}

func (r *RemoteClient) Accept(ctx context.Context, token string) error {
	var env envelope[any]
	return r.do(ctx, resty.MethodPost, "/invitations/{token}/accept", token, nil, &env)
}

func (r *RemoteClient) Reject(ctx context.Context, token string) error {
	var env envelope[any]
	return r.do(ctx, resty.MethodPost, "/invitations/{token}/reject", token, nil, &env)
}

func (r *RemoteClient) SetupPassword(ctx context.Context, token, password string) error {
	var env envelope[any]
	body := &invitation.PasswordReq{Password: password}
	return r.do(ctx, resty.MethodPost, "/invitations/{token}/password", token, body, &env)
}

func (r *RemoteClient) do(ctx context.Context, method, path, token string, body any, result errorEnvelope) (err error) {
	if token == "" {
		return invitation.ErrTokenEmpty
	}

	ctx, span := r.tracer.Start(ctx, method+" "+path,
		oteltrace.WithSpanKind(oteltrace.SpanKindClient),
		oteltrace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", path),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req := r.client.R().
		SetContext(ctx).
		SetPathParam("token", token).
		SetResult(result)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if resp != nil {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))
	}
	if err != nil {
		log.Errorw("invitation request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode())
	}
	return result.err()
}

type errorEnvelope interface {
	err() error
}

func (e *envelope[T]) err() error {
	if e.ErrCode == 0 {
		return nil
	}
	if sentinel := invitation.ErrorOf(e.ErrCode); sentinel != nil {
		return sentinel
	}
	return fmt.Errorf("%w: %d %s", ErrUpstream, e.ErrCode, e.ErrMsg)
}
