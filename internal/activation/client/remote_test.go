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
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-arcade/activation/internal/invitation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func newServer(t *testing.T, handler http.HandlerFunc) *RemoteClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRemoteClient(srv.URL+"/api/v1", 2*time.Second, noop.NewTracerProvider())
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}

func TestRemoteClient_Status(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/invitations/tok123/status", r.URL.Path)
		writeJSON(w, `{"code":200,"msg":"Request Success","detail":{"valid":true,"status":"pending","is_password":false,"email":"jane@acme.io","company_name":"Acme"}}`)
	})

	rec, err := c.Status(context.Background(), "tok123")
	require.NoError(t, err)
	assert.Equal(t, &invitation.Record{
		Valid:       true,
		Status:      invitation.StatusPending,
		Email:       "jane@acme.io",
		CompanyName: "Acme",
	}, rec)
}

func TestRemoteClient_ErrorCodes(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/invitations/tok/accept":
			writeJSON(w, `{"errCode":4604,"errMsg":"Invitation has already been accepted","path":"/api/v1/invitations/tok/accept"}`)
		case "/api/v1/invitations/tok/reject":
			writeJSON(w, `{"errCode":4603,"errMsg":"Invitation has been revoked"}`)
		case "/api/v1/invitations/tok/password":
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"password":"Str0ng!pw"}`, string(body))
			writeJSON(w, `{"errCode":9999,"errMsg":"boom"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	assert.ErrorIs(t, c.Accept(ctx, "tok"), invitation.ErrAlreadyAccepted)
	assert.ErrorIs(t, c.Reject(ctx, "tok"), invitation.ErrAlreadyRevoked)
	assert.ErrorIs(t, c.SetupPassword(ctx, "tok", "Str0ng!pw"), ErrUpstream)
}

func TestRemoteClient_Success(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		writeJSON(w, `{"code":200,"msg":"Request Success"}`)
	})
	assert.NoError(t, c.Accept(context.Background(), "tok"))
}

func TestRemoteClient_HTTPFailure(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.Status(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestRemoteClient_Timeout(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Status(ctx, "tok")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestRemoteClient_EmptyToken(t *testing.T) {
	c := NewRemoteClient("http://127.0.0.1:0", time.Second, noop.NewTracerProvider())
	_, err := c.Status(context.Background(), "")
	assert.ErrorIs(t, err, invitation.ErrTokenEmpty)
}

func TestRemoteClient_PropagatesTrace(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	var traceparent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceparent = r.Header.Get("traceparent")
		writeJSON(w, `{"errCode":4604,"errMsg":"Invitation has already been accepted"}`)
	}))
	defer srv.Close()
	c := NewRemoteClient(srv.URL+"/api/v1", time.Second, tp)

	ctx, parent := tp.Tracer("test").Start(context.Background(), "accept")
	err := c.Accept(ctx, "tok")
	parent.End()
	require.ErrorIs(t, err, invitation.ErrAlreadyAccepted)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	client := spans[0]
	assert.Equal(t, "POST /invitations/{token}/accept", client.Name())
	assert.Equal(t, oteltrace.SpanKindClient, client.SpanKind())
	assert.Equal(t, parent.SpanContext().SpanID(), client.Parent().SpanID())

	sc := client.SpanContext()
	assert.Equal(t, "00-"+sc.TraceID().String()+"-"+sc.SpanID().String()+"-01", traceparent)
}
