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

package http

import (
	"time"
)

/**
 * @file: http.go
 * @description: http server configuration
 */

type Http struct {
	Host            string
	Port            int
	ContextPath     string
	BodyLimit       int
	AccessLog       bool
	ReadTimeout     int
	WriteTimeout    int
	IdleTimeout     int
	ShutdownTimeout int
	TLS             TLS
	Session         Session
}

type TLS struct {
	CertFile string
	KeyFile  string
}

// Session 会话 cookie 配置
type Session struct {
	CookieName string
	SecretKey  string
	Secure     bool
	TTL        time.Duration
}

// SetDefaults fills zero values.
func (h *Http) SetDefaults() {
	if h.Host == "" {
		h.Host = "0.0.0.0"
	}
	if h.Port == 0 {
		h.Port = 8080
	}
	if h.ContextPath == "" {
		h.ContextPath = "/api/v1"
	}
	if h.BodyLimit <= 0 {
		h.BodyLimit = 1 * 1024 * 1024
	}
	if h.ReadTimeout <= 0 {
		h.ReadTimeout = 30
	}
	if h.WriteTimeout <= 0 {
		h.WriteTimeout = 30
	}
	if h.IdleTimeout <= 0 {
		h.IdleTimeout = 60
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 30
	}
	if h.Session.CookieName == "" {
		h.Session.CookieName = "activation_session"
	}
	if h.Session.TTL <= 0 {
		h.Session.TTL = 12 * time.Hour
	}
}

func (h *Http) ReadTimeoutDuration() time.Duration {
	return time.Duration(h.ReadTimeout) * time.Second
}

func (h *Http) WriteTimeoutDuration() time.Duration {
	return time.Duration(h.WriteTimeout) * time.Second
}

func (h *Http) IdleTimeoutDuration() time.Duration {
	return time.Duration(h.IdleTimeout) * time.Second
}

func (h *Http) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(h.ShutdownTimeout) * time.Second
}
