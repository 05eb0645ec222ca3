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
	"time"

	"github.com/go-arcade/activation/pkg/http"
	"github.com/go-arcade/activation/pkg/http/jwt"
	"github.com/go-arcade/activation/pkg/id"
	"github.com/go-arcade/activation/pkg/log"
	"github.com/gofiber/fiber/v2"
)

const SessionIdKey = "session_id"

// SessionMiddleware resolves the browser session from a signed cookie and
// issues a fresh session when the cookie is missing, expired or forged.
func SessionMiddleware(conf http.Session) fiber.Handler {
	secret := []byte(conf.SecretKey)
	return func(c *fiber.Ctx) error {
		if raw := c.Cookies(conf.CookieName); raw != "" {
			claims, err := jwt.ParseSessionToken(raw, secret)
			if err == nil {
				c.Locals(SessionIdKey, claims.SessionId)
				return c.Next()
			}
			log.Debugw("discarding session cookie", "error", err)
		}

		sessionId := id.GetUUID()
		token, err := jwt.GenSessionToken(sessionId, secret, conf.TTL)
		if err != nil {
			log.Errorw("generate session token failed", "error", err)
			return http.WithRepErrCode(c, http.InternalError)
		}

		c.Cookie(&fiber.Cookie{
			Name:     conf.CookieName,
			Value:    token,
			Path:     "/",
			HTTPOnly: true,
			Secure:   conf.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
			Expires:  time.Now().Add(conf.TTL),
		})
		c.Locals(SessionIdKey, sessionId)
		return c.Next()
	}
}

// SessionId returns the session id stored by SessionMiddleware
func SessionId(c *fiber.Ctx) string {
	sid, _ := c.Locals(SessionIdKey).(string)
	return sid
}
