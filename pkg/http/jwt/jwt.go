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

package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var issuer = "arcade-activation"

// SessionClaims carries the browser session id of the activation console.
type SessionClaims struct {
	SessionId string `json:"sid"`
	jwt.RegisteredClaims
}

// GenSessionToken 生成会话令牌
func GenSessionToken(sessionId string, secretKey []byte, ttl time.Duration) (string, error) {
	if len(secretKey) == 0 {
		return "", errors.New("session secret key is empty")
	}
	now := time.Now()
	claims := &SessionClaims{
		SessionId: sessionId,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// ParseSessionToken 校验会话令牌
func ParseSessionToken(token string, secretKey []byte) (*SessionClaims, error) {
	claims := new(SessionClaims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, jwt.ErrTokenExpired
		}
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	if !parsed.Valid || claims.SessionId == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
