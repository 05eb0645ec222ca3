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
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secretKey = []byte("bf284d03-ba65-42d4-a9fe-0d2fbfe61060")

func TestSessionToken_RoundTrip(t *testing.T) {
	token, err := GenSessionToken("session-1", secretKey, time.Hour)
	require.NoError(t, err)

	claims, err := ParseSessionToken(token, secretKey)
	require.NoError(t, err)
	assert.Equal(t, "session-1", claims.SessionId)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestSessionToken_WrongKey(t *testing.T) {
	token, err := GenSessionToken("session-1", secretKey, time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, []byte("another-secret"))
	assert.Error(t, err)
}

func TestSessionToken_Expired(t *testing.T) {
	token, err := GenSessionToken("session-1", secretKey, -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, secretKey)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestSessionToken_EmptySecret(t *testing.T) {
	_, err := GenSessionToken("session-1", nil, time.Hour)
	assert.Error(t, err)
}
