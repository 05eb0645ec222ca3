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

package invitation

import (
	"errors"

	"github.com/go-arcade/activation/pkg/http"
)

var (
	ErrTokenEmpty         = errors.New("invitation token is empty")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationExpired  = errors.New("invitation expired")
	ErrAlreadyAccepted    = errors.New("invitation already accepted")
	ErrAlreadyRevoked     = errors.New("invitation already revoked")
	ErrNotAccepted        = errors.New("invitation not accepted")
	ErrPasswordAlreadySet = errors.New("password already set")
	ErrWeakPassword       = errors.New("password does not satisfy the policy")
	ErrInvalidRequest     = errors.New("invalid invitation request")
	ErrMalformedRecord    = errors.New("malformed invitation record")
)

var errorCodes = []struct {
	err  error
	resp *http.Response
}{
	{ErrTokenEmpty, http.InvitationTokenEmpty},
	{ErrInvitationNotFound, http.InvitationNotFound},
	{ErrInvitationExpired, http.InvitationExpired},
	{ErrAlreadyAccepted, http.InvitationAlreadyAccepted},
	{ErrAlreadyRevoked, http.InvitationRevoked},
	{ErrNotAccepted, http.InvitationNotAccepted},
	{ErrPasswordAlreadySet, http.PasswordAlreadySet},
	{ErrWeakPassword, http.WeakPassword},
	{ErrInvalidRequest, http.InvalidInvitationRequest},
}

// ResponseOf maps an invitation error to its response code, nil when unknown
func ResponseOf(err error) *http.Response {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.resp
		}
	}
	return nil
}

// ErrorOf maps a response code back to its sentinel error, nil when unknown
func ErrorOf(code int) error {
	for _, ec := range errorCodes {
		if ec.resp.Code == code {
			return ec.err
		}
	}
	return nil
}
