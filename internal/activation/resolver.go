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

package activation

import (
	"github.com/go-arcade/activation/internal/invitation"
)

type rule struct {
	valid      bool
	status     invitation.Status
	isPassword *bool // nil matches both
	state      UIState
}

func is(b bool) *bool { return &b }

// rules are evaluated in order, the first match wins
var rules = []rule{
	{valid: true, status: invitation.StatusPending, isPassword: is(false), state: StatePending},
	{valid: true, status: invitation.StatusAccepted, isPassword: is(false), state: StateResumeSetup},
	{valid: false, status: invitation.StatusRevoked, state: StateRejected},
	{valid: false, status: invitation.StatusAccepted, isPassword: is(true), state: StateAlreadyActivated},
	{valid: false, status: invitation.StatusPending, state: StateExpired},
	// a fully activated user revisiting a link still reported as valid
	{valid: true, status: invitation.StatusAccepted, isPassword: is(true), state: StateAlreadyActivated},
}

// Resolve maps an invitation record to the UI state it should display.
// ok is false when no rule matches and the current state must be kept.
func Resolve(record invitation.Record) (state UIState, ok bool) {
	for _, r := range rules {
		if r.valid != record.Valid || r.status != record.Status {
			continue
		}
		if r.isPassword != nil && *r.isPassword != record.IsPassword {
			continue
		}
		return r.state, true
	}
	return "", false
}
