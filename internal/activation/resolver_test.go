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
	"fmt"
	"testing"

	"github.com/go-arcade/activation/internal/invitation"
	"github.com/stretchr/testify/assert"
)

func TestResolve_DecisionTable(t *testing.T) {
	tests := []struct {
		valid      bool
		status     invitation.Status
		isPassword bool
		want       UIState
		ok         bool
	}{
		{true, invitation.StatusPending, false, StatePending, true},
		{true, invitation.StatusPending, true, "", false},
		{true, invitation.StatusAccepted, false, StateResumeSetup, true},
		{true, invitation.StatusAccepted, true, StateAlreadyActivated, true},
		{true, invitation.StatusRevoked, false, "", false},
		{true, invitation.StatusRevoked, true, "", false},
		{false, invitation.StatusRevoked, false, StateRejected, true},
		{false, invitation.StatusRevoked, true, StateRejected, true},
		{false, invitation.StatusAccepted, true, StateAlreadyActivated, true},
		{false, invitation.StatusAccepted, false, "", false},
		{false, invitation.StatusPending, false, StateExpired, true},
		{false, invitation.StatusPending, true, StateExpired, true},
		{true, "archived", false, "", false},
		{false, "", false, "", false},
	}

	for _, tt := range tests {
		name := fmt.Sprintf("valid=%t/status=%s/is_password=%t", tt.valid, tt.status, tt.isPassword)
		t.Run(name, func(t *testing.T) {
			record := invitation.Record{Valid: tt.valid, Status: tt.status, IsPassword: tt.isPassword}
			got, ok := Resolve(record)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)

			// idempotent
			again, okAgain := Resolve(record)
			assert.Equal(t, got, again)
			assert.Equal(t, ok, okAgain)
		})
	}
}

func TestResolve_Scenarios(t *testing.T) {
	state, ok := Resolve(invitation.Record{Valid: true, Status: invitation.StatusPending})
	assert.True(t, ok)
	assert.Equal(t, StatePending, state)
	assert.Equal(t, "activation-details", Render(state).Name)

	state, _ = Resolve(invitation.Record{Valid: false, Status: invitation.StatusRevoked})
	assert.Equal(t, StateRejected, state)

	state, _ = Resolve(invitation.Record{Valid: false, Status: invitation.StatusAccepted, IsPassword: true})
	assert.Equal(t, StateAlreadyActivated, state)

	state, _ = Resolve(invitation.Record{Valid: false, Status: invitation.StatusPending})
	assert.Equal(t, StateExpired, state)
}
