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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_EveryState(t *testing.T) {
	names := make(map[string]UIState)
	for _, state := range AllStates {
		s := Render(state)
		assert.NotEmpty(t, s.Name, state)
		assert.NotEmpty(t, s.Title, state)
		assert.Equal(t, "screen."+s.Name+".title", s.TitleId)
		if prev, dup := names[s.Name]; dup {
			t.Errorf("screen %q used by %s and %s", s.Name, prev, state)
		}
		names[s.Name] = state
	}
}

func TestRender_Actions(t *testing.T) {
	assert.True(t, Render(StatePending).Allows(ActionAccept))
	assert.True(t, Render(StatePending).Allows(ActionDecline))
	assert.True(t, Render(StateSecuritySetup).Allows(ActionBack))
	assert.True(t, Render(StateSuccess).Allows(ActionFinish))
	assert.Empty(t, Render(StateExpired).Actions)
	assert.False(t, Render(StateRejected).Allows(ActionAccept))
}

func TestRender_UnknownState(t *testing.T) {
	assert.Equal(t, Render(StatePending), Render(UIState("bogus")))
}

func TestParseUIState(t *testing.T) {
	for _, state := range AllStates {
		got, ok := ParseUIState(string(state))
		assert.True(t, ok)
		assert.Equal(t, state, got)
	}
	_, ok := ParseUIState("bogus")
	assert.False(t, ok)
}

func TestNewStateMachine_Graph(t *testing.T) {
	sm := NewStateMachine(StatePending)

	assert.True(t, sm.CanTransition(StateSecuritySetup, StatePending))
	assert.True(t, sm.CanTransition(StateActivated, StatePending), "a status fetch may land from any state")
	assert.False(t, sm.CanTransition(StateExpired, StateSecuritySetup))
	assert.False(t, sm.CanTransition(StateRejected, StateSuccess))

	dot := sm.ToDot("activation")
	assert.Contains(t, dot, `"pending" -> "security-setup"`)
	assert.Equal(t, dot, NewStateMachine(StatePending).ToDot("activation"))
}
