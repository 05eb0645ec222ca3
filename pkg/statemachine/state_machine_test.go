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

package statemachine

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 定义测试用状态
type doorState string

const (
	doorClosed doorState = "CLOSED"
	doorOpen   doorState = "OPEN"
	doorLocked doorState = "LOCKED"
)

const (
	eventOpen   Event = "open"
	eventClose  Event = "close"
	eventLock   Event = "lock"
	eventUnlock Event = "unlock"
)

func newDoor() *StateMachine[doorState] {
	sm := NewWithState(doorClosed)
	sm.AddEventTransition(doorClosed, eventOpen, doorOpen).
		AddEventTransition(doorOpen, eventClose, doorClosed).
		AddEventTransition(doorClosed, eventLock, doorLocked).
		AddEventTransition(doorLocked, eventUnlock, doorClosed)
	return sm
}

func TestStateMachine_Basic(t *testing.T) {
	sm := newDoor()

	assert.Equal(t, doorClosed, sm.Current())
	assert.Equal(t, doorClosed, sm.Initial())

	require.NoError(t, sm.TransitionTo(doorOpen, ""))
	assert.Equal(t, doorOpen, sm.Current())

	err := sm.TransitionTo(doorLocked, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, doorOpen, sm.Current())
}

func TestStateMachine_TransitionRequiresCurrentFrom(t *testing.T) {
	sm := newDoor()

	err := sm.Transition(doorOpen, doorClosed, eventClose)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, doorClosed, sm.Current())
}

func TestStateMachine_TriggerEvent(t *testing.T) {
	sm := newDoor()

	assert.True(t, sm.CanTrigger(eventLock))
	require.NoError(t, sm.TriggerEvent(eventLock))
	assert.Equal(t, doorLocked, sm.Current())

	err := sm.TriggerEvent(eventOpen)
	assert.ErrorIs(t, err, ErrUnknownEvent)
	assert.Equal(t, doorLocked, sm.Current())
}

func TestStateMachine_Hooks(t *testing.T) {
	sm := newDoor()

	// 记录钩子执行顺序
	var executionOrder []string
	sm.OnExit(doorClosed, func(state doorState) error {
		executionOrder = append(executionOrder, "exit:closed")
		return nil
	})
	sm.OnTransition(func(from, to doorState, event Event) error {
		executionOrder = append(executionOrder, "transition:"+string(event))
		return nil
	})
	sm.OnEnter(doorOpen, func(state doorState) error {
		executionOrder = append(executionOrder, "enter:open")
		return nil
	})

	require.NoError(t, sm.TriggerEvent(eventOpen))
	assert.Equal(t, []string{"exit:closed", "transition:open", "enter:open"}, executionOrder)
}

func TestStateMachine_TransitionHookErrorKeepsState(t *testing.T) {
	sm := newDoor()
	hookErr := errors.New("hook error")
	sm.OnTransition(func(from, to doorState, event Event) error {
		return hookErr
	})

	err := sm.TriggerEvent(eventOpen)
	assert.ErrorIs(t, err, hookErr)
	assert.Equal(t, doorClosed, sm.Current())
}

func TestStateMachine_Validator(t *testing.T) {
	sm := newDoor()
	sm.AddValidator(func(from, to doorState, event Event) error {
		if to == doorLocked {
			return errors.New("locking disabled")
		}
		return nil
	})

	assert.Error(t, sm.TriggerEvent(eventLock))
	assert.NoError(t, sm.TriggerEvent(eventOpen))
}

func TestStateMachine_HistoryAndOnError(t *testing.T) {
	sm := newDoor().SetMaxHistorySize(2)

	var failures int
	sm.OnError(func(from, to doorState, event Event, err error) {
		failures++
	})

	require.NoError(t, sm.TriggerEvent(eventOpen))
	require.NoError(t, sm.TriggerEvent(eventClose))
	assert.Error(t, sm.Transition(doorOpen, doorClosed, eventClose))

	history := sm.History()
	require.Len(t, history, 2)
	assert.Equal(t, eventClose, history[0].Event)
	assert.NoError(t, history[0].Error)
	assert.Error(t, history[1].Error)
	assert.Equal(t, 1, failures)
}

func TestStateMachine_ToDot(t *testing.T) {
	dot := newDoor().ToDot("door")

	assert.True(t, strings.HasPrefix(dot, "digraph door {"))
	assert.Contains(t, dot, `"CLOSED" -> "OPEN" [label="open"];`)
	assert.Contains(t, dot, `start -> "CLOSED";`)
	assert.Equal(t, dot, newDoor().ToDot("door"), "output must be deterministic")
}
