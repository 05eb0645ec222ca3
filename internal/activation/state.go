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
	"github.com/go-arcade/activation/pkg/statemachine"
)

// UIState is the step of the activation flow shown to the invitee
type UIState string

const (
	StatePending          UIState = "pending"
	StateActivating       UIState = "activating"
	StateSecuritySetup    UIState = "security-setup"
	StateResumeSetup      UIState = "resume-setup"
	StateSuccess          UIState = "success"
	StateRejected         UIState = "rejected"
	StateActivated        UIState = "activated"
	StateAlreadyActivated UIState = "already-activated"
	StateAlreadyRejected  UIState = "already-rejected"
	StateExpired          UIState = "expired"
)

// AllStates lists every UI state in display order
var AllStates = []UIState{
	StatePending,
	StateActivating,
	StateSecuritySetup,
	StateResumeSetup,
	StateSuccess,
	StateRejected,
	StateActivated,
	StateAlreadyActivated,
	StateAlreadyRejected,
	StateExpired,
}

// ParseUIState returns the state named s
func ParseUIState(s string) (UIState, bool) {
	for _, st := range AllStates {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

const (
	EventResolve       statemachine.Event = "resolve"
	EventActivate      statemachine.Event = "activate"
	EventReject        statemachine.Event = "reject"
	EventCompleteSetup statemachine.Event = "complete-security-setup"
	EventGoBack        statemachine.Event = "go-back"
	EventFinish        statemachine.Event = "finish"
	EventAcceptStart   statemachine.Event = "accept-start"
	EventAcceptFailed  statemachine.Event = "accept-failed"
	EventConflict      statemachine.Event = "conflict"
)

// resolvable states are the ones a status fetch can commit
var resolvable = []UIState{
	StatePending,
	StateResumeSetup,
	StateRejected,
	StateAlreadyActivated,
	StateExpired,
}

// conflict states are committed when a mutation finds the invitation
// already settled on the server
var conflict = []UIState{
	StateAlreadyActivated,
	StateAlreadyRejected,
	StateExpired,
}

// NewStateMachine builds the activation flow graph starting at initial.
// A status fetch may land from any state: the last write wins.
func NewStateMachine(initial UIState) *statemachine.StateMachine[UIState] {
	sm := statemachine.NewWithState(initial)

	for _, from := range AllStates {
		sm.Allow(from, resolvable...)
	}

	sm.AddEventTransition(StatePending, EventActivate, StateSecuritySetup).
		AddEventTransition(StateResumeSetup, EventActivate, StateSecuritySetup).
		AddEventTransition(StatePending, EventReject, StateRejected).
		AddEventTransition(StateSecuritySetup, EventCompleteSetup, StateSuccess).
		AddEventTransition(StateResumeSetup, EventCompleteSetup, StateSuccess).
		AddEventTransition(StateSecuritySetup, EventGoBack, StatePending).
		AddEventTransition(StateSuccess, EventFinish, StateActivated)

	// two-phase accept
	sm.AddEventTransition(StatePending, EventAcceptStart, StateActivating).
		AddEventTransition(StateActivating, EventActivate, StateSecuritySetup).
		AddEventTransition(StateActivating, EventAcceptFailed, StatePending)

	for _, from := range []UIState{StatePending, StateActivating, StateResumeSetup, StateSecuritySetup} {
		sm.Allow(from, conflict...)
	}

	return sm
}
