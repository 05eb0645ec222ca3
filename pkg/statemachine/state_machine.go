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
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrInvalidTransition is returned when no edge exists between two states.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrUnknownEvent is returned when an event has no target in the current state.
var ErrUnknownEvent = errors.New("no transition defined for event")

// Event represents an event that triggers a state transition in the FSM.
type Event string

// TransitionHook is triggered when a state transition occurs.
type TransitionHook[T comparable] func(from, to T, event Event) error

// StateHook is triggered when entering or exiting a state.
type StateHook[T comparable] func(state T) error

// TransitionValidator validates whether a state transition is allowed.
type TransitionValidator[T comparable] func(from, to T, event Event) error

// TransitionRecord records a state transition in the FSM history.
type TransitionRecord[T comparable] struct {
	From      T
	To        T
	Event     Event
	Timestamp time.Time
	Error     error
}

// StateMachine is a generic finite state machine.
// Hooks run while the machine lock is held and must not call back into it.
type StateMachine[T comparable] struct {
	mu sync.RWMutex

	currentState T
	initialState T

	// from state -> list of valid next states
	validTransitions map[T][]T
	// (from state, event) -> target state
	eventTransitions map[transitionKey[T]]T

	history        []TransitionRecord[T]
	maxHistorySize int

	onTransition []TransitionHook[T]
	onEnter      map[T][]StateHook[T]
	onExit       map[T][]StateHook[T]
	validators   []TransitionValidator[T]

	onError func(from, to T, event Event, err error)
}

type transitionKey[T comparable] struct {
	From  T
	Event Event
}

// New creates a new StateMachine instance.
func New[T comparable]() *StateMachine[T] {
	return &StateMachine[T]{
		validTransitions: make(map[T][]T),
		eventTransitions: make(map[transitionKey[T]]T),
		onEnter:          make(map[T][]StateHook[T]),
		onExit:           make(map[T][]StateHook[T]),
		maxHistorySize:   100,
	}
}

// NewWithState creates a new StateMachine with an initial state.
func NewWithState[T comparable](initialState T) *StateMachine[T] {
	sm := New[T]()
	sm.currentState = initialState
	sm.initialState = initialState
	return sm
}

// Allow registers valid transitions from a source state.
func (sm *StateMachine[T]) Allow(from T, to ...T) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for _, target := range to {
		sm.addEdgeLocked(from, target)
	}
	return sm
}

// AddEventTransition adds an event-driven state transition.
func (sm *StateMachine[T]) AddEventTransition(from T, event Event, to T) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.eventTransitions[transitionKey[T]{From: from, Event: event}] = to
	sm.addEdgeLocked(from, to)
	return sm
}

func (sm *StateMachine[T]) addEdgeLocked(from, to T) {
	if !slices.Contains(sm.validTransitions[from], to) {
		sm.validTransitions[from] = append(sm.validTransitions[from], to)
	}
}

// CanTransition checks if a transition from one state to another is valid.
func (sm *StateMachine[T]) CanTransition(from, to T) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return slices.Contains(sm.validTransitions[from], to)
}

// CanTrigger reports whether event has a target in the current state.
func (sm *StateMachine[T]) CanTrigger(event Event) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	_, ok := sm.eventTransitions[transitionKey[T]{From: sm.currentState, Event: event}]
	return ok
}

// Current returns the current state of the StateMachine.
func (sm *StateMachine[T]) Current() T {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState
}

// SetCurrent sets the current state without triggering hooks.
// Used when restoring a machine from a snapshot.
func (sm *StateMachine[T]) SetCurrent(state T) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.currentState = state
}

// Initial returns the initial state of the StateMachine.
func (sm *StateMachine[T]) Initial() T {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.initialState
}

// ValidNextStates returns all valid next states from the given state.
func (sm *StateMachine[T]) ValidNextStates(from T) []T {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return slices.Clone(sm.validTransitions[from])
}

// History returns the transition history.
func (sm *StateMachine[T]) History() []TransitionRecord[T] {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return slices.Clone(sm.history)
}

// SetMaxHistorySize sets the maximum number of history records to keep.
func (sm *StateMachine[T]) SetMaxHistorySize(size int) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.maxHistorySize = size
	sm.trimHistoryLocked()
	return sm
}

func (sm *StateMachine[T]) trimHistoryLocked() {
	if sm.maxHistorySize >= 0 && len(sm.history) > sm.maxHistorySize {
		sm.history = sm.history[len(sm.history)-sm.maxHistorySize:]
	}
}

// OnTransition registers a hook that is called during any state transition.
func (sm *StateMachine[T]) OnTransition(h TransitionHook[T]) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.onTransition = append(sm.onTransition, h)
	return sm
}

// OnEnter registers a hook that is called when entering a specific state.
func (sm *StateMachine[T]) OnEnter(state T, h StateHook[T]) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.onEnter[state] = append(sm.onEnter[state], h)
	return sm
}

// OnExit registers a hook that is called when exiting a specific state.
func (sm *StateMachine[T]) OnExit(state T, h StateHook[T]) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.onExit[state] = append(sm.onExit[state], h)
	return sm
}

// AddValidator adds a validator that checks if a transition is allowed.
func (sm *StateMachine[T]) AddValidator(v TransitionValidator[T]) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.validators = append(sm.validators, v)
	return sm
}

// OnError registers an error handler that is called when a transition fails.
func (sm *StateMachine[T]) OnError(handler func(from, to T, event Event, err error)) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.onError = handler
	return sm
}

// Transition moves the machine from the current state to "to".
// The current state must equal "from".
func (sm *StateMachine[T]) Transition(from, to T, event Event) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.currentState != from {
		err := fmt.Errorf("%w: machine is in %v, not %v", ErrInvalidTransition, sm.currentState, from)
		sm.recordLocked(from, to, event, time.Now(), err)
		return err
	}
	return sm.transitionLocked(from, to, event)
}

// TransitionTo performs a transition from the current state to the target state.
func (sm *StateMachine[T]) TransitionTo(to T, event Event) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.transitionLocked(sm.currentState, to, event)
}

// TriggerEvent looks up the target for event in the current state and
// transitions to it. Lookup and transition are atomic.
func (sm *StateMachine[T]) TriggerEvent(event Event) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	current := sm.currentState
	to, ok := sm.eventTransitions[transitionKey[T]{From: current, Event: event}]
	if !ok {
		return fmt.Errorf("%w %q in state %v", ErrUnknownEvent, event, current)
	}
	return sm.transitionLocked(current, to, event)
}

func (sm *StateMachine[T]) transitionLocked(from, to T, event Event) (err error) {
	startTime := time.Now()
	defer func() {
		sm.recordLocked(from, to, event, startTime, err)
	}()

	if !slices.Contains(sm.validTransitions[from], to) {
		return fmt.Errorf("%w: %v → %v", ErrInvalidTransition, from, to)
	}

	for _, validator := range sm.validators {
		if err := validator(from, to, event); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	for _, h := range sm.onExit[from] {
		if err := h(from); err != nil {
			return fmt.Errorf("exit hook failed for state %v: %w", from, err)
		}
	}

	for _, h := range sm.onTransition {
		if err := h(from, to, event); err != nil {
			return fmt.Errorf("transition hook failed: %w", err)
		}
	}

	sm.currentState = to

	for _, h := range sm.onEnter[to] {
		if err := h(to); err != nil {
			return fmt.Errorf("enter hook failed for state %v: %w", to, err)
		}
	}

	return nil
}

func (sm *StateMachine[T]) recordLocked(from, to T, event Event, at time.Time, err error) {
	sm.history = append(sm.history, TransitionRecord[T]{
		From:      from,
		To:        to,
		Event:     event,
		Timestamp: at,
		Error:     err,
	})
	sm.trimHistoryLocked()

	if err != nil && sm.onError != nil {
		sm.onError(from, to, event, err)
	}
}

// Is checks if the current state matches the given state.
func (sm *StateMachine[T]) Is(state T) bool {
	return sm.Current() == state
}

// IsOneOf checks if the current state is one of the given states.
func (sm *StateMachine[T]) IsOneOf(states ...T) bool {
	return slices.Contains(states, sm.Current())
}

// ToDot exports the StateMachine as a Graphviz DOT string.
// Edges are emitted in sorted order so the output is stable.
func (sm *StateMachine[T]) ToDot(name string) string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", name)
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box];\n")

	var zero T
	if sm.initialState != zero {
		b.WriteString("  start [shape=point];\n")
		fmt.Fprintf(&b, "  start -> \"%v\";\n", sm.initialState)
	}

	labels := make(map[string][]string)
	for key, target := range sm.eventTransitions {
		edge := fmt.Sprintf("%v\x00%v", key.From, target)
		labels[edge] = append(labels[edge], string(key.Event))
	}

	edges := make([]string, 0)
	for from, tos := range sm.validTransitions {
		for _, to := range tos {
			edge := fmt.Sprintf("%v\x00%v", from, to)
			line := fmt.Sprintf("  \"%v\" -> \"%v\"", from, to)
			if l := labels[edge]; len(l) > 0 {
				sort.Strings(l)
				line += fmt.Sprintf(" [label=\"%s\"]", strings.Join(l, ", "))
			}
			edges = append(edges, line+";\n")
		}
	}
	sort.Strings(edges)
	for _, e := range edges {
		b.WriteString(e)
	}

	b.WriteString("}\n")
	return b.String()
}
