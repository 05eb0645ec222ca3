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
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-arcade/activation/internal/invitation"
	"github.com/go-arcade/activation/pkg/log"
	"github.com/go-arcade/activation/pkg/metrics"
	"github.com/go-arcade/activation/pkg/statemachine"
)

const defaultFetchTimeout = 10 * time.Second

// Options tunes a controller
type Options struct {
	FetchTimeout      time.Duration // 每次网络调用的超时，不重试
	StrictTransitions bool          // accept 期间停留在 activating
	Metrics           *metrics.ActivationMetrics
}

// View is what the console renders for one request
type View struct {
	State  UIState            `json:"state"`
	Screen Screen             `json:"screen"`
	Record *invitation.Record `json:"record,omitempty"`
	Busy   bool               `json:"busy"`
}

// Controller owns the UI state of one invitation token inside one session
type Controller struct {
	token  string
	client InvitationClient
	store  SessionStore
	opts   atomic.Pointer[Options]
	sm     *statemachine.StateMachine[UIState]

	initMu   sync.Mutex
	busy     atomic.Bool
	dirty    atomic.Bool
	lastUsed atomic.Int64

	mu     sync.RWMutex
	record *invitation.Record
}

func NewController(token string, client InvitationClient, store SessionStore, opts Options) *Controller {
	c := &Controller{
		token:  token,
		client: client,
		store:  store,
		sm:     NewStateMachine(StatePending),
	}
	c.SetOptions(opts)
	c.sm.OnTransition(func(from, to UIState, event statemachine.Event) error {
		c.dirty.Store(true)
		opts.Metrics.ObserveTransition(string(from), string(to), string(event))
		log.Debugw("activation state changed", "token", maskToken(token), "from", from, "to", to, "event", event)
		return nil
	})
	c.touch()
	return c
}

// SetOptions replaces the options used by subsequent calls.
// An action already in flight keeps the options it started with.
func (c *Controller) SetOptions(opts Options) {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	c.opts.Store(&opts)
}

// Options returns the options currently in effect
func (c *Controller) Options() Options {
	return *c.opts.Load()
}

// Restore loads the cached state and record of the session, if any
func (c *Controller) Restore(ctx context.Context) error {
	snap, err := c.store.LoadSnapshot(ctx, c.token)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}
	c.sm.SetCurrent(snap.State)
	c.mu.Lock()
	c.record = snap.Record
	c.mu.Unlock()
	return nil
}

// Initialize fetches the invitation status at most once per token and
// session. A failed fetch keeps the current state and leaves the marker
// unset so a later call may retry.
func (c *Controller) Initialize(ctx context.Context) error {
	c.touch()
	c.initMu.Lock()
	defer c.initMu.Unlock()

	opts := c.opts.Load()
	checked, err := c.store.Get(ctx, CheckedKey(c.token))
	if err != nil {
		return fmt.Errorf("read checked marker: %w", err)
	}
	if checked {
		opts.Metrics.ObserveStatusFetch("skipped")
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, opts.FetchTimeout)
	record, err := c.client.Status(fetchCtx, c.token)
	cancel()
	if err == nil {
		err = record.Validate()
	}
	if err != nil {
		opts.Metrics.ObserveStatusFetch("failure")
		log.Warnw("invitation status fetch failed, keeping current state",
			"token", maskToken(c.token), "state", c.sm.Current(), "error", err)
		return fmt.Errorf("%w: %w", ErrStatusFetch, err)
	}
	opts.Metrics.ObserveStatusFetch("success")

	if err = c.store.Set(ctx, CheckedKey(c.token)); err != nil {
		log.Warnw("failed to write checked marker", "token", maskToken(c.token), "error", err)
	}
	c.setRecord(record)

	if state, ok := Resolve(*record); ok && state != c.sm.Current() {
		if err = c.sm.TransitionTo(state, EventResolve); err != nil {
			return err
		}
	}
	return c.Save(ctx)
}

// Activate moves to the security setup step without any network call
func (c *Controller) Activate() error {
	return c.trigger(EventActivate)
}

// Reject moves to the declined screen
func (c *Controller) Reject() error {
	return c.trigger(EventReject)
}

// CompleteSecuritySetup moves to the success screen once the password is stored
func (c *Controller) CompleteSecuritySetup() error {
	return c.trigger(EventCompleteSetup)
}

// GoBack returns from security setup to the invitation details
func (c *Controller) GoBack() error {
	return c.trigger(EventGoBack)
}

// Finish acknowledges the success screen
func (c *Controller) Finish() error {
	return c.trigger(EventFinish)
}

func (c *Controller) trigger(event statemachine.Event) error {
	c.touch()
	if err := c.sm.TriggerEvent(event); err != nil {
		return c.notAllowed(event, err)
	}
	return nil
}

func (c *Controller) notAllowed(event statemachine.Event, err error) error {
	if errors.Is(err, statemachine.ErrUnknownEvent) || errors.Is(err, statemachine.ErrInvalidTransition) {
		return fmt.Errorf("%w: %s in %s", ErrActionNotAllowed, event, c.sm.Current())
	}
	return err
}

// Accept sends the accept mutation and moves to security setup on success.
// From resume-setup the invitation is already accepted and no call is made.
func (c *Controller) Accept(ctx context.Context) error {
	return c.guard(ctx, func() error {
		strict := c.opts.Load().StrictTransitions
		switch current := c.sm.Current(); current {
		case StateResumeSetup:
			return c.Activate()
		case StatePending:
		default:
			return fmt.Errorf("%w: accept in %s", ErrActionNotAllowed, current)
		}

		if strict {
			if err := c.sm.Transition(StatePending, StateActivating, EventAcceptStart); err != nil {
				return c.notAllowed(EventAcceptStart, err)
			}
		}

		err := c.call(ctx, func(ctx context.Context) error { return c.client.Accept(ctx, c.token) })
		if err != nil {
			if c.settle(ctx, err, EventActivate) {
				return nil
			}
			if strict {
				_ = c.sm.Transition(StateActivating, StatePending, EventAcceptFailed)
			}
			log.Warnw("accept invitation failed", "token", maskToken(c.token), "error", err)
			return err
		}
		return c.Activate()
	})
}

// Decline sends the reject mutation and moves to the declined screen on success
func (c *Controller) Decline(ctx context.Context) error {
	return c.guard(ctx, func() error {
		if !c.sm.CanTrigger(EventReject) {
			return fmt.Errorf("%w: decline in %s", ErrActionNotAllowed, c.sm.Current())
		}
		err := c.call(ctx, func(ctx context.Context) error { return c.client.Reject(ctx, c.token) })
		if err != nil {
			if c.settle(ctx, err, EventReject) {
				return nil
			}
			log.Warnw("reject invitation failed", "token", maskToken(c.token), "error", err)
			return err
		}
		return c.Reject()
	})
}

// SubmitPassword checks the password policy, stores the password upstream
// and completes the security setup
func (c *Controller) SubmitPassword(ctx context.Context, password string) error {
	return c.guard(ctx, func() error {
		if !c.sm.CanTrigger(EventCompleteSetup) {
			return fmt.Errorf("%w: security setup in %s", ErrActionNotAllowed, c.sm.Current())
		}
		if err := invitation.ValidatePassword(password); err != nil {
			return err
		}
		err := c.call(ctx, func(ctx context.Context) error { return c.client.SetupPassword(ctx, c.token, password) })
		if err != nil {
			if c.settle(ctx, err, EventCompleteSetup) {
				return nil
			}
			log.Warnw("password setup failed", "token", maskToken(c.token), "error", err)
			return err
		}
		return c.CompleteSecuritySetup()
	})
}

// settle commits the screen for a mutation rejected because the invitation
// already moved on upstream
func (c *Controller) settle(ctx context.Context, err error, event statemachine.Event) bool {
	var target UIState
	switch {
	case errors.Is(err, invitation.ErrAlreadyAccepted):
		target = c.acceptedTarget(ctx, event)
	case errors.Is(err, invitation.ErrPasswordAlreadySet):
		target = StateAlreadyActivated
	case errors.Is(err, invitation.ErrAlreadyRevoked):
		target = StateAlreadyRejected
	case errors.Is(err, invitation.ErrInvitationExpired):
		target = StateExpired
	default:
		return false
	}
	if target == c.sm.Current() {
		return true
	}
	if terr := c.sm.TransitionTo(target, EventConflict); terr != nil {
		log.Warnw("failed to settle activation state", "token", maskToken(c.token), "target", target, "error", terr)
		return false
	}
	return true
}

// acceptedTarget re-reads an invitation accepted by an earlier action.
// Without a password the invitee continues with the security setup,
// accept goes straight to it and decline lands on resume-setup.
func (c *Controller) acceptedTarget(ctx context.Context, event statemachine.Event) UIState {
	opts := c.opts.Load()
	fetchCtx, cancel := context.WithTimeout(ctx, opts.FetchTimeout)
	record, err := c.client.Status(fetchCtx, c.token)
	cancel()
	if err == nil {
		err = record.Validate()
	}
	if err != nil {
		opts.Metrics.ObserveStatusFetch("failure")
		log.Warnw("invitation status refresh failed, continuing with security setup",
			"token", maskToken(c.token), "error", err)
	} else {
		opts.Metrics.ObserveStatusFetch("success")
		c.setRecord(record)
		if state, ok := Resolve(*record); ok && state != StateResumeSetup {
			return state
		}
	}
	if event == EventActivate {
		return StateSecuritySetup
	}
	return StateResumeSetup
}

// guard allows one mutation at a time and persists the outcome
func (c *Controller) guard(ctx context.Context, fn func() error) error {
	c.touch()
	if !c.busy.CompareAndSwap(false, true) {
		return ErrActionInProgress
	}
	defer c.busy.Store(false)

	err := fn()
	if saveErr := c.Save(ctx); saveErr != nil {
		log.Warnw("failed to save activation snapshot", "token", maskToken(c.token), "error", saveErr)
	}
	return err
}

func (c *Controller) call(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Load().FetchTimeout)
	defer cancel()
	return fn(ctx)
}

// Save persists the snapshot when a transition happened since the last save
func (c *Controller) Save(ctx context.Context) error {
	if !c.dirty.Swap(false) {
		return nil
	}
	snap := c.Snapshot()
	if err := c.store.SaveSnapshot(ctx, c.token, &snap); err != nil {
		c.dirty.Store(true)
		return err
	}
	return nil
}

func (c *Controller) Snapshot() Snapshot {
	return Snapshot{State: c.sm.Current(), Record: c.Record(), UpdatedAt: time.Now()}
}

func (c *Controller) View() View {
	state := c.sm.Current()
	return View{State: state, Screen: Render(state), Record: c.Record(), Busy: c.busy.Load()}
}

func (c *Controller) State() UIState {
	return c.sm.Current()
}

// Record returns the cached invitation record, nil before the first fetch
func (c *Controller) Record() *invitation.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.record == nil {
		return nil
	}
	r := *c.record
	return &r
}

func (c *Controller) setRecord(r *invitation.Record) {
	c.mu.Lock()
	c.record = r
	c.mu.Unlock()
	c.dirty.Store(true)
}

func (c *Controller) Token() string {
	return c.token
}

// Busy reports whether a mutation is in flight
func (c *Controller) Busy() bool {
	return c.busy.Load()
}

func (c *Controller) LastUsed() time.Time {
	return time.Unix(0, c.lastUsed.Load())
}

func (c *Controller) touch() {
	c.lastUsed.Store(time.Now().UnixNano())
}

func maskToken(token string) string {
	if len(token) <= 6 {
		return "***"
	}
	return token[:6] + "***"
}
