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

import "slices"

// Action names a control the screen offers, matching the console routes
type Action string

const (
	ActionAccept        Action = "accept"
	ActionDecline       Action = "decline"
	ActionSecuritySetup Action = "security-setup"
	ActionBack          Action = "back"
	ActionFinish        Action = "finish"
)

// Screen is the presentation selected for a UI state.
// TitleId is the message key of the title, Title its English default.
type Screen struct {
	Name    string   `json:"name"`
	TitleId string   `json:"titleId"`
	Title   string   `json:"title"`
	Actions []Action `json:"actions"`
}

var screens = map[UIState]Screen{
	StatePending:          {Name: "activation-details", Title: "You have been invited", Actions: []Action{ActionAccept, ActionDecline}},
	StateActivating:       {Name: "activation-progress", Title: "Activating your account"},
	StateSecuritySetup:    {Name: "security-setup", Title: "Set up your password", Actions: []Action{ActionSecuritySetup, ActionBack}},
	StateResumeSetup:      {Name: "resume-setup", Title: "Finish setting up your account", Actions: []Action{ActionAccept, ActionSecuritySetup}},
	StateSuccess:          {Name: "activation-success", Title: "Your account is ready", Actions: []Action{ActionFinish}},
	StateRejected:         {Name: "invitation-declined", Title: "Invitation declined"},
	StateActivated:        {Name: "account-activated", Title: "Account activated"},
	StateAlreadyActivated: {Name: "already-activated", Title: "This invitation has already been used"},
	StateAlreadyRejected:  {Name: "already-declined", Title: "This invitation has already been declined"},
	StateExpired:          {Name: "invitation-expired", Title: "This invitation has expired"},
}

// Render selects the screen for state; unknown states fall back to the
// details screen
func Render(state UIState) Screen {
	s, ok := screens[state]
	if !ok {
		s = screens[StatePending]
	}
	s.TitleId = "screen." + s.Name + ".title"
	return s
}

// Allows reports whether the screen offers action
func (s Screen) Allows(action Action) bool {
	return slices.Contains(s.Actions, action)
}
