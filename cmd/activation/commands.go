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

package main

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/activation/internal/activation"
	"github.com/go-arcade/activation/internal/invitation"
	"github.com/spf13/cobra"
)

type resolveResult struct {
	Record     invitation.Record  `json:"record"`
	Transition bool               `json:"transition"`
	State      activation.UIState `json:"state,omitempty"`
	Screen     *activation.Screen `json:"screen,omitempty"`
}

// newResolveCmd prints the UI state a status record resolves to
func newResolveCmd() *cobra.Command {
	var record invitation.Record
	var status string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve an invitation status record to a UI state",
		Example: "  activation resolve --valid --status pending\n" +
			"  activation resolve --status accepted --is-password",
		RunE: func(cmd *cobra.Command, args []string) error {
			record.Status = invitation.Status(status)
			if !record.Status.Known() {
				return fmt.Errorf("unknown status %q, expected pending, accepted or revoked", status)
			}

			result := resolveResult{Record: record}
			if state, ok := activation.Resolve(record); ok {
				screen := activation.Render(state)
				result.Transition = true
				result.State = state
				result.Screen = &screen
			}

			out, err := sonic.ConfigStd.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&record.Valid, "valid", false, "invitation token is usable")
	cmd.Flags().StringVar(&status, "status", string(invitation.StatusPending), "pending | accepted | revoked")
	cmd.Flags().BoolVar(&record.IsPassword, "is-password", false, "invitee has set a password")
	return cmd
}

// newGraphCmd prints the activation flow as Graphviz DOT
func newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Print the activation state graph in DOT format",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), activation.NewStateMachine(activation.StatePending).ToDot("activation"))
			return nil
		},
	}
}
