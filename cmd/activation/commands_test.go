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
	"bytes"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/activation/internal/activation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestResolveCmd(t *testing.T) {
	tests := []struct {
		args []string
		want activation.UIState
	}{
		{[]string{"resolve", "--valid", "--status", "pending"}, activation.StatePending},
		{[]string{"resolve", "--status", "revoked"}, activation.StateRejected},
		{[]string{"resolve", "--status", "accepted", "--is-password"}, activation.StateAlreadyActivated},
		{[]string{"resolve", "--status", "pending"}, activation.StateExpired},
	}
	for _, tt := range tests {
		out, err := run(t, tt.args...)
		require.NoError(t, err)

		var result resolveResult
		require.NoError(t, sonic.Unmarshal([]byte(out), &result))
		assert.True(t, result.Transition)
		assert.Equal(t, tt.want, result.State)
		assert.Equal(t, activation.Render(tt.want).Name, result.Screen.Name)
	}
}

func TestResolveCmd_NoTransition(t *testing.T) {
	out, err := run(t, "resolve", "--status", "accepted")
	require.NoError(t, err)

	var result resolveResult
	require.NoError(t, sonic.Unmarshal([]byte(out), &result))
	assert.False(t, result.Transition)
	assert.Nil(t, result.Screen)
}

func TestResolveCmd_UnknownStatus(t *testing.T) {
	_, err := run(t, "resolve", "--status", "archived")
	assert.Error(t, err)
}

func TestGraphCmd(t *testing.T) {
	out, err := run(t, "graph")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph activation {")
	assert.Contains(t, out, `"success" -> "activated" [label="finish"]`)
}
