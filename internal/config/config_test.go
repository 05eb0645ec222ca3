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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[log]
output = "stdout"
level = "DEBUG"

[http]
port = 9000

[http.session]
secretKey = "s3cret"
ttl = "2h"

[cache]
backend = "local"

[activation]
fetchTimeout = "3s"
strictTransitions = true
cors = ["https://console.example.com"]
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	c, err := LoadConfigFile(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", c.Log.Level)
	assert.Equal(t, 9000, c.Http.Port)
	assert.Equal(t, "s3cret", c.Http.Session.SecretKey)
	assert.Equal(t, 2*time.Hour, c.Http.Session.TTL)
	assert.Equal(t, 3*time.Second, c.Activation.FetchTimeout)
	assert.True(t, c.Activation.StrictTransitions)
	assert.Equal(t, []string{"https://console.example.com"}, c.Activation.Cors)

	// defaults
	assert.Equal(t, 72*time.Hour, c.Invitation.TTL)
	assert.Equal(t, "activation_session", c.Http.Session.CookieName)
	assert.Empty(t, c.Activation.Upstream)
}

func TestLoadConfigFile_Reload(t *testing.T) {
	body := strings.Replace(sampleConfig, `secretKey = "s3cret"`, `secretKey = ""`, 1)
	path := writeConfig(t, body)
	loaded, err := LoadConfigFile(path)
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, loaded.Activation.FetchTimeout)
	ephemeral := loaded.Http.Session.SecretKey
	require.NotEmpty(t, ephemeral)

	var (
		mu       sync.Mutex
		received []AppConfig
	)
	unsubscribe := OnChange(func(c AppConfig) {
		mu.Lock()
		received = append(received, c)
		mu.Unlock()
	})
	defer unsubscribe()

	// replace the file atomically so the watcher never reads a partial write
	updated := strings.Replace(body, `fetchTimeout = "3s"`, `fetchTimeout = "5s"`, 1)
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(updated), 0o600))
	require.NoError(t, os.Rename(tmp, path))

	require.Eventually(t, func() bool {
		return Current().Activation.FetchTimeout == 5*time.Second
	}, 5*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, received)
	last := received[len(received)-1]
	assert.Equal(t, 5*time.Second, last.Activation.FetchTimeout)
	assert.Equal(t, ephemeral, last.Http.Session.SecretKey, "reload keeps the ephemeral session key")
}

func TestOnChange_Unsubscribe(t *testing.T) {
	unsubscribe := OnChange(func(AppConfig) {})
	mu.RLock()
	n := len(listeners)
	mu.RUnlock()

	unsubscribe()
	mu.RLock()
	defer mu.RUnlock()
	assert.Len(t, listeners, n-1)
}

func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestAppConfig_SetDefaults(t *testing.T) {
	var c AppConfig
	c.SetDefaults()

	assert.Equal(t, "stdout", c.Log.Output)
	assert.Equal(t, "local", c.Cache.Backend)
	assert.Equal(t, 10*time.Second, c.Activation.FetchTimeout)
	assert.Equal(t, 12*time.Hour, c.Http.Session.TTL)
	assert.Len(t, c.Http.Session.SecretKey, 32)
	assert.False(t, c.Trace.Enabled)
	assert.Equal(t, "grpc", c.Trace.Protocol)
}
