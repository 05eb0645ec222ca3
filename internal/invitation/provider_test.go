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

package invitation

import (
	"testing"

	"github.com/go-arcade/activation/pkg/database"
	"github.com/go-arcade/activation/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestProvideRepository_Memory(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := &log.Logger{Log: zap.New(core).Sugar()}

	repo, cleanup, err := ProvideRepository(database.Database{Driver: "memory"}, logger)
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &MemoryRepo{}, repo)

	// the warning goes to the configured logger
	assert.Equal(t, 1, logs.FilterMessage("invitations are stored in memory and lost on restart").Len())
}

func TestProvideRepository_UnknownDriver(t *testing.T) {
	_, _, err := ProvideRepository(database.Database{Driver: "sqlite"}, &log.Logger{Log: zap.NewNop().Sugar()})
	assert.Error(t, err)
}
