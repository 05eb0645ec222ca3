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

package id

import (
	"regexp"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
)

func TestGetUUIDWithoutDashes(t *testing.T) {
	v := GetUUIDWithoutDashes()
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), v)
	assert.NotEqual(t, v, GetUUIDWithoutDashes())
}

func TestGetUlid(t *testing.T) {
	v := GetUlid()
	_, err := ulid.Parse(v)
	assert.NoError(t, err)
	assert.Len(t, v, 26)
}
