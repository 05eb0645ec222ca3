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
	"fmt"
	"strings"
	"unicode"
)

const minPasswordLength = 8

// ValidatePassword checks the password policy: at least 8 characters with
// upper case, lower case, digit and special character
func ValidatePassword(password string) error {
	var missing []string
	if len([]rune(password)) < minPasswordLength {
		missing = append(missing, fmt.Sprintf("at least %d characters", minPasswordLength))
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	if !upper {
		missing = append(missing, "an upper case letter")
	}
	if !lower {
		missing = append(missing, "a lower case letter")
	}
	if !digit {
		missing = append(missing, "a digit")
	}
	if !special {
		missing = append(missing, "a special character")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: requires %s", ErrWeakPassword, strings.Join(missing, ", "))
	}
	return nil
}
