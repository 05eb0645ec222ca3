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

package middleware

import (
	"github.com/go-arcade/activation/pkg/http"
	"github.com/gofiber/fiber/v2"
)

const (
	// DETAIL 响应数据
	DETAIL = "detail"
	// OPERATION 无响应数据的操作结果
	OPERATION = "operation"
)

// UnifiedResponseMiddleware wraps handler results stored in locals into the
// unified response envelope. Handlers that already wrote a body are left alone.
func UnifiedResponseMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}

		if c.Response().StatusCode() != fiber.StatusOK {
			return nil
		}

		if detail := c.Locals(DETAIL); detail != nil {
			return http.WithRepJSON(c, detail)
		}

		if c.Locals(OPERATION) != nil {
			return http.WithRepNotDetail(c)
		}

		return nil
	}
}
