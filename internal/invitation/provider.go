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

	"github.com/go-arcade/activation/pkg/database"
	"github.com/go-arcade/activation/pkg/log"
	"github.com/google/wire"
)

// ProviderSet 提供邀请相关依赖
var ProviderSet = wire.NewSet(ProvideRepository, NewService)

// ProvideRepository 根据 database.driver 选择存储实现
func ProvideRepository(conf database.Database, logger *log.Logger) (IInvitationRepository, func(), error) {
	switch conf.Driver {
	case "memory":
		logger.Log.Warnw("invitations are stored in memory and lost on restart")
		return NewMemoryRepo(), func() {}, nil
	case "", "mysql":
		db, cleanup, err := database.ProvideIDatabase(conf)
		if err != nil {
			return nil, nil, err
		}
		repo := NewInvitationRepo(db)
		if conf.AutoMigrate {
			if err := repo.AutoMigrate(); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("failed to migrate invitation table: %w", err)
			}
		}
		return repo, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %s", conf.Driver)
	}
}
