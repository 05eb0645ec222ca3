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

package cache

import (
	"fmt"

	"github.com/go-arcade/activation/pkg/log"
	"github.com/google/wire"
)

// defaultLocalMaxBytes is the default local cache size (32MB)
const defaultLocalMaxBytes = 32 * 1024 * 1024

// ProviderSet 提供缓存依赖（Redis 或本地 FastCache）
var ProviderSet = wire.NewSet(ProvideICache)

// Conf selects the cache backend.
type Conf struct {
	Backend       string // "local" | "redis"
	LocalMaxBytes int
	Redis         Redis
}

// SetDefaults fills zero values.
func (c *Conf) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "local"
	}
	if c.LocalMaxBytes <= 0 {
		c.LocalMaxBytes = defaultLocalMaxBytes
	}
}

// ProvideICache 根据配置提供 ICache 实例
func ProvideICache(conf Conf, logger *log.Logger) (ICache, func(), error) {
	conf.SetDefaults()
	switch conf.Backend {
	case "local":
		logger.Log.Infow("using local cache", "maxBytes", conf.LocalMaxBytes)
		fc := NewFastCache(FastCacheConfig{MaxBytes: conf.LocalMaxBytes})
		return fc, fc.Clear, nil
	case "redis":
		client, err := NewRedisCmdable(conf.Redis)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisCache(client), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache backend: %s", conf.Backend)
	}
}
