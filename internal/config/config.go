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
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-arcade/activation/pkg/cache"
	"github.com/go-arcade/activation/pkg/database"
	"github.com/go-arcade/activation/pkg/http"
	"github.com/go-arcade/activation/pkg/id"
	"github.com/go-arcade/activation/pkg/log"
	"github.com/go-arcade/activation/pkg/metrics"
	"github.com/go-arcade/activation/pkg/trace"
	"github.com/spf13/viper"
)

// AppConfig holds all configuration settings
type AppConfig struct {
	Log        log.Conf              `mapstructure:"log"`
	Http       http.Http             `mapstructure:"http"`
	Database   database.Database     `mapstructure:"database"`
	Cache      cache.Conf            `mapstructure:"cache"`
	Metrics    metrics.MetricsConfig `mapstructure:"metrics"`
	Trace      trace.Conf            `mapstructure:"trace"`
	Invitation InvitationConfig      `mapstructure:"invitation"`
	Activation ActivationConfig      `mapstructure:"activation"`
}

// InvitationConfig 邀请配置
type InvitationConfig struct {
	TTL time.Duration `mapstructure:"ttl"` // 邀请有效期，默认 72h
}

// ActivationConfig 激活流程配置
type ActivationConfig struct {
	Upstream          string        `mapstructure:"upstream"`          // 邀请服务地址，为空时使用进程内服务
	FetchTimeout      time.Duration `mapstructure:"fetchTimeout"`      // 单次网络调用超时
	StrictTransitions bool          `mapstructure:"strictTransitions"` // accept 期间先进入 activating
	Cors              []string      `mapstructure:"cors"`
}

var (
	cfg  AppConfig
	mu   sync.RWMutex
	once sync.Once

	listeners  = make(map[int]func(AppConfig))
	listenerId int
)

// OnChange registers fn to run with the new configuration after every
// reload of the watched file. The returned func removes the listener.
func OnChange(fn func(AppConfig)) func() {
	mu.Lock()
	defer mu.Unlock()
	listenerId++
	id := listenerId
	listeners[id] = fn
	return func() {
		mu.Lock()
		delete(listeners, id)
		mu.Unlock()
	}
}

// NewConf loads the configuration once and panics on failure
func NewConf(confFile string) AppConfig {
	once.Do(func() {
		loaded, err := LoadConfigFile(confFile)
		if err != nil {
			panic(fmt.Sprintf("load config file error: %s", err))
		}
		mu.Lock()
		cfg = loaded
		mu.Unlock()
	})
	return Current()
}

// Current returns the latest configuration, including hot reloads
func Current() AppConfig {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// LoadConfigFile load config file
func LoadConfigFile(confFile string) (AppConfig, error) {
	var c AppConfig

	v := viper.New()
	v.SetConfigFile(confFile)
	v.SetConfigType("toml")
	v.SetEnvPrefix("ACTIVATION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return c, fmt.Errorf("failed to read configuration file: %w", err)
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}
	c.SetDefaults()

	current := c
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Infow("the configuration changes, re-analyze the configuration file", "file", e.Name)
		var next AppConfig
		if err := v.Unmarshal(&next); err != nil {
			log.Errorw("failed to unmarshal configuration file", "error", err)
			return
		}
		// 未配置密钥时沿用当前的临时密钥，已签发的会话保持有效
		if next.Http.Session.SecretKey == "" {
			next.Http.Session.SecretKey = current.Http.Session.SecretKey
		}
		next.SetDefaults()
		current = next

		mu.Lock()
		cfg = next
		fns := make([]func(AppConfig), 0, len(listeners))
		for _, fn := range listeners {
			fns = append(fns, fn)
		}
		mu.Unlock()

		for _, fn := range fns {
			fn(next)
		}
	})
	v.WatchConfig()

	log.Infow("config file loaded",
		"path", confFile,
		"cache.backend", c.Cache.Backend,
		"activation.upstream", c.Activation.Upstream,
	)
	return c, nil
}

// SetDefaults fills zero values of every section
func (c *AppConfig) SetDefaults() {
	c.Http.SetDefaults()
	c.Cache.SetDefaults()
	c.Metrics.SetDefaults()
	c.Trace.SetDefaults()
	if c.Log.Output == "" {
		def := log.SetDefaults()
		c.Log.Output = def.Output
		if c.Log.Level == "" {
			c.Log.Level = def.Level
		}
	}
	if c.Invitation.TTL <= 0 {
		c.Invitation.TTL = 72 * time.Hour
	}
	if c.Activation.FetchTimeout <= 0 {
		c.Activation.FetchTimeout = 10 * time.Second
	}
	if c.Http.Session.SecretKey == "" {
		// 会话在重启后失效，多实例部署必须显式配置
		c.Http.Session.SecretKey = id.GetUUIDWithoutDashes()
		log.Warnw("http.session.secretKey is not set, using an ephemeral key")
	}
}
