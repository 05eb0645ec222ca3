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

package activation

import (
	"context"
	"sync"
	"time"

	"github.com/go-arcade/activation/internal/config"
	"github.com/go-arcade/activation/pkg/cache"
	"github.com/go-arcade/activation/pkg/http"
	"github.com/go-arcade/activation/pkg/log"
	"github.com/go-arcade/activation/pkg/metrics"
	"github.com/robfig/cron"
	"golang.org/x/sync/singleflight"
)

const maxSweepInterval = time.Minute

type registryKey struct {
	sessionId string
	token     string
}

// Registry keeps the live controllers per session and token.
// Controllers idle longer than the session ttl are evicted by Sweep.
type Registry struct {
	client  InvitationClient
	cache   cache.ICache
	ttl     time.Duration
	metrics *metrics.ActivationMetrics

	mu      sync.Mutex
	opts    Options
	entries map[registryKey]*Controller
	restore singleflight.Group

	sweeper     *cron.Cron
	unsubscribe func()
	stopOnce    sync.Once
}

func NewRegistry(client InvitationClient, c cache.ICache, conf config.ActivationConfig, httpConf *http.Http, m *metrics.ActivationMetrics) *Registry {
	ttl := httpConf.Session.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	r := &Registry{
		client: client,
		cache:  c,
		opts: Options{
			FetchTimeout:      conf.FetchTimeout,
			StrictTransitions: conf.StrictTransitions,
			Metrics:           m,
		},
		ttl:     ttl,
		metrics: m,
		entries: make(map[registryKey]*Controller),
		sweeper: cron.New(),
	}
	r.unsubscribe = config.OnChange(func(next config.AppConfig) {
		r.Reload(next.Activation)
	})
	return r
}

// Reload applies new activation options to the registry and every live controller
func (r *Registry) Reload(conf config.ActivationConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts.FetchTimeout = conf.FetchTimeout
	r.opts.StrictTransitions = conf.StrictTransitions
	for _, ctrl := range r.entries {
		ctrl.SetOptions(r.opts)
	}
	log.Infow("activation options reloaded",
		"fetchTimeout", conf.FetchTimeout,
		"strictTransitions", conf.StrictTransitions,
		"controllers", len(r.entries),
	)
}

// Options returns the options new controllers are created with
func (r *Registry) Options() Options {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opts
}

// Get returns the controller for the pair, restoring it from the session
// snapshot when it is not in memory
func (r *Registry) Get(ctx context.Context, sessionId, token string) (*Controller, error) {
	key := registryKey{sessionId: sessionId, token: token}

	r.mu.Lock()
	if ctrl, ok := r.entries[key]; ok {
		r.mu.Unlock()
		return ctrl, nil
	}
	r.mu.Unlock()

	// 同一会话并发的首个请求只恢复一次快照
	v, _, _ := r.restore.Do(sessionId+"/"+token, func() (any, error) {
		r.mu.Lock()
		if existing, ok := r.entries[key]; ok {
			r.mu.Unlock()
			return existing, nil
		}
		opts := r.opts
		r.mu.Unlock()

		ctrl := NewController(token, r.client, NewCacheSessionStore(r.cache, sessionId, r.ttl), opts)
		if err := ctrl.Restore(ctx); err != nil {
			log.Warnw("failed to restore activation snapshot, starting from default", "token", maskToken(token), "error", err)
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		r.entries[key] = ctrl
		r.metrics.SetLiveControllers(len(r.entries))
		return ctrl, nil
	})
	return v.(*Controller), nil
}

// Len returns the number of live controllers
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep evicts controllers idle since now-ttl and returns how many were removed.
// Controllers with an action in flight are kept.
func (r *Registry) Sweep(now time.Time) int {
	deadline := now.Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for key, ctrl := range r.entries {
		if ctrl.Busy() || ctrl.LastUsed().After(deadline) {
			continue
		}
		delete(r.entries, key)
		removed++
	}
	r.metrics.SetLiveControllers(len(r.entries))
	return removed
}

// Start schedules the sweeper until Stop
func (r *Registry) Start() {
	interval := min(r.ttl, maxSweepInterval)
	r.sweeper.Schedule(cron.Every(interval), cron.FuncJob(func() {
		if n := r.Sweep(time.Now()); n > 0 {
			log.Debugw("evicted idle activation controllers", "count", n)
		}
	}))
	r.sweeper.Start()
}

func (r *Registry) Stop() {
	r.stopOnce.Do(func() {
		r.sweeper.Stop()
		r.unsubscribe()
	})
}
