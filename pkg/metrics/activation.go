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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "activation"

// ActivationMetrics groups the collectors of the activation flow.
// All methods are safe on a nil receiver so callers may run without metrics.
type ActivationMetrics struct {
	transitions   *prometheus.CounterVec
	statusFetches *prometheus.CounterVec
	mutations     *prometheus.CounterVec
	controllers   prometheus.Gauge
}

// NewActivationMetrics creates the activation collectors
func NewActivationMetrics() *ActivationMetrics {
	return &ActivationMetrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Committed UI state transitions.",
		}, []string{"from", "to", "event"}),
		statusFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_fetches_total",
			Help:      "Invitation status fetches by result.",
		}, []string{"result"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invitation_mutations_total",
			Help:      "Invitation mutations by operation and result.",
		}, []string{"op", "result"}),
		controllers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_controllers",
			Help:      "Activation controllers currently held in memory.",
		}),
	}
}

// Collectors returns every collector for registration
func (m *ActivationMetrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.transitions, m.statusFetches, m.mutations, m.controllers}
}

func (m *ActivationMetrics) ObserveTransition(from, to, event string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to, event).Inc()
}

func (m *ActivationMetrics) ObserveStatusFetch(result string) {
	if m == nil {
		return
	}
	m.statusFetches.WithLabelValues(result).Inc()
}

func (m *ActivationMetrics) ObserveMutation(op string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.mutations.WithLabelValues(op, result).Inc()
}

func (m *ActivationMetrics) SetLiveControllers(n int) {
	if m == nil {
		return
	}
	m.controllers.Set(float64(n))
}
