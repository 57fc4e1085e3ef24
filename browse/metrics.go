// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package browse

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	MatchKindSpawn    = "spawn"
	MatchKindInstance = "instance"
)

// Metrics exports search metrics via Prometheus. A nil *Metrics is valid and records nothing
type Metrics struct {
	blocksScanned   prometheus.Counter
	matches         *prometheus.CounterVec
	pageRequests    prometheus.Counter
	degradedRetries prometheus.Counter
	sessions        *prometheus.CounterVec
	sessionsRunning prometheus.Gauge
	sessionDuration *prometheus.HistogramVec
}

// NewMetrics registers the collectors against the provided registry
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		blocksScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledgerbrowse_blocks_scanned_total",
			Help: "Total blocks scanned.",
		}),
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledgerbrowse_matches_total",
			Help: "Matching instructions partitioned by kind.",
		}, []string{"kind"}),
		pageRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledgerbrowse_page_requests_total",
			Help: "Total page requests sent.",
		}),
		degradedRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledgerbrowse_degraded_retries_total",
			Help: "Page requests retried with single block pages after a stream reset.",
		}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledgerbrowse_sessions_total",
			Help: "Finished search sessions partitioned by result.",
		}, []string{"result"}),
		sessionsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ledgerbrowse_sessions_running",
			Help: "Current number of running search sessions.",
		}),
		sessionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledgerbrowse_session_duration_seconds",
			Help:    "Wall time per finished search session.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 300, 900},
		}, []string{"result"}),
	}
	for _, collector := range []prometheus.Collector{
		m.blocksScanned,
		m.matches,
		m.pageRequests,
		m.degradedRetries,
		m.sessions,
		m.sessionsRunning,
		m.sessionDuration,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register browse collector: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) blockScanned() {
	if m == nil {
		return
	}
	m.blocksScanned.Inc()
}

func (m *Metrics) matchFound(match Match) {
	if m == nil {
		return
	}
	kind := MatchKindInstance
	if match.Instruction.IsSpawn() {
		kind = MatchKindSpawn
	}
	m.matches.WithLabelValues(kind).Inc()
}

func (m *Metrics) pageRequested() {
	if m == nil {
		return
	}
	m.pageRequests.Inc()
}

func (m *Metrics) degradedRetry() {
	if m == nil {
		return
	}
	m.degradedRetries.Inc()
}

func (m *Metrics) sessionStarted() {
	if m == nil {
		return
	}
	m.sessionsRunning.Inc()
}

func (m *Metrics) sessionFinished(result string, dur time.Duration) {
	if m == nil {
		return
	}
	m.sessionsRunning.Dec()
	m.sessions.WithLabelValues(result).Inc()
	m.sessionDuration.WithLabelValues(result).Observe(dur.Seconds())
}
