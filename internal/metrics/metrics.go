// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	initOnce sync.Once

	commandsTotalCounter    *prometheus.CounterVec
	inputStepsCounter       *prometheus.CounterVec
	inputBatchesCounter     prometheus.Counter
	sequenceDurationMetric  prometheus.Histogram
	activeSessionsGauge     prometheus.Gauge
	sessionsRejectedCounter prometheus.Counter
)

// Init registers metrics on the default Prometheus registry exactly once.
func Init() {
	initOnce.Do(func() {
		commandsTotalCounter = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "driver_commands_total",
				Help: "Total number of WebDriver commands by method and status.",
			},
			[]string{"method", "status"},
		)

		inputStepsCounter = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "input_steps_total",
				Help: "Total number of dispatched action steps by kind.",
			},
			[]string{"kind"},
		)

		inputBatchesCounter = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "input_batches_total",
				Help: "Total number of native input batches submitted to the OS.",
			},
		)

		sequenceDurationMetric = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "action_sequence_duration_seconds",
				Help:    "Wall-clock duration of dispatched action sequences.",
				Buckets: prometheus.DefBuckets,
			},
		)

		activeSessionsGauge = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sessions_active",
				Help: "Number of currently active driver sessions.",
			},
		)

		sessionsRejectedCounter = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sessions_rejected_total",
				Help: "Total number of session creations rejected by the session limit.",
			},
		)

		prometheus.MustRegister(
			commandsTotalCounter,
			inputStepsCounter,
			inputBatchesCounter,
			sequenceDurationMetric,
			activeSessionsGauge,
			sessionsRejectedCounter,
		)
	})
}

func IncCommand(method string, status int) {
	Init()
	commandsTotalCounter.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func IncStep(kind string) {
	Init()
	inputStepsCounter.WithLabelValues(kind).Inc()
}

func IncBatch() {
	Init()
	inputBatchesCounter.Inc()
}

func ObserveSequenceDuration(d time.Duration) {
	Init()
	sequenceDurationMetric.Observe(d.Seconds())
}

func SetActiveSessions(n int) {
	Init()
	activeSessionsGauge.Set(float64(n))
}

func IncSessionRejected() {
	Init()
	sessionsRejectedCounter.Inc()
}
