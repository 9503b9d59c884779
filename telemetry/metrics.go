// Package telemetry provides Prometheus metrics and correlation-id aware logging helpers.
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	QuestionsServed  prometheus.Counter
	ProviderErrors   prometheus.Counter
	AnswersCorrect   prometheus.Counter
	AnswersIncorrect prometheus.Counter
	HintsServed      prometheus.Counter
	DailyBroadcasts  prometheus.Counter

	// Histograms (seconds)
	CommandDuration prometheus.Observer

	// Gauges
	ActiveSessionsGauge prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		QuestionsServed = promauto.NewCounter(prometheus.CounterOpts{Name: "trivia_questions_served_total", Help: "Number of trivia questions successfully started"})
		ProviderErrors = promauto.NewCounter(prometheus.CounterOpts{Name: "trivia_provider_errors_total", Help: "Number of failed trivia API fetches"})
		AnswersCorrect = promauto.NewCounter(prometheus.CounterOpts{Name: "trivia_answers_correct_total", Help: "Number of correct answer submissions"})
		AnswersIncorrect = promauto.NewCounter(prometheus.CounterOpts{Name: "trivia_answers_incorrect_total", Help: "Number of incorrect answer submissions"})
		HintsServed = promauto.NewCounter(prometheus.CounterOpts{Name: "trivia_hints_served_total", Help: "Number of hints served"})
		DailyBroadcasts = promauto.NewCounter(prometheus.CounterOpts{Name: "trivia_daily_broadcasts_total", Help: "Number of scheduled daily questions posted"})
		CommandDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "trivia_command_duration_seconds", Help: "Chat command handling duration seconds", Buckets: prometheus.DefBuckets})
		ActiveSessionsGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "trivia_active_sessions", Help: "Channels with an open trivia question"})
	})
}

// SetActiveSessions records the current number of open questions.
func SetActiveSessions(n int) {
	if ActiveSessionsGauge != nil {
		ActiveSessionsGauge.Set(float64(n))
	}
}

// TimeFunc measures the duration of fn and records in observer if non-nil.
func TimeFunc(obs prometheus.Observer, fn func()) time.Duration {
	start := time.Now()
	fn()
	d := time.Since(start)
	if obs != nil {
		obs.Observe(d.Seconds())
	}
	return d
}

// Correlation ID helpers ----------------------------------------------------
type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding correlation id (if absent) and the id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	v := ctx.Value(corrKey)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger with corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
