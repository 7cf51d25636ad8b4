package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greensteps_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "greensteps_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	WasteEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greensteps_waste_entries_total",
			Help: "Total number of waste entries logged",
		},
		[]string{"category"},
	)

	PointsAwardedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "greensteps_points_awarded_total",
			Help: "Total number of reward points awarded",
		},
	)

	BadgeChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greensteps_badge_changes_total",
			Help: "Total number of badge tier changes",
		},
		[]string{"badge"},
	)

	// RewardFailuresTotal counts accruals that failed after the waste entry was stored.
	RewardFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "greensteps_reward_failures_total",
			Help: "Total number of reward accruals that failed after the primary write",
		},
	)

	LedgerSchemaMismatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greensteps_ledger_schema_mismatch_total",
			Help: "Ledger writes rejected because the delta column did not exist",
		},
		[]string{"column"},
	)

	TipCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greensteps_tip_cache_total",
			Help: "Tip cache lookups by result",
		},
		[]string{"result"},
	)

	TipSourceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greensteps_tip_source_total",
			Help: "Generated tip sets by source",
		},
		[]string{"source"},
	)

	AdvisorRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "greensteps_advisor_request_duration_seconds",
			Help:    "Duration of external advisor calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 15},
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greensteps_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "greensteps_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordWasteEntry(category string) {
	WasteEntriesTotal.WithLabelValues(category).Inc()
}

func RecordPointsAwarded(points int) {
	if points > 0 {
		PointsAwardedTotal.Add(float64(points))
	}
}

func RecordBadgeChange(badge string) {
	BadgeChangesTotal.WithLabelValues(badge).Inc()
}

func RecordRewardFailure() {
	RewardFailuresTotal.Inc()
}

func RecordLedgerSchemaMismatch(column string) {
	LedgerSchemaMismatchTotal.WithLabelValues(column).Inc()
}

func RecordTipCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	TipCacheTotal.WithLabelValues(result).Inc()
}

func RecordTipSource(source string) {
	TipSourceTotal.WithLabelValues(source).Inc()
}

func RecordAdvisorDuration(seconds float64) {
	AdvisorRequestDuration.Observe(seconds)
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
