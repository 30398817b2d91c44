package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP 指标
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trustfeed_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "endpoint", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trustfeed_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})
)

// 分类服务指标
var (
	OracleCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trustfeed_oracle_calls_total",
		Help: "Number of classification oracle calls, by operation and result",
	}, []string{"op", "result"})

	OracleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trustfeed_oracle_duration_seconds",
		Help:    "Duration of classification oracle calls",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"op"})
)

// 审核指标
var (
	TrustDeltas = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trustfeed_trust_deltas_total",
		Help: "Trust ledger adjustments, by reason and direction",
	}, []string{"reason", "direction"})

	ReportOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trustfeed_report_outcomes_total",
		Help: "Adjudicated reports, by recommendation",
	}, []string{"recommendation"})

	PostNegativity = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trustfeed_post_negativity_total",
		Help: "Submitted posts, by classified negativity level",
	}, []string{"level"})
)

// Direction 将 delta 转换为标签值
func Direction(delta int) string {
	switch {
	case delta > 0:
		return "up"
	case delta < 0:
		return "down"
	default:
		return "none"
	}
}
