// Package metric 定义服务的 Prometheus 指标。
//
// 指标分类：
//   - HTTP：请求数、延迟
//   - 分类：预测结果、未登录类别
//   - 相似度：快照大小、快照读取失败、结果数量、熔断器状态
package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "huniya_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "huniya_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "huniya_predictions_total",
			Help: "Credit score predictions by outcome label (or \"error\")",
		},
		[]string{"outcome"},
	)

	UnknownCategoryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "huniya_unknown_category_total",
			Help: "Categorical values outside the trained vocabulary, encoded with the fallback code",
		},
		[]string{"field"},
	)

	SnapshotSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "huniya_listing_snapshot_size",
			Help: "Number of unsold listings in the most recent snapshot",
		},
	)

	SnapshotFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "huniya_listing_snapshot_failures_total",
			Help: "Snapshot reads that degraded to an empty snapshot",
		},
		[]string{"reason"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "huniya_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	SimilarResultSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "huniya_similar_result_size",
			Help:    "Number of listings returned per similarity query",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50},
		},
	)
)

// RecordHTTPRequest 记录一次 HTTP 请求
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordPrediction 记录预测结果；err 非空时 outcome 为 "error"
func RecordPrediction(label string, err error) {
	if err != nil {
		label = "error"
	}
	PredictionsTotal.WithLabelValues(label).Inc()
}

func RecordUnknownCategory(field string) {
	UnknownCategoryTotal.WithLabelValues(field).Inc()
}

func RecordSnapshot(size int) {
	SnapshotSize.Set(float64(size))
}

func RecordSnapshotFailure(reason string) {
	SnapshotFailuresTotal.WithLabelValues(reason).Inc()
}

func RecordBreakerState(name string, state int) {
	BreakerState.WithLabelValues(name).Set(float64(state))
}

func RecordSimilarResult(n int) {
	SimilarResultSize.Observe(float64(n))
}
