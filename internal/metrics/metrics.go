// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordLookupSuccess()
	RecordLookupNotFound()
	RecordLookupFailure()
	RecordLookupLatency(duration time.Duration)
	RecordItemsAdded(count int)
	RecordStatusTransition(status string)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	lookupSuccess    prometheus.Counter
	lookupNotFound   prometheus.Counter
	lookupFail       prometheus.Counter
	lookupLatency    prometheus.Histogram
	itemsAdded       prometheus.Counter
	statusTransition *prometheus.CounterVec
	httpStatus       *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		lookupSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "grocery_lookup_success_total",
			Help: "バーコード解決成功の合計数",
		}),
		lookupNotFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "grocery_lookup_not_found_total",
			Help: "バーコード未登録の合計数",
		}),
		lookupFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "grocery_lookup_fail_total",
			Help: "バーコード解決失敗（通信・パース）の合計数",
		}),
		lookupLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "grocery_lookup_latency_seconds",
			Help:    "バーコード解決のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		itemsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "grocery_items_added_total",
			Help: "在庫に追加されたアイテムの合計数",
		}),
		statusTransition: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grocery_status_transition_total",
			Help: "終端状態への遷移数（状態別）",
		}, []string{"status"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grocery_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.lookupSuccess,
		c.lookupNotFound,
		c.lookupFail,
		c.lookupLatency,
		c.itemsAdded,
		c.statusTransition,
		c.httpStatus,
	)

	return c
}

// RecordLookupSuccess はバーコード解決成功を記録する。
func (c *Collector) RecordLookupSuccess() {
	c.lookupSuccess.Inc()
}

// RecordLookupNotFound はバーコード未登録を記録する。
func (c *Collector) RecordLookupNotFound() {
	c.lookupNotFound.Inc()
}

// RecordLookupFailure はバーコード解決失敗を記録する。
func (c *Collector) RecordLookupFailure() {
	c.lookupFail.Inc()
}

// RecordLookupLatency はバーコード解決のレイテンシを記録する。
func (c *Collector) RecordLookupLatency(duration time.Duration) {
	c.lookupLatency.Observe(duration.Seconds())
}

// RecordItemsAdded は在庫に追加されたアイテム数を記録する。
func (c *Collector) RecordItemsAdded(count int) {
	c.itemsAdded.Add(float64(count))
}

// RecordStatusTransition は終端状態への遷移を記録する。
func (c *Collector) RecordStatusTransition(status string) {
	c.statusTransition.WithLabelValues(status).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
