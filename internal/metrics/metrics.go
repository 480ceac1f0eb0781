// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層から利用する。
type MetricsCollector interface {
	RecordTaskCompleted()
	RecordStudyMinutes(minutes int)
	RecordPurchase(kind string)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	tasksCompleted prometheus.Counter
	studyMinutes   prometheus.Counter
	purchases      *prometheus.CounterVec
	httpStatus     *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		tasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "homeru_tasks_completed_total",
			Help: "完了されたタスクの合計数",
		}),
		studyMinutes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "homeru_study_minutes_total",
			Help: "記録された勉強分数の合計",
		}),
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "homeru_purchases_total",
			Help: "コスメティック購入の種別ごとの合計数",
		}, []string{"kind"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "homeru_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.tasksCompleted,
		c.studyMinutes,
		c.purchases,
		c.httpStatus,
	)

	return c
}

// RecordTaskCompleted はタスク完了を記録する。
func (c *Collector) RecordTaskCompleted() {
	c.tasksCompleted.Inc()
}

// RecordStudyMinutes は勉強セッション終了時の分数を記録する。
func (c *Collector) RecordStudyMinutes(minutes int) {
	c.studyMinutes.Add(float64(minutes))
}

// RecordPurchase はコスメティック購入を種別付きで記録する。
func (c *Collector) RecordPurchase(kind string) {
	c.purchases.WithLabelValues(kind).Inc()
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
