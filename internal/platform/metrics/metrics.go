// Package metrics はPrometheusによる取得・クエリの計測を提供します。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stock_advisor/internal/feature/advisor/domain/entity"
	"stock_advisor/internal/feature/advisor/usecase"
)

const namespace = "stock_advisor"

// Metrics はAdvisorのObserverを実装するPrometheusコレクタ群です。
type Metrics struct {
	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	queryTotal    *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	gatherer      prometheus.Gatherer
}

var _ usecase.Observer = (*Metrics)(nil)

// New はコレクタを reg に登録して返します。
// reg が prometheus.Gatherer も実装していれば Handler はそのレジストリを公開します。
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	m := &Metrics{
		fetchTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Upstream fetches by source and result.",
		}, []string{"source", "result"}),
		fetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Upstream fetch latency by source.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		queryTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_total",
			Help:      "Investment queries by kind and result.",
		}, []string{"kind", "result"}),
		queryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "End-to-end query latency by kind.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"kind"}),
		gatherer: prometheus.DefaultGatherer,
	}
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m
}

// ObserveFetch は上流取得1回分を記録します。
func (m *Metrics) ObserveFetch(source string, err error, elapsed time.Duration) {
	m.fetchTotal.WithLabelValues(source, result(err == nil)).Inc()
	m.fetchDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// ObserveQuery はクエリ1回分を記録します。
func (m *Metrics) ObserveQuery(kind entity.QueryKind, success bool, elapsed time.Duration) {
	m.queryTotal.WithLabelValues(string(kind), result(success)).Inc()
	m.queryDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

// Handler は /metrics 用のハンドラーを返します。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}
