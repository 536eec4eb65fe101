// Package metrics は認証ゲートウェイの Prometheus メトリクスを提供します。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "authgate"

// セッション解決の結果ラベル
const (
	ResolutionAuthenticated = "authenticated"
	ResolutionAnonymous     = "anonymous"
	ResolutionError         = "error"
)

// リレー結果のラベル
const (
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
	OutcomeSucceeded = "succeeded"
)

// Metrics はゲートウェイが記録するコレクターをまとめたものです。
// nil レシーバーでも呼び出せるので、テストでは省略できます。
type Metrics struct {
	registry *prometheus.Registry

	ProviderRequestsTotal   *prometheus.CounterVec
	ProviderRequestDuration *prometheus.HistogramVec
	SessionResolutionsTotal *prometheus.CounterVec
	RelayOutcomesTotal      *prometheus.CounterVec
}

// New は専用レジストリにコレクターを登録して Metrics を作成します。
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		ProviderRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Total number of calls made to the authentication provider.",
		}, []string{"operation", "status"}),
		ProviderRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Latency of calls made to the authentication provider.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		SessionResolutionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_resolutions_total",
			Help:      "Session lookups performed per request, by result.",
		}, []string{"result"}),
		RelayOutcomesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_outcomes_total",
			Help:      "Terminal states of sign-up and sign-in submissions.",
		}, []string{"flow", "outcome"}),
	}
}

// Handler は /metrics 用のハンドラーを返します。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveProviderCall はプロバイダー呼び出しを記録します。
// 通信エラーでステータスが得られない場合は statusCode に 0 を渡します。
func (m *Metrics) ObserveProviderCall(operation string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	m.ProviderRequestsTotal.WithLabelValues(operation, status).Inc()
	m.ProviderRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveResolution はセッション解決の結果を記録します。
func (m *Metrics) ObserveResolution(result string) {
	if m == nil {
		return
	}
	m.SessionResolutionsTotal.WithLabelValues(result).Inc()
}

// ObserveRelay はサインアップ/サインインの終端状態を記録します。
func (m *Metrics) ObserveRelay(flow, outcome string) {
	if m == nil {
		return
	}
	m.RelayOutcomesTotal.WithLabelValues(flow, outcome).Inc()
}
