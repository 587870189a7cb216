// Package metrics 提供 Prometheus HTTP 与业务指标
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/burbuqebeqiraj/PlusAPI/config"
)

// 登录结果标签
const (
	LoginSuccess = "success"
	LoginFailed  = "failed"
	LoginLocked  = "locked"
	LoginError   = "error"
)

// Metrics 独立 Registry，避免与默认全局指标冲突
type Metrics struct {
	registry   *prometheus.Registry
	httpReqCnt *prometheus.CounterVec
	httpDur    *prometheus.HistogramVec
	httpInfl   *prometheus.GaugeVec
	loginCnt   *prometheus.CounterVec
}

// New 创建指标集合并注册进程与 Go 运行时采集器
func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: buckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"}, []string{"route"})
	loginCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "login_attempts_total"}, []string{"result"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl, loginCnt)

	return &Metrics{
		registry:   r,
		httpReqCnt: httpReqCnt,
		httpDur:    httpDur,
		httpInfl:   httpInfl,
		loginCnt:   loginCnt,
	}
}

// Middleware 记录请求数、耗时与并发数，按路由模板聚合
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		inflight := m.httpInfl.WithLabelValues(route)
		inflight.Inc()
		defer inflight.Dec()
		start := time.Now()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	}
}

// LoginAttempt 记录一次登录结果
func (m *Metrics) LoginAttempt(result string) {
	m.loginCnt.WithLabelValues(result).Inc()
}

// Handler 暴露 /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry 返回底层 Registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
