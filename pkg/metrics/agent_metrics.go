package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AgentMetrics agent 自身监控指标。所有方法对 nil 接收者安全
type AgentMetrics struct {
	RecordsSent     prometheus.Counter
	SendFailures    prometheus.Counter
	Reconnects      *prometheus.CounterVec   // result: success/failure
	ConnState       prometheus.Gauge         // 0 disconnected, 1 connected, 2 reconnecting
	CollectErrors   *prometheus.CounterVec   // kind: CPU/MEM
	CollectDuration *prometheus.HistogramVec // kind: CPU/MEM
	LastValue       *prometheus.GaugeVec     // metric: 最近一次发送的值
}

// NewAgentMetrics 创建并注册 agent 指标
//
// 分桶说明：采集耗时使用 0.001s ~ 0.512s 的指数分桶，覆盖一次 gopsutil 读取的常见耗时
func (m *MetricFactory) NewAgentMetrics() *AgentMetrics {
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agent_collect_duration_seconds",
		Help:    "Duration of a single host metric read",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
	}, []string{"kind"})
	m.reg.MustRegister(h)

	return &AgentMetrics{
		RecordsSent:     m.counter("agent_records_sent_total", "Total records written and flushed to the collector"),
		SendFailures:    m.counter("agent_send_failures_total", "Total record sends that failed on write or flush"),
		Reconnects:      m.counterVec("agent_reconnects_total", "Reconnect attempts by result", "result"),
		ConnState:       m.gauge("agent_connection_state", "Connection state (0 disconnected, 1 connected, 2 reconnecting)"),
		CollectErrors:   m.counterVec("agent_collect_errors_total", "Total host metric read errors", "kind"),
		CollectDuration: h,
		LastValue:       m.gaugeVec("agent_sample_value", "Last sampled value per metric", "metric"),
	}
}

func (a *AgentMetrics) RecordSent() {
	if a == nil {
		return
	}
	a.RecordsSent.Inc()
}

func (a *AgentMetrics) SendFailed() {
	if a == nil {
		return
	}
	a.SendFailures.Inc()
}

func (a *AgentMetrics) Reconnected(ok bool) {
	if a == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	a.Reconnects.WithLabelValues(result).Inc()
}

func (a *AgentMetrics) SetState(state int) {
	if a == nil {
		return
	}
	a.ConnState.Set(float64(state))
}

func (a *AgentMetrics) ObserveCollect(kind string, took time.Duration, err error) {
	if a == nil {
		return
	}
	a.CollectDuration.WithLabelValues(kind).Observe(took.Seconds())
	if err != nil {
		a.CollectErrors.WithLabelValues(kind).Inc()
	}
}

func (a *AgentMetrics) SetValue(metric string, v float32) {
	if a == nil {
		return
	}
	a.LastValue.WithLabelValues(metric).Set(float64(v))
}
