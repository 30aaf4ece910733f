package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/strngrthnall/bridge-telemetria/pkg/protocol"
)

// otherLabel 未识别指标名统一归入的标签，避免对端控制 label 基数
const otherLabel = "other"

// SessionMetrics collector 侧会话指标。所有方法对 nil 接收者安全
type SessionMetrics struct {
	Sessions       prometheus.Counter
	SessionErrors  prometheus.Counter
	ActiveSession  prometheus.Gauge
	RecordsDecoded prometheus.Counter
	DecodeErrors   prometheus.Counter
	EncodingErrors prometheus.Counter
	OversizedLines prometheus.Counter
	BlankLines     prometheus.Counter
	LastValue      *prometheus.GaugeVec // metric: 最近一次解码的值
}

// NewSessionMetrics 创建并注册 collector 指标
func (m *MetricFactory) NewSessionMetrics() *SessionMetrics {
	return &SessionMetrics{
		Sessions:       m.counter("collector_sessions_total", "Total accepted sessions"),
		SessionErrors:  m.counter("collector_session_errors_total", "Sessions ended by a fatal read error"),
		ActiveSession:  m.gauge("collector_session_active", "1 while a session is being served"),
		RecordsDecoded: m.counter("collector_records_decoded_total", "Total records decoded and presented"),
		DecodeErrors:   m.counter("collector_decode_errors_total", "Records discarded because of malformed content"),
		EncodingErrors: m.counter("collector_encoding_errors_total", "Lines discarded because of invalid text encoding"),
		OversizedLines: m.counter("collector_oversized_lines_total", "Lines discarded because they exceeded the maximum length"),
		BlankLines:     m.counter("collector_blank_lines_total", "Blank lines skipped by the frame reader"),
		LastValue:      m.gaugeVec("collector_sample_value", "Last decoded value per metric", "metric"),
	}
}

func (s *SessionMetrics) SessionStarted() {
	if s == nil {
		return
	}
	s.Sessions.Inc()
	s.ActiveSession.Set(1)
}

func (s *SessionMetrics) SessionEnded(fatal bool) {
	if s == nil {
		return
	}
	s.ActiveSession.Set(0)
	if fatal {
		s.SessionErrors.Inc()
	}
}

func (s *SessionMetrics) Decoded(values map[string]float32) {
	if s == nil {
		return
	}
	s.RecordsDecoded.Inc()
	for name, v := range values {
		s.LastValue.WithLabelValues(valueLabel(name)).Set(float64(v))
	}
}

// valueLabel 已知种类使用固定 token，其余归入 otherLabel
func valueLabel(name string) string {
	if kind, ok := protocol.ParseKind(name); ok {
		return kind.Token()
	}
	return otherLabel
}

func (s *SessionMetrics) DecodeFailed() {
	if s == nil {
		return
	}
	s.DecodeErrors.Inc()
}

func (s *SessionMetrics) EncodingFailed() {
	if s == nil {
		return
	}
	s.EncodingErrors.Inc()
}

func (s *SessionMetrics) LineTooLong() {
	if s == nil {
		return
	}
	s.OversizedLines.Inc()
}

func (s *SessionMetrics) BlankLine() {
	if s == nil {
		return
	}
	s.BlankLines.Inc()
}
