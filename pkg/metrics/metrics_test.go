package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAgentMetrics(t *testing.T) {
	f, reg := NewTestFactory()
	m := f.NewAgentMetrics()

	m.RecordSent()
	m.RecordSent()
	m.SendFailed()
	m.Reconnected(true)
	m.Reconnected(false)
	m.SetState(2)
	m.ObserveCollect("CPU", time.Millisecond, nil)
	m.ObserveCollect("CPU", time.Millisecond, errors.New("boom"))
	m.SetValue("MEM", 1024)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.RecordsSent))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SendFailures))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Reconnects.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Reconnects.WithLabelValues("failure")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ConnState))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CollectErrors.WithLabelValues("CPU")))
	assert.Equal(t, float64(1024), testutil.ToFloat64(m.LastValue.WithLabelValues("MEM")))

	count, err := testutil.GatherAndCount(reg, "agent_collect_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSessionMetrics(t *testing.T) {
	f, _ := NewTestFactory()
	m := f.NewSessionMetrics()

	m.SessionStarted()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ActiveSession))
	m.Decoded(map[string]float32{"CPU": 12.5})
	m.DecodeFailed()
	m.EncodingFailed()
	m.LineTooLong()
	m.BlankLine()
	m.SessionEnded(true)

	assert.Equal(t, float64(0), testutil.ToFloat64(m.ActiveSession))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Sessions))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SessionErrors))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RecordsDecoded))
	assert.Equal(t, float64(12.5), testutil.ToFloat64(m.LastValue.WithLabelValues("CPU")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DecodeErrors))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.EncodingErrors))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.OversizedLines))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.BlankLines))
}

func TestDecodedLabelsAreBounded(t *testing.T) {
	f, _ := NewTestFactory()
	m := f.NewSessionMetrics()

	m.Decoded(map[string]float32{"memory": 2048, "FAN": 1, "xyz": 2})
	for i := 0; i < 100; i++ {
		m.Decoded(map[string]float32{fmt.Sprintf("peer-%d", i): float32(i)})
	}

	// 别名归一为 token，未知名称只占一个 series
	assert.Equal(t, 2, testutil.CollectAndCount(m.LastValue))
	assert.Equal(t, float64(2048), testutil.ToFloat64(m.LastValue.WithLabelValues("MEM")))
	assert.Equal(t, float64(99), testutil.ToFloat64(m.LastValue.WithLabelValues("other")))
	assert.Equal(t, float64(101), testutil.ToFloat64(m.RecordsDecoded))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var a *AgentMetrics
	var s *SessionMetrics
	assert.NotPanics(t, func() {
		a.RecordSent()
		a.Reconnected(false)
		a.ObserveCollect("CPU", 0, nil)
		s.SessionStarted()
		s.Decoded(map[string]float32{"CPU": 1})
		s.SessionEnded(false)
	})
}

func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	reg := NewPromRegistry(prometheus.NewRegistry())
	f := NewMetricFactory(reg)
	f.NewSessionMetrics()
	assert.Panics(t, func() { f.NewSessionMetrics() })
}
