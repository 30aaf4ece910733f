package collector

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/strngrthnall/bridge-telemetria/pkg/metrics"
	"github.com/strngrthnall/bridge-telemetria/pkg/protocol"
)

// Sampler 指标采集器：按固定的种类枚举顺序读取所有已注册数据源，
// 每次调用都是瞬时快照，调用之间不保留状态
type Sampler struct {
	sources []Source
	logger  *zap.Logger
	metrics *metrics.AgentMetrics
}

// NewSampler 创建采集器；m 可以为 nil
func NewSampler(logger *zap.Logger, m *metrics.AgentMetrics) *Sampler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sampler{logger: logger, metrics: m}
}

// Register 注册数据源（同一种类只能注册一次），并保持按 Kind 排序
func (s *Sampler) Register(src Source) {
	for _, existing := range s.sources {
		if existing.Kind() == src.Kind() {
			s.logger.Warn("source already registered, skip", zap.Stringer("kind", src.Kind()))
			return
		}
	}
	s.sources = append(s.sources, src)
	sort.SliceStable(s.sources, func(i, j int) bool {
		return s.sources[i].Kind() < s.sources[j].Kind()
	})
	s.logger.Debug("registered source", zap.Stringer("kind", src.Kind()))
}

// Kinds 已注册种类（枚举顺序）
func (s *Sampler) Kinds() []protocol.Kind {
	kinds := make([]protocol.Kind, 0, len(s.sources))
	for _, src := range s.sources {
		kinds = append(kinds, src.Kind())
	}
	return kinds
}

// Sample 读取所有数据源，返回每个种类一条指标。
// 从不返回错误：读取失败或非有限值记为 0 并记录告警
func (s *Sampler) Sample(ctx context.Context) protocol.Sample {
	return s.AppendSample(ctx, make(protocol.Sample, 0, len(s.sources)))
}

// AppendSample 与 Sample 相同，但复用调用方提供的切片
func (s *Sampler) AppendSample(ctx context.Context, dst protocol.Sample) protocol.Sample {
	dst = dst[:0]
	for _, src := range s.sources {
		token := src.Kind().Token()
		start := time.Now()
		v, err := src.Read(ctx)
		s.metrics.ObserveCollect(token, time.Since(start), err)

		switch {
		case err != nil:
			s.logger.Warn("read host metric failed", zap.String("kind", token), zap.Error(err))
			v = 0
		case math.IsNaN(float64(v)) || math.IsInf(float64(v), 0):
			s.logger.Warn("host metric is not finite, reporting 0", zap.String("kind", token),
				zap.Float32("value", v))
			v = 0
		}
		s.metrics.SetValue(token, v)
		dst = append(dst, protocol.Metric{Name: token, Value: v})
	}
	return dst
}
