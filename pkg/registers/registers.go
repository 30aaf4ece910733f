package registers

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/strngrthnall/bridge-telemetria/pkg/collector"
	"github.com/strngrthnall/bridge-telemetria/pkg/config"
	"github.com/strngrthnall/bridge-telemetria/pkg/metrics"
	"github.com/strngrthnall/bridge-telemetria/pkg/protocol"
)

// InitPromRegistry 创建 Prometheus 注册器与指标工厂
// promReg 用于 HTTP /metrics 暴露；factory 用于创建 agent/collector 自身指标。
// 不注册 Go 运行时指标，进程指标可选
func InitPromRegistry(enableProcess bool) (*prometheus.Registry, *metrics.MetricFactory) {
	promReg := prometheus.NewRegistry()
	if enableProcess {
		promReg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	}
	return promReg, metrics.NewMetricFactory(metrics.NewPromRegistry(promReg))
}

// RegisterSources 数据源注册统一入口（开关控制），返回已注册的种类名
func RegisterSources(reg SourceRegistry, cfg *config.AgentMetricsConfig, host collector.HostProvider,
	logger *zap.Logger) ([]string, error) {
	modules := []Module{
		{
			Enabled: cfg.CPU,
			Kind:    protocol.KindCPU,
			NewFunc: func() collector.Source { return collector.NewCPUSource(host) },
		},
		{
			Enabled: cfg.Mem,
			Kind:    protocol.KindMemory,
			NewFunc: func() collector.Source { return collector.NewMemSource(host) },
		},
	}

	for _, m := range modules {
		if !m.Enabled {
			logger.Debug("source disabled", zap.Stringer("kind", m.Kind))
			continue
		}
		reg.Register(m.NewFunc())
	}

	kinds := reg.Kinds()
	if len(kinds) == 0 {
		return nil, fmt.Errorf("no metric sources enabled; check agent.metrics")
	}
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.Token())
	}
	logger.Debug("all enabled sources registered", zap.Strings("sources", names))
	return names, nil
}
