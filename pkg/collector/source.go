package collector

import (
	"context"

	"github.com/strngrthnall/bridge-telemetria/pkg/protocol"
)

// Source 单一指标种类的数据源（每种 Kind 一个实现）
type Source interface {
	Kind() protocol.Kind
	Read(ctx context.Context) (float32, error)
}

// CPUSource CPU 平均使用率：所有核心使用率的算术平均，零核心时为 0
type CPUSource struct {
	host HostProvider
}

func NewCPUSource(host HostProvider) *CPUSource {
	return &CPUSource{host: host}
}

func (c *CPUSource) Kind() protocol.Kind { return protocol.KindCPU }

func (c *CPUSource) Read(ctx context.Context) (float32, error) {
	usage, err := c.host.PerCPUPercent(ctx)
	if err != nil {
		return 0, err
	}
	return Mean(usage), nil
}

// Mean 算术平均，空切片返回 0
func Mean(values []float64) float32 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return float32(total / float64(len(values)))
}

// MemSource 已用内存，单位保持主机原生的 KB，不做换算
type MemSource struct {
	host HostProvider
}

func NewMemSource(host HostProvider) *MemSource {
	return &MemSource{host: host}
}

func (m *MemSource) Kind() protocol.Kind { return protocol.KindMemory }

func (m *MemSource) Read(ctx context.Context) (float32, error) {
	used, err := m.host.UsedMemoryKB(ctx)
	if err != nil {
		return 0, err
	}
	return float32(used), nil
}
