package collector

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostProvider 主机指标数据源接口，隔离 gopsutil，便于单测替换为假实现
type HostProvider interface {
	// PerCPUPercent 刷新并返回每个逻辑核心的当前使用率（0-100）
	PerCPUPercent(ctx context.Context) ([]float64, error)
	// UsedMemoryKB 刷新并返回当前已用内存（KB）
	UsedMemoryKB(ctx context.Context) (uint64, error)
}

// gopsutilProvider 基于 gopsutil 的实现
type gopsutilProvider struct{}

// NewHostProvider 创建读取本机指标的 HostProvider
func NewHostProvider() HostProvider {
	return gopsutilProvider{}
}

// PerCPUPercent interval=0 时 gopsutil 与上一次调用的 CPU 时间做差
func (gopsutilProvider) PerCPUPercent(ctx context.Context) ([]float64, error) {
	usage, err := cpu.PercentWithContext(ctx, 0, true)
	if err != nil {
		return nil, fmt.Errorf("get per-cpu usage failed: %w", err)
	}
	return usage, nil
}

func (gopsutilProvider) UsedMemoryKB(ctx context.Context) (uint64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("get virtual memory failed: %w", err)
	}
	return vm.Used / 1024, nil
}
