package registers

import (
	"github.com/strngrthnall/bridge-telemetria/pkg/collector"
	"github.com/strngrthnall/bridge-telemetria/pkg/protocol"
)

// SourceRegistry 数据源注册目标（collector.Sampler 实现该接口）
// 后续扩展指标种类仅需实现 collector.Source 并在 modules 表中添加一条
type SourceRegistry interface {
	Register(src collector.Source) // 注册数据源
	Kinds() []protocol.Kind        // 已注册种类（枚举顺序）
}

// Module 数据源模块：开关 + 种类 + 构造函数
type Module struct {
	Enabled bool
	Kind    protocol.Kind
	NewFunc func() collector.Source
}
