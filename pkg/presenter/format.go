package presenter

import (
	"fmt"

	"github.com/strngrthnall/bridge-telemetria/pkg/protocol"
)

const (
	kbPerMB = 1024
	kbPerGB = 1024 * 1024
)

// FormatMemory 把 KB 换算为 KB/MB/GB（1024 进制，两位小数）
func FormatMemory(kb float64) string {
	switch {
	case kb >= kbPerGB:
		return fmt.Sprintf("%.2f GB", kb/kbPerGB)
	case kb >= kbPerMB:
		return fmt.Sprintf("%.2f MB", kb/kbPerMB)
	default:
		return fmt.Sprintf("%.2f KB", kb)
	}
}

// FormatValue 按指标名（不区分大小写）格式化数值；未识别的名字保留两位小数
func FormatValue(name string, value float32) string {
	v := float64(value)
	kind, _ := protocol.ParseKind(name)
	switch kind {
	case protocol.KindCPU, protocol.KindDisk:
		return fmt.Sprintf("%.1f%%", v)
	case protocol.KindMemory:
		return FormatMemory(v)
	case protocol.KindNetwork:
		return fmt.Sprintf("%.2f MB/s", v)
	case protocol.KindTemperature:
		return fmt.Sprintf("%.1f°C", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// Label 指标的显示名称，未识别的名字原样返回
func Label(name string) string {
	kind, ok := protocol.ParseKind(name)
	if !ok {
		return name
	}
	switch kind {
	case protocol.KindCPU:
		return "CPU"
	case protocol.KindMemory:
		return "Memory"
	case protocol.KindDisk:
		return "Disk"
	case protocol.KindNetwork:
		return "Network"
	case protocol.KindTemperature:
		return "Temperature"
	default:
		return name
	}
}

// FormatMetric 单行展示文本，例如 "CPU: 45.3%"、"Memory: 2.00 MB"
func FormatMetric(name string, value float32) string {
	return Label(name) + ": " + FormatValue(name, value)
}
