package protocol

import "strings"

// Kind 已知的指标种类；agent 只发送 CPU 和 MEM，其余种类由 collector 识别展示
type Kind int

const (
	KindUnknown Kind = iota
	KindCPU
	KindMemory
	KindDisk
	KindNetwork
	KindTemperature
)

var kindTokens = map[Kind]string{
	KindCPU:         "CPU",
	KindMemory:      "MEM",
	KindDisk:        "DISK",
	KindNetwork:     "NET",
	KindTemperature: "TEMP",
}

// 线路上可接受的别名（大小写不敏感）
var kindAliases = map[string]Kind{
	"CPU":         KindCPU,
	"MEM":         KindMemory,
	"MEMORY":      KindMemory,
	"DISK":        KindDisk,
	"STORAGE":     KindDisk,
	"NET":         KindNetwork,
	"NETWORK":     KindNetwork,
	"TEMP":        KindTemperature,
	"TEMPERATURE": KindTemperature,
}

// Token 线路上使用的固定大写名称
func (k Kind) Token() string {
	if t, ok := kindTokens[k]; ok {
		return t
	}
	return "UNKNOWN"
}

func (k Kind) String() string { return k.Token() }

// ParseKind 把指标名解析为种类，未识别时返回 KindUnknown, false
func ParseKind(name string) (Kind, bool) {
	k, ok := kindAliases[strings.ToUpper(strings.TrimSpace(name))]
	return k, ok
}
