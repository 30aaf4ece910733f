package protocol

// Metric 单个指标读数
type Metric struct {
	Name  string
	Value float32
}

// Sample 同一时刻采集的一组指标，按插入顺序保存，名称唯一
type Sample []Metric

// Set 写入指标；名称已存在时覆盖原值并保持原位置
func (s Sample) Set(name string, value float32) Sample {
	for i := range s {
		if s[i].Name == name {
			s[i].Value = value
			return s
		}
	}
	return append(s, Metric{Name: name, Value: value})
}

// Get 按名称读取指标
func (s Sample) Get(name string) (float32, bool) {
	for _, m := range s {
		if m.Name == name {
			return m.Value, true
		}
	}
	return 0, false
}

// Names 按顺序返回所有指标名
func (s Sample) Names() []string {
	names := make([]string, 0, len(s))
	for _, m := range s {
		names = append(names, m.Name)
	}
	return names
}

// Map 转成 map 形式（丢失顺序）
func (s Sample) Map() map[string]float32 {
	out := make(map[string]float32, len(s))
	for _, m := range s {
		out[m.Name] = m.Value
	}
	return out
}
