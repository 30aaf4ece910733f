package protocol

import "strconv"

// Delimiter 记录结束符
const Delimiter = '\n'

const hexDigits = "0123456789abcdef"

// Encoder 把 Sample 序列化为一条 Record，并复用内部缓冲区
type Encoder struct {
	buf []byte
}

// NewEncoder 创建编码器，capacity 为缓冲区初始容量
func NewEncoder(capacity int) *Encoder {
	return &Encoder{buf: make([]byte, 0, capacity)}
}

// Encode 清空缓冲区并写入一条记录。返回的切片在下一次调用前有效
func (e *Encoder) Encode(s Sample) []byte {
	e.buf = AppendRecord(e.buf[:0], s)
	return e.buf
}

// AppendRecord 把记录追加到 dst：
// 键按 Sample 顺序输出，值为最短十进制表示（不加引号），末尾追加一个换行
func AppendRecord(dst []byte, s Sample) []byte {
	dst = append(dst, '{')
	for i, m := range s {
		if i > 0 {
			dst = append(dst, ", "...)
		}
		dst = appendString(dst, m.Name)
		dst = append(dst, ": "...)
		dst = strconv.AppendFloat(dst, float64(m.Value), 'f', -1, 32)
	}
	dst = append(dst, '}')
	return append(dst, Delimiter)
}

// appendString 以 JSON 字符串形式写入，转义引号、反斜杠和控制字符
func appendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		dst = append(dst, s[start:i]...)
		switch c {
		case '"', '\\':
			dst = append(dst, '\\', c)
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		}
		start = i + 1
	}
	dst = append(dst, s[start:]...)
	return append(dst, '"')
}
