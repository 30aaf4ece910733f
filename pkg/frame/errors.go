package frame

import (
	"errors"
	"fmt"
)

// ErrLineTooLong 单行超过最大长度，已丢弃到下一个换行符
var ErrLineTooLong = errors.New("line exceeds maximum length")

// EncodingError 行内容不是合法 UTF-8，可恢复：跳过该行继续读取
type EncodingError struct {
	Offset int64 // 该行在流中的起始字节偏移
	Len    int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("invalid utf-8 in line at offset %d (%d bytes)", e.Offset, e.Len)
}

// FatalReadError 非编码类 I/O 错误，会话必须结束
type FatalReadError struct {
	Err error
}

func (e *FatalReadError) Error() string {
	return "read failed: " + e.Err.Error()
}

func (e *FatalReadError) Unwrap() error { return e.Err }
