package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrNotObject  = errors.New("record is not a JSON object")
	ErrNotNumber  = errors.New("metric value is not a number")
	ErrTrailing   = errors.New("unexpected data after record")
	ErrOutOfRange = errors.New("metric value out of float32 range")
)

// DecodeError 记录内容非法；调用方应记录日志并丢弃该行，不能中断会话
type DecodeError struct {
	Line string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode record: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode 把一行文本解析为 Sample，保持键在线路上的顺序。
// 重复的键以最后一次出现的值为准。除"字符串 -> 有限数值"外不做任何校验
func Decode(line string) (Sample, error) {
	s, err := decode(line)
	if err != nil {
		return nil, &DecodeError{Line: line, Err: err}
	}
	return s, nil
}

func decode(line string) (Sample, error) {
	dec := json.NewDecoder(strings.NewReader(line))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, ErrNotObject
	}

	s := Sample{}
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, ErrNotObject
		}

		tok, err = dec.Token()
		if err != nil {
			return nil, err
		}
		num, ok := tok.(json.Number)
		if !ok {
			return nil, fmt.Errorf("%w: key %q", ErrNotNumber, name)
		}
		v, err := strconv.ParseFloat(string(num), 32)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %s", ErrOutOfRange, name, num)
		}
		s = s.Set(name, float32(v))
	}

	// 读取结尾的 '}'
	if _, err = dec.Token(); err != nil {
		return nil, err
	}
	if _, err = dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailing
	}
	return s, nil
}
