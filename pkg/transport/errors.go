package transport

import (
	"errors"
	"fmt"
)

// ErrNotConnected 尚未建立连接或连接已关闭
var ErrNotConnected = errors.New("not connected")

// TransportError 连接/发送/重连失败。Op 为 connect、send 或 reconnect
type TransportError struct {
	Op   string
	Addr string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
