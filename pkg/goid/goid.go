package goid

import (
	"runtime"
	"strconv"
)

// GetGID 获取当前 goroutine 的 ID（解析 runtime.Stack 头部，无分配的快速版本）
func GetGID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	// 栈信息类似: "goroutine 123 [running]:\n"
	const prefix = len("goroutine ")
	var id uint64
	for i := prefix; i < len(b); i++ {
		c := b[i]
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}

// String GetGID 的字符串形式
func String() string {
	return strconv.FormatUint(GetGID(), 10)
}
