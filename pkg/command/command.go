// Package command collector 的终端交互命令（E 打开指标页、H 帮助、Q 退出）。
// 命令只触发副作用动作，不触碰会话状态。
package command

import "strings"

type Command int

const (
	Empty Command = iota
	Unknown
	OpenBrowser
	Help
	Quit
)

// Parse 解析一行输入（去除首尾空白，不区分大小写）
func Parse(line string) Command {
	switch strings.ToUpper(strings.TrimSpace(line)) {
	case "":
		return Empty
	case "E":
		return OpenBrowser
	case "H", "HELP":
		return Help
	case "Q", "QUIT", "EXIT":
		return Quit
	default:
		return Unknown
	}
}

func (c Command) String() string {
	switch c {
	case Empty:
		return "empty"
	case OpenBrowser:
		return "open-browser"
	case Help:
		return "help"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}
