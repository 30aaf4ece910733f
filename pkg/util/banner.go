package util

import (
	"fmt"
	"io"

	"github.com/common-nighthawk/go-figure"
)

// 定义颜色常量
const (
	ColorReset  = "\x1b[0m"
	ColorRed    = "\x1b[1;31m"
	ColorGreen  = "\x1b[1;32m"
	ColorYellow = "\x1b[1;33m"
	ColorBlue   = "\x1b[1;34m"
	ColorCyan   = "\x1b[1;36m"
)

// 颜色名转 ANSI 颜色码，未知名称不着色
func colorCode(name string) string {
	switch name {
	case "ColorRed":
		return ColorRed
	case "ColorGreen":
		return ColorGreen
	case "ColorYellow":
		return ColorYellow
	case "ColorBlue":
		return ColorBlue
	case "ColorCyan":
		return ColorCyan
	default:
		return ""
	}
}

// Banner 生成 ASCII banner 的各行
func Banner(text string) []string {
	return figure.NewFigure(text, "", true).Slicify()
}

// PrintBanner 打印整体统一颜色的 ASCII banner；color 为空或未知时不输出颜色码
func PrintBanner(w io.Writer, text, color string) {
	ansi := colorCode(color)
	for _, line := range Banner(text) {
		if ansi == "" {
			fmt.Fprintln(w, line)
			continue
		}
		fmt.Fprintln(w, ansi+line+ColorReset)
	}
}
