// Package presenter 把解码后的样本渲染到终端。
package presenter

import (
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/strngrthnall/bridge-telemetria/pkg/protocol"
)

const ruleWidth = 50

// Presenter 样本展示接口，会话编排只依赖该接口
type Presenter interface {
	Present(peer string, sample protocol.Sample) error
}

// Console 终端展示：每个样本重绘一屏（仅终端下清屏），按线路顺序逐行输出
type Console struct {
	mu    sync.Mutex
	w     io.Writer
	out   *termenv.Output
	clear bool

	title lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	muted lipgloss.Style
}

// NewConsole w 不是终端时使用 ASCII 配色且不清屏，便于重定向到文件
func NewConsole(w io.Writer) *Console {
	tty := IsTerminal(w)
	var opts []termenv.OutputOption
	if !tty {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}
	r := lipgloss.NewRenderer(w, opts...)
	if !tty {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Console{
		w:     w,
		out:   termenv.NewOutput(w, opts...),
		clear: tty,
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label: r.NewStyle().Bold(true),
		value: r.NewStyle().Foreground(lipgloss.Color("10")),
		muted: r.NewStyle().Faint(true),
	}
}

// IsTerminal w 是否为终端（*os.File 且 isatty）
func IsTerminal(w any) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

func (c *Console) Present(peer string, sample protocol.Sample) error {
	rule := strings.Repeat("=", ruleWidth)

	var b strings.Builder
	b.WriteString(c.title.Render("TELEMETRY (live)"))
	b.WriteByte('\n')
	b.WriteString("Client: " + peer + "\n")
	b.WriteString(rule + "\n")
	if len(sample) == 0 {
		b.WriteString(c.muted.Render("no metrics received"))
		b.WriteByte('\n')
	}
	for _, m := range sample {
		b.WriteString(c.label.Render(Label(m.Name)+":") + " " + c.value.Render(FormatValue(m.Name, m.Value)))
		b.WriteByte('\n')
	}
	b.WriteString(rule + "\n")
	b.WriteString(c.muted.Render("Press Ctrl+C to exit"))
	b.WriteByte('\n')

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clear {
		c.out.ClearScreen()
	}
	_, err := io.WriteString(c.w, b.String())
	return err
}
