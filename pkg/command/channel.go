package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Channel 从输入逐行读取命令并执行
type Channel struct {
	in     io.Reader
	out    io.Writer
	url    string
	open   Opener
	quit   func()
	logger *zap.Logger
}

// NewChannel url 为 E 命令打开的地址；quit 在 Q 命令时调用（通常是取消根 context）
func NewChannel(in io.Reader, out io.Writer, url string, open Opener, quit func(), logger *zap.Logger) *Channel {
	if open == nil {
		open = OpenURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Channel{in: in, out: out, url: url, open: open, quit: quit, logger: logger}
}

// PrintHelp 输出命令说明
func (c *Channel) PrintHelp() {
	rule := strings.Repeat("=", 50)
	fmt.Fprintf(c.out, "\n%s\nCOMMANDS\n%s\n", rule, rule)
	fmt.Fprintf(c.out, "E        - open %s in the browser\n", c.url)
	fmt.Fprintln(c.out, "H, HELP  - show this help")
	fmt.Fprintln(c.out, "Q, QUIT  - stop the collector")
	fmt.Fprintln(c.out, rule)
}

// Run 读取命令直到输入结束、收到 Q 或 ctx 取消
func (c *Channel) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(c.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			return err
		case line := <-lines:
			if stop := c.handle(line); stop {
				return nil
			}
		}
	}
}

func (c *Channel) handle(line string) bool {
	cmd := Parse(line)
	switch cmd {
	case Empty:
	case OpenBrowser:
		if err := c.open(c.url); err != nil {
			c.logger.Warn("open browser failed", zap.String("url", c.url), zap.Error(err))
		} else {
			c.logger.Info("opened browser", zap.String("url", c.url))
		}
	case Help:
		c.PrintHelp()
	case Quit:
		c.logger.Info("quit requested from terminal")
		if c.quit != nil {
			c.quit()
		}
		return true
	default:
		c.logger.Warn("unrecognised command, type H for help", zap.String("input", strings.TrimSpace(line)))
	}
	return false
}
