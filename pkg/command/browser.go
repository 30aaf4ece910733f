package command

import (
	"os/exec"
	"runtime"
)

// Opener 打开 URL 的动作，测试中替换
type Opener func(url string) error

// OpenURL 使用系统默认浏览器打开 url，不等待浏览器退出
func OpenURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/C", "start", "", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
