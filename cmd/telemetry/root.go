package telemetry

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/strngrthnall/bridge-telemetria/pkg/config"
)

var defaultCfg = config.NewDefaultConfig()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "telemetry",
		Short:        "Host telemetry agent and collector (newline-delimited JSON over TCP)",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "-> Config file path, optional | 配置文件路径（可选）")
	// 注册分组 flag
	initTransportFlags(root.PersistentFlags())
	initMetricsFlags(root.PersistentFlags())
	initLogFlags(root.PersistentFlags())

	root.AddCommand(newAgentCmd(), newCollectorCmd())
	return root
}

// Execute 执行根命令；任何启动或运行错误以非零状态退出
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
