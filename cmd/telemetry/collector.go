package telemetry

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/strngrthnall/bridge-telemetria/pkg/command"
	"github.com/strngrthnall/bridge-telemetria/pkg/config"
	"github.com/strngrthnall/bridge-telemetria/pkg/logger"
	"github.com/strngrthnall/bridge-telemetria/pkg/presenter"
	"github.com/strngrthnall/bridge-telemetria/pkg/registers"
	"github.com/strngrthnall/bridge-telemetria/pkg/session"
	"github.com/strngrthnall/bridge-telemetria/pkg/signal"
	"github.com/strngrthnall/bridge-telemetria/pkg/util"
)

func newCollectorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collector",
		Short: "Accept agent connections and display live telemetry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfigWithCli(cmd)
			if err != nil {
				return err
			}
			return runCollector(cmd.Context(), cfg)
		},
	}
	initCollectorFlags(cmd.Flags())
	return cmd
}

func initCollectorFlags(f *pflag.FlagSet) {
	c := defaultCfg.Collector
	f.Int("collector.read-buffer-size", c.ReadBufferSize, "-> Socket read buffer (bytes) | 读缓冲区大小")
	f.Int("collector.line-buffer-size", c.LineBufferSize, "-> Initial line buffer capacity (bytes) | 行缓冲区容量")
	f.Int("collector.max-line-bytes", c.MaxLineBytes, "-> Longer lines are discarded | 单行最大字节数")
	f.Duration("collector.read-timeout", c.ReadTimeout, "-> End a stalled session after this long, 0 disables | 读超时")
	f.Bool("collector.commands", c.Commands, "-> Read E/H/Q commands from a terminal stdin | 终端交互命令")
}

func runCollector(ctx context.Context, cfg *config.Config) error {
	if _, err := logger.InitLogger(&cfg.Log, "collector"); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	util.PrintBanner(os.Stdout, "telemetry collector", "ColorCyan")
	log := logger.Named("collector")
	log.Info("log initialization successful", zap.String("path", cfg.Log.Path),
		zap.String("level", cfg.Log.Level), zap.String("format", cfg.Log.Format))

	ctx, stop := signal.WithShutdown(ctx, log)
	defer stop()

	promReg, factory := registers.InitPromRegistry(cfg.Metrics.EnableProcess)
	sm := factory.NewSessionMetrics()
	httpServer, err := startMetricsServer(cfg.Metrics, "collector", promReg, logger.Named("http"))
	if err != nil {
		return fmt.Errorf("start HTTP server failed: %w", err)
	}
	metricsURL := "http://" + cfg.Metrics.Addr + "/"
	if httpServer != nil {
		metricsURL = "http://" + httpServer.Addr() + "/"
		defer func() { _ = signal.Shutdown(log, signal.DefaultShutdownTimeout, httpServer.Shutdown) }()
	}

	ln, err := session.Listen(ctx, cfg.Transport.Addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", cfg.Transport.Addr, err)
	}

	if cfg.Collector.Commands && presenter.IsTerminal(os.Stdin) {
		if httpServer == nil {
			log.Info("metrics server disabled, E will open a page nothing serves", zap.String("url", metricsURL))
		}
		ch := command.NewChannel(os.Stdin, os.Stdout, metricsURL, nil, stop, logger.Named("command"))
		ch.PrintHelp()
		go func() {
			if err := ch.Run(ctx); err != nil {
				log.Warn("command channel stopped", zap.Error(err))
			}
		}()
	}

	srv := session.NewServer(cfg.Collector, presenter.NewConsole(os.Stdout), logger.Named("session"), sm)
	if err := srv.Serve(ctx, ln); err != nil {
		log.Error("collector stopped", zap.Error(err))
		return err
	}
	log.Info("collector exited")
	return nil
}
