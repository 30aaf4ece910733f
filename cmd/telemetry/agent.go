package telemetry

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/strngrthnall/bridge-telemetria/pkg/agent"
	"github.com/strngrthnall/bridge-telemetria/pkg/collector"
	"github.com/strngrthnall/bridge-telemetria/pkg/config"
	"github.com/strngrthnall/bridge-telemetria/pkg/logger"
	"github.com/strngrthnall/bridge-telemetria/pkg/registers"
	"github.com/strngrthnall/bridge-telemetria/pkg/signal"
	"github.com/strngrthnall/bridge-telemetria/pkg/transport"
	"github.com/strngrthnall/bridge-telemetria/pkg/util"
)

func newAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Sample host CPU/memory and stream records to the collector",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfigWithCli(cmd)
			if err != nil {
				return err
			}
			return runAgent(cmd.Context(), cfg)
		},
	}
	initAgentFlags(cmd.Flags())
	return cmd
}

func initAgentFlags(f *pflag.FlagSet) {
	a := defaultCfg.Agent
	f.Duration("agent.interval", a.Interval, "-> Sampling interval | 采样发送间隔")
	f.Int("agent.status-every", a.StatusEvery, "-> Log a status line every N records, 0 disables | 每N条打印状态")
	f.Int("agent.buffer-size", a.BufferSize, "-> Initial record buffer capacity (bytes) | 编码缓冲区容量")
	f.Duration("agent.reconnect.backoff", a.Reconnect.Backoff, "-> Wait before reconnecting | 重连前等待")
	f.Duration("agent.reconnect.max-backoff", a.Reconnect.MaxBackoff, "-> Upper bound of the doubled wait | 重连等待上限")
	f.Int("agent.reconnect.max-attempts", a.Reconnect.MaxAttempts, "-> Reconnect attempts before giving up, 1 = fail-stop | 重连次数")
	f.Bool("agent.metrics.cpu", a.Metrics.CPU, "-> Report mean CPU usage | 采集CPU")
	f.Bool("agent.metrics.mem", a.Metrics.Mem, "-> Report used memory (KB) | 采集内存")
}

func runAgent(ctx context.Context, cfg *config.Config) error {
	if _, err := logger.InitLogger(&cfg.Log, "agent"); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	util.PrintBanner(os.Stdout, "telemetry agent", "ColorBlue")
	log := logger.Named("agent")
	log.Info("log initialization successful", zap.String("path", cfg.Log.Path),
		zap.String("level", cfg.Log.Level), zap.String("format", cfg.Log.Format))

	ctx, stop := signal.WithShutdown(ctx, log)
	defer stop()

	promReg, factory := registers.InitPromRegistry(cfg.Metrics.EnableProcess)
	am := factory.NewAgentMetrics()
	httpServer, err := startMetricsServer(cfg.Metrics, "agent", promReg, logger.Named("http"))
	if err != nil {
		return fmt.Errorf("start HTTP server failed: %w", err)
	}
	if httpServer != nil {
		defer func() { _ = signal.Shutdown(log, signal.DefaultShutdownTimeout, httpServer.Shutdown) }()
	}

	sampler := collector.NewSampler(logger.Named("sampler"), am)
	if _, err := registers.RegisterSources(sampler, &cfg.Agent.Metrics, collector.NewHostProvider(), log); err != nil {
		return err
	}

	conn := transport.NewManager(transport.Options{
		Addr:        cfg.Transport.Addr,
		DialTimeout: cfg.Transport.DialTimeout,
		Backoff:     cfg.Agent.Reconnect.Backoff,
		MaxBackoff:  cfg.Agent.Reconnect.MaxBackoff,
		Logger:      logger.Named("transport"),
		Metrics:     am,
	})

	if err := agent.New(cfg.Agent, sampler, conn, nil, log).Run(ctx); err != nil {
		log.Error("agent stopped", zap.Error(err))
		return err
	}
	log.Info("agent exited")
	return nil
}
