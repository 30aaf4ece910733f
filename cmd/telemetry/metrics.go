package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/strngrthnall/bridge-telemetria/internal/server"
	"github.com/strngrthnall/bridge-telemetria/pkg/config"
)

func initMetricsFlags(f *pflag.FlagSet) {
	f.Bool("metrics.enable", defaultCfg.Metrics.Enable, "-> Serve /metrics and /health over HTTP | 启动自监控HTTP服务")
	f.String("metrics.addr", defaultCfg.Metrics.Addr, "-> HTTP listening address | HTTP监听地址")
	f.Bool("metrics.enable-process", defaultCfg.Metrics.EnableProcess, "-> Register process metrics | 注册进程指标")
}

// startMetricsServer metrics.enable 为 false 时返回 nil
func startMetricsServer(cfg config.MetricsConfig, service string, reg *prometheus.Registry,
	logger *zap.Logger) (*server.Server, error) {
	if !cfg.Enable {
		return nil, nil
	}
	srv := server.NewHTTPServer(cfg.Addr, service, reg, logger)
	if err := srv.Start(); err != nil {
		return nil, err
	}
	return srv, nil
}
