package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// DefaultShutdownTimeout 优雅关闭的最长等待时间
const DefaultShutdownTimeout = 5 * time.Second

// WithShutdown 返回在收到 SIGINT/SIGTERM 时取消的 context
func WithShutdown(parent context.Context, logger *zap.Logger) (context.Context, context.CancelFunc) {
	return notify(parent, logger, syscall.SIGINT, syscall.SIGTERM)
}

func notify(parent context.Context, logger *zap.Logger, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, sigs...)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("received shutdown signal", zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// Shutdown 在超时控制下执行关闭函数，超时只记录日志
func Shutdown(logger *zap.Logger, timeout time.Duration, shutdownFunc func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting graceful shutdown...")
		errc <- shutdownFunc()
	}()

	select {
	case err := <-errc:
		if err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
			return err
		}
		logger.Info("graceful shutdown completed successfully")
		return nil
	case <-ctx.Done():
		logger.Error("graceful shutdown timed out", zap.Error(ctx.Err()))
		return ctx.Err()
	}
}
