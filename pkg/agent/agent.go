// Package agent 采集端主循环：采样 → 编码 → 发送 → 等待间隔。
// 发送失败时尝试重连，重连全部失败则以原始发送错误终止（fail-stop）。
package agent

import (
	"context"
	"errors"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/strngrthnall/bridge-telemetria/pkg/config"
	"github.com/strngrthnall/bridge-telemetria/pkg/protocol"
)

// Sampler 指标采样（collector.Sampler 实现）
type Sampler interface {
	AppendSample(ctx context.Context, dst protocol.Sample) protocol.Sample
}

// Conn 到 collector 的连接（transport.Manager 实现）
type Conn interface {
	Connect(ctx context.Context) error
	Send(record []byte) error
	Reconnect(ctx context.Context) error
	Close() error
}

type Agent struct {
	cfg     config.AgentConfig
	sampler Sampler
	conn    Conn
	clock   clockwork.Clock
	logger  *zap.Logger
}

func New(cfg config.AgentConfig, sampler Sampler, conn Conn, clock clockwork.Clock, logger *zap.Logger) *Agent {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{cfg: cfg, sampler: sampler, conn: conn, clock: clock, logger: logger}
}

// Run 建立连接后循环发送，直到 ctx 取消（返回 nil）或发送失败且重连失败（返回原始发送错误）
func (a *Agent) Run(ctx context.Context) error {
	if err := a.conn.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		if err := a.conn.Close(); err != nil {
			a.logger.Debug("close connection", zap.Error(err))
		}
	}()

	a.logger.Info("telemetry collection started",
		zap.Duration("interval", a.cfg.Interval),
		zap.Int("max_reconnect_attempts", a.cfg.Reconnect.MaxAttempts))

	enc := protocol.NewEncoder(a.cfg.BufferSize)
	var (
		sample protocol.Sample
		sent   int
	)
	for {
		if ctx.Err() != nil {
			return nil
		}
		sample = a.sampler.AppendSample(ctx, sample)
		record := enc.Encode(sample)

		if err := a.conn.Send(record); err != nil {
			a.logger.Error("send telemetry failed", zap.Error(err))
			if rerr := a.reestablish(ctx); rerr != nil {
				if ctx.Err() != nil {
					return nil
				}
				a.logger.Error("reconnect failed, stopping agent", zap.Error(rerr))
				return err
			}
			sent = 0
		} else {
			sent++
			if a.cfg.StatusEvery > 0 && sent%a.cfg.StatusEvery == 0 {
				a.logger.Info("records sent", zap.Int("count", sent))
			}
		}

		select {
		case <-ctx.Done():
			a.logger.Info("telemetry collection stopped", zap.Int("sent_since_connect", sent))
			return nil
		case <-a.clock.After(a.cfg.Interval):
		}
	}
}

// reestablish 最多尝试 MaxAttempts 次重连，返回最后一次的错误
func (a *Agent) reestablish(ctx context.Context) error {
	attempts := max(a.cfg.Reconnect.MaxAttempts, 1)
	var err error
	for i := 1; i <= attempts; i++ {
		if err = a.conn.Reconnect(ctx); err == nil {
			a.logger.Info("connection re-established", zap.Int("attempt", i))
			return nil
		}
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return err
		}
		a.logger.Warn("reconnect attempt failed", zap.Int("attempt", i), zap.Int("max_attempts", attempts),
			zap.Error(err))
	}
	return err
}
