// Package session collector 侧会话编排：顺序 accept，每个连接一条
// 读取 → 解码 → 展示 流水线，会话错误不会终止 collector。
package session

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/strngrthnall/bridge-telemetria/pkg/config"
	"github.com/strngrthnall/bridge-telemetria/pkg/frame"
	"github.com/strngrthnall/bridge-telemetria/pkg/metrics"
	"github.com/strngrthnall/bridge-telemetria/pkg/presenter"
	"github.com/strngrthnall/bridge-telemetria/pkg/protocol"
)

// accept 连续失败时的退避区间
const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

type Server struct {
	cfg       config.CollectorConfig
	presenter presenter.Presenter
	logger    *zap.Logger
	metrics   *metrics.SessionMetrics
}

func NewServer(cfg config.CollectorConfig, p presenter.Presenter, logger *zap.Logger, m *metrics.SessionMetrics) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{cfg: cfg, presenter: p, logger: logger, metrics: m}
}

// Listen 绑定 TCP 地址，失败即启动失败
func Listen(ctx context.Context, addr string) (net.Listener, error) {
	var lc net.ListenConfig
	return lc.Listen(ctx, "tcp", addr)
}

// ListenAndServe 绑定 addr 并阻塞服务，直到 ctx 取消
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := Listen(ctx, addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve 顺序处理连接：一个会话结束后才 accept 下一个。
// ctx 取消时关闭监听器与当前连接并返回 nil
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()
	defer ln.Close()

	s.logger.Info("collector listening", zap.String("addr", ln.Addr().String()))
	var tempDelay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Info("collector stopped accepting connections")
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			if tempDelay == 0 {
				tempDelay = minAcceptDelay
			} else {
				tempDelay *= 2
			}
			if tempDelay > maxAcceptDelay {
				tempDelay = maxAcceptDelay
			}
			s.logger.Warn("accept failed", zap.Error(err), zap.Duration("retry_in", tempDelay))
			select {
			case <-ctx.Done():
				s.logger.Info("collector stopped accepting connections")
				return nil
			case <-time.After(tempDelay):
			}
			continue
		}
		tempDelay = 0

		if err := s.ServeConn(ctx, conn); err != nil {
			s.logger.Warn("session ended with error, waiting for next client", zap.Error(err))
		}
	}
}

// ServeConn 服务单个连接直到 EOF 或致命读错误。
// 解码失败与编码错误只记录日志，不结束会话
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) error {
	peer := conn.RemoteAddr().String()
	log := s.logger.With(zap.String("peer", peer))

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	defer conn.Close()

	log.Info("client connected")
	s.metrics.SessionStarted()

	r := frame.NewReader(conn, frame.Options{
		ReadBufferSize: s.cfg.ReadBufferSize,
		LineBufferSize: s.cfg.LineBufferSize,
		MaxLineBytes:   s.cfg.MaxLineBytes,
		ReadTimeout:    s.cfg.ReadTimeout,
		Peer:           peer,
		Logger:         s.logger,
		Metrics:        s.metrics,
	})

	for {
		line, err := r.Next()
		if errors.Is(err, io.EOF) {
			log.Info("client disconnected")
			s.metrics.SessionEnded(false)
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				s.metrics.SessionEnded(false)
				return nil
			}
			log.Error("session read failed", zap.Error(err))
			s.metrics.SessionEnded(true)
			return err
		}

		sample, err := protocol.Decode(line)
		if err != nil {
			s.metrics.DecodeFailed()
			log.Warn("discarded malformed record", zap.String("data", line), zap.Error(err))
			continue
		}
		s.metrics.Decoded(sample.Map())
		if err := s.presenter.Present(peer, sample); err != nil {
			log.Warn("present sample failed", zap.Error(err))
		}
	}
}
