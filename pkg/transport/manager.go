package transport

import (
	"bufio"
	"context"
	"net"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/strngrthnall/bridge-telemetria/pkg/metrics"
)

// Dialer 建立 TCP 连接，*net.Dialer 即满足
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Options Manager 构造参数，零值字段使用默认实现
type Options struct {
	Addr        string
	DialTimeout time.Duration
	Backoff     time.Duration // 重连前等待
	MaxBackoff  time.Duration // 连续重连失败时等待翻倍的上限
	Dialer      Dialer
	Clock       clockwork.Clock
	Logger      *zap.Logger
	Metrics     *metrics.AgentMetrics
	WriteBuffer int
}

// Manager agent 到 collector 的单条 TCP 连接：
// 发送 = 写入缓冲 + flush，失败进入 Reconnecting，由调用方决定是否 Reconnect
type Manager struct {
	opts Options

	sendMu sync.Mutex // 串行化 Send 的写入，I/O 期间不持有 mu

	mu       sync.Mutex
	conn     net.Conn
	w        *bufio.Writer
	state    State
	failures int // 连续重连失败次数
}

func NewManager(opts Options) *Manager {
	if opts.Dialer == nil {
		opts.Dialer = &net.Dialer{}
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.WriteBuffer <= 0 {
		opts.WriteBuffer = 4096
	}
	return &Manager{opts: opts, state: Disconnected}
}

func (m *Manager) Addr() string { return m.opts.Addr }

// State 当前连接状态
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) setState(s State) {
	m.state = s
	m.opts.Metrics.SetState(int(s))
}

// Connect 建立初始连接
func (m *Manager) Connect(ctx context.Context) error {
	conn, err := m.dial(ctx)
	if err != nil {
		return &TransportError{Op: "connect", Addr: m.opts.Addr, Err: err}
	}

	m.mu.Lock()
	m.attach(conn)
	m.mu.Unlock()

	m.opts.Logger.Info("connected to collector", zap.String("addr", m.opts.Addr),
		zap.String("local", conn.LocalAddr().String()))
	return nil
}

// Send 写入完整记录并立即 flush，返回时记录要么已交给内核，要么返回 TransportError。
// 写入期间不持有状态锁，State / Close 不会被阻塞的对端拖住
func (m *Manager) Send(record []byte) error {
	m.sendMu.Lock()
	defer m.sendMu.Unlock()

	m.mu.Lock()
	if m.conn == nil || m.state != Connected {
		m.mu.Unlock()
		return &TransportError{Op: "send", Addr: m.opts.Addr, Err: ErrNotConnected}
	}
	w := m.w
	m.mu.Unlock()

	_, err := w.Write(record)
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		m.mu.Lock()
		// 写入期间已被 Reconnect 替换的连接不回退状态
		if m.w == w && m.state == Connected {
			m.setState(Reconnecting)
		}
		m.mu.Unlock()
		m.opts.Metrics.SendFailed()
		return &TransportError{Op: "send", Addr: m.opts.Addr, Err: err}
	}
	m.opts.Metrics.RecordSent()
	return nil
}

// Reconnect 关闭旧连接，等待退避时间后重新拨号。
// 连续失败时等待时间翻倍（不超过 MaxBackoff），成功后清零
func (m *Manager) Reconnect(ctx context.Context) error {
	m.mu.Lock()
	m.closeLocked()
	m.setState(Reconnecting)
	wait := m.backoffLocked()
	m.mu.Unlock()

	m.opts.Logger.Info("reconnecting", zap.String("addr", m.opts.Addr), zap.Duration("backoff", wait))
	if wait > 0 {
		select {
		case <-m.opts.Clock.After(wait):
		case <-ctx.Done():
			return &TransportError{Op: "reconnect", Addr: m.opts.Addr, Err: ctx.Err()}
		}
	}

	conn, err := m.dial(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.failures++
		m.opts.Metrics.Reconnected(false)
		return &TransportError{Op: "reconnect", Addr: m.opts.Addr, Err: err}
	}
	m.attach(conn)
	m.failures = 0
	m.opts.Metrics.Reconnected(true)
	m.opts.Logger.Info("reconnected to collector", zap.String("addr", m.opts.Addr))
	return nil
}

// Close 关闭连接，进入 Disconnected
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.closeLocked()
	m.setState(Disconnected)
	return err
}

func (m *Manager) backoffLocked() time.Duration {
	wait := m.opts.Backoff
	for i := 0; i < m.failures && wait > 0; i++ {
		wait *= 2
		if m.opts.MaxBackoff > 0 && wait >= m.opts.MaxBackoff {
			return m.opts.MaxBackoff
		}
	}
	return wait
}

func (m *Manager) attach(conn net.Conn) {
	m.conn = conn
	// 每条连接独立的 writer，旧 writer 可能仍被进行中的 Send 使用
	m.w = bufio.NewWriterSize(conn, m.opts.WriteBuffer)
	m.setState(Connected)
}

func (m *Manager) closeLocked() error {
	if m.conn == nil {
		return nil
	}
	err := m.conn.Close()
	m.conn = nil
	return err
}

func (m *Manager) dial(ctx context.Context) (net.Conn, error) {
	if m.opts.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opts.DialTimeout)
		defer cancel()
	}
	return m.opts.Dialer.DialContext(ctx, "tcp", m.opts.Addr)
}
