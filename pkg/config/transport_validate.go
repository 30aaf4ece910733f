package config

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// Validate 传输配置校验
func (t *TransportConfig) Validate() error {
	if err := valid.Struct(t); err != nil {
		return err
	}
	// 校验Addr格式(必须是 ":port" 或 "ip:port")
	if t.Addr == "" {
		return errors.New("transport.addr cannot be empty")
	}
	if _, err := net.ResolveTCPAddr("tcp", t.Addr); err != nil {
		return fmt.Errorf("transport.addr format invalid (expected: :port or ip:port), got %s: %w", t.Addr, err)
	}
	return nil
}

// Validate 采集端配置校验
func (a *AgentConfig) Validate() error {
	if err := valid.Struct(a); err != nil {
		return err
	}
	// 采集间隔，(最小10毫秒，最大1小时，避免过频/过久)
	if a.Interval < 10*time.Millisecond || a.Interval > time.Hour {
		return fmt.Errorf("agent.interval must be between 10ms and 1h, got %s", a.Interval)
	}
	// 至少启用一个指标，否则没有意义
	if !a.Metrics.CPU && !a.Metrics.Mem {
		return errors.New("at least one metric must be enabled (agent.metrics.cpu/agent.metrics.mem)")
	}
	r := a.Reconnect
	if r.MaxAttempts > 1 && r.MaxBackoff < r.Backoff {
		return fmt.Errorf("agent.reconnect.max-backoff (%s) must not be smaller than agent.reconnect.backoff (%s)",
			r.MaxBackoff, r.Backoff)
	}
	return nil
}

// Validate 自监控配置校验（未启用时不校验地址）
func (m *MetricsConfig) Validate() error {
	if !m.Enable {
		return nil
	}
	if _, err := net.ResolveTCPAddr("tcp", m.Addr); err != nil {
		return fmt.Errorf("metrics.addr format invalid (expected: :port or ip:port), got %s: %w", m.Addr, err)
	}
	return nil
}
