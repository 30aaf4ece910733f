package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var valid = validator.New()

// EnvPrefix 环境变量前缀（TELEMETRY_TRANSPORT_ADDR -> transport.addr）
const EnvPrefix = "TELEMETRY"

// Config 全局配置结构体（agent 与 collector 共用一份）
type Config struct {
	Transport TransportConfig `yaml:"transport" mapstructure:"transport" comment:"传输连接配置"`
	Agent     AgentConfig     `yaml:"agent" mapstructure:"agent" comment:"采集端配置"`
	Collector CollectorConfig `yaml:"collector" mapstructure:"collector" comment:"接收端配置"`
	Metrics   MetricsConfig   `yaml:"metrics" mapstructure:"metrics" comment:"自监控HTTP配置"`
	Log       ZapLogConfig    `yaml:"log" mapstructure:"log" comment:"日志配置"`
}

// TransportConfig 传输层配置：agent 连接该地址，collector 监听该地址
type TransportConfig struct {
	Addr        string        `yaml:"addr" mapstructure:"addr" validate:"required" comment:"collector 地址（ip:port）"`
	DialTimeout time.Duration `yaml:"dial-timeout" mapstructure:"dial-timeout" validate:"gte=0" comment:"建立连接超时（0 表示不限制）"`
}

// AgentConfig 采集端配置
type AgentConfig struct {
	Interval    time.Duration      `yaml:"interval" mapstructure:"interval" validate:"required,gt=0" comment:"采样发送间隔"`
	StatusEvery int                `yaml:"status-every" mapstructure:"status-every" validate:"gte=0" comment:"每发送N条记录打印一次状态（0 关闭）"`
	BufferSize  int                `yaml:"buffer-size" mapstructure:"buffer-size" validate:"gt=0" comment:"编码缓冲区初始容量（字节）"`
	Reconnect   ReconnectConfig    `yaml:"reconnect" mapstructure:"reconnect"`
	Metrics     AgentMetricsConfig `yaml:"metrics" mapstructure:"metrics" comment:"启用的指标种类"`
}

// ReconnectConfig 重连策略
type ReconnectConfig struct {
	Backoff     time.Duration `yaml:"backoff" mapstructure:"backoff" validate:"gte=0" comment:"重连前等待时间"`
	MaxBackoff  time.Duration `yaml:"max-backoff" mapstructure:"max-backoff" validate:"gte=0" comment:"多次重连时等待上限"`
	MaxAttempts int           `yaml:"max-attempts" mapstructure:"max-attempts" validate:"gte=1" comment:"发送失败后的重连次数，1 为失败即停"`
}

// AgentMetricsConfig 指标开关
type AgentMetricsConfig struct {
	CPU bool `yaml:"cpu" mapstructure:"cpu" comment:"采集CPU平均使用率"`
	Mem bool `yaml:"mem" mapstructure:"mem" comment:"采集已用内存（KB）"`
}

// CollectorConfig 接收端配置
type CollectorConfig struct {
	ReadBufferSize int           `yaml:"read-buffer-size" mapstructure:"read-buffer-size" validate:"gte=16" comment:"读缓冲区大小"`
	LineBufferSize int           `yaml:"line-buffer-size" mapstructure:"line-buffer-size" validate:"gt=0" comment:"行缓冲区初始容量"`
	MaxLineBytes   int           `yaml:"max-line-bytes" mapstructure:"max-line-bytes" validate:"gtefield=LineBufferSize" comment:"单行最大字节数，超出丢弃"`
	ReadTimeout    time.Duration `yaml:"read-timeout" mapstructure:"read-timeout" validate:"gte=0" comment:"读超时（0 表示不限制）"`
	Commands       bool          `yaml:"commands" mapstructure:"commands" comment:"是否启用终端交互命令"`
}

// MetricsConfig Prometheus 自监控HTTP服务配置
type MetricsConfig struct {
	Enable        bool   `yaml:"enable" mapstructure:"enable" comment:"是否启动 /metrics 服务"`
	Addr          string `yaml:"addr" mapstructure:"addr" comment:"HTTP监听地址"`
	EnableProcess bool   `yaml:"enable-process" mapstructure:"enable-process" comment:"是否注册进程指标"`
}

// ZapLogConfig 日志配置
type ZapLogConfig struct {
	Level   string `yaml:"level" mapstructure:"level" validate:"required,oneof=debug info warn error dpanic panic fatal" comment:"日志级别"`
	Format  string `yaml:"format" mapstructure:"format" validate:"required,oneof=json console" comment:"控制台日志格式（json/console）"`
	Path    string `yaml:"path" mapstructure:"path" validate:"required" comment:"日志存储路径"`
	MaxSize int    `yaml:"max-size" mapstructure:"max-size" validate:"gt=0" comment:"单个日志文件最大大小（MB）"`
	MaxAge  int    `yaml:"max-age" mapstructure:"max-age" validate:"gt=0" comment:"日志文件最大保存天数"`
}

// NewDefaultConfig 创建默认配置（所有字段兜底，避免空值/非法值）
func NewDefaultConfig() *Config {
	return &Config{
		Transport: TransportConfig{
			Addr:        "127.0.0.1:8080",
			DialTimeout: 5 * time.Second,
		},
		Agent: AgentConfig{
			Interval:    time.Second,
			StatusEvery: 10,
			BufferSize:  256,
			Reconnect: ReconnectConfig{
				Backoff:     2 * time.Second,
				MaxBackoff:  30 * time.Second,
				MaxAttempts: 1,
			},
			Metrics: AgentMetricsConfig{
				CPU: true,
				Mem: true,
			},
		},
		Collector: CollectorConfig{
			ReadBufferSize: 4096,
			LineBufferSize: 512,
			MaxLineBytes:   64 * 1024,
			ReadTimeout:    0,
			Commands:       true,
		},
		Metrics: MetricsConfig{
			Enable:        false,
			Addr:          "127.0.0.1:9091",
			EnableProcess: true,
		},
		Log: ZapLogConfig{
			Level:   "info",
			Format:  "console",
			Path:    "./logs",
			MaxSize: 100,
			MaxAge:  7,
		},
	}
}

// LoadConfigWithCli 加载配置（Flags + YAML + ENV），支持 time.Duration
func LoadConfigWithCli(cmd *cobra.Command) (*Config, error) {
	cfg := NewDefaultConfig()
	v := viper.New()

	// 1. 绑定 Cobra Flags → Viper
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	// 2. 解析配置文件 (--config)
	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	// 3. 绑定环境变量 (TELEMETRY_AGENT_INTERVAL -> agent.interval)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := Decode(v.AllSettings(), cfg); err != nil {
		return nil, err
	}

	// 4. 校验配置
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Decode 把 viper 的设置反序列化到结构体（支持 "10s" / "a,b" 形式）
func Decode(settings map[string]any, cfg *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("new decoder: %w", err)
	}
	if err := decoder.Decode(settings); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// Validate 配置校验
func (c *Config) Validate() error {
	if err := valid.Struct(c); err != nil {
		return err
	}
	// 1，校验传输配置
	if err := c.Transport.Validate(); err != nil {
		return err
	}
	// 2，校验采集端配置
	if err := c.Agent.Validate(); err != nil {
		return err
	}
	// 3，校验自监控配置
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	// 4，校验日志配置
	if err := c.Log.Validate(); err != nil {
		return err
	}
	return nil
}
