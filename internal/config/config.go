package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Push transports understood by the dashboard.
const (
	TransportSSE       = "sse"
	TransportWebSocket = "websocket"
)

// Defaults for every key. Config files and flags override them.
const (
	defaultLogLevel       = "info"
	defaultLogFile        = "dashboard.log"
	defaultBaseURL        = "http://localhost:8080"
	defaultPushRetry      = 3 * time.Second
	defaultClearAfter     = 5 * time.Second
	defaultServerPort     = "8080"
	defaultDBPath         = "growbox.db"
	defaultSimTick        = 1 * time.Second
	defaultSensorFaultPct = 0.0
)

// Config is the merged configuration of both binaries.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Device   DeviceConfig   `mapstructure:"device"`
	Push     PushConfig     `mapstructure:"push"`
	Feedback FeedbackConfig `mapstructure:"feedback"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"db"`
	Sim      SimConfig      `mapstructure:"sim"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type DeviceConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type PushConfig struct {
	Transport string        `mapstructure:"transport"` // sse | websocket
	Retry     time.Duration `mapstructure:"retry"`
}

type FeedbackConfig struct {
	ClearAfter time.Duration `mapstructure:"clear_after"`
}

// MetricsConfig enables the Prometheus listener when Addr is non-empty.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type SimConfig struct {
	Tick            time.Duration `mapstructure:"tick"`
	SensorFaultRate float64       `mapstructure:"sensor_fault_rate"` // 0..1
}

var errBadTransport = errors.New("push.transport must be \"sse\" or \"websocket\"")

// Flags registers the command-line overrides shared by both binaries.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "path to config file (default: configs/config.yml if present)")
	fs.String("log.level", defaultLogLevel, "log level: debug|info|warn|error")
	fs.String("device.base_url", defaultBaseURL, "device base URL")
	fs.String("push.transport", TransportSSE, "push transport: sse|websocket")
	fs.String("metrics.addr", "", "listen address for /metrics (disabled when empty)")
	fs.String("server.port", defaultServerPort, "simulator listen port")
	return fs
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.file", defaultLogFile)
	v.SetDefault("device.base_url", defaultBaseURL)
	v.SetDefault("push.transport", TransportSSE)
	v.SetDefault("push.retry", defaultPushRetry)
	v.SetDefault("feedback.clear_after", defaultClearAfter)
	v.SetDefault("metrics.addr", "")
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("db.path", defaultDBPath)
	v.SetDefault("sim.tick", defaultSimTick)
	v.SetDefault("sim.sensor_fault_rate", defaultSensorFaultPct)
}

// Load merges defaults, the config file and any flags that were set.
// fs may be nil. A missing default config file is not an error; an
// explicitly named one is.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	path := ""
	if fs != nil {
		path, _ = fs.GetString("config")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs") // configs/config.yml
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if fs != nil {
		// Only flags changed on the command line override the file.
		var bindErr error
		fs.Visit(func(f *pflag.Flag) {
			if f.Name == "config" || bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(f.Name, f)
		})
		if bindErr != nil {
			return nil, fmt.Errorf("bind flags: %w", bindErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Push.Transport = strings.ToLower(strings.TrimSpace(c.Push.Transport))
	switch c.Push.Transport {
	case TransportSSE, TransportWebSocket:
	default:
		return errBadTransport
	}
	if c.Push.Retry <= 0 {
		c.Push.Retry = defaultPushRetry
	}
	if c.Feedback.ClearAfter <= 0 {
		c.Feedback.ClearAfter = defaultClearAfter
	}
	if c.Sim.Tick <= 0 {
		c.Sim.Tick = defaultSimTick
	}
	if c.Sim.SensorFaultRate < 0 || c.Sim.SensorFaultRate > 1 {
		return fmt.Errorf("sim.sensor_fault_rate must be within [0,1], got %v", c.Sim.SensorFaultRate)
	}
	return nil
}
