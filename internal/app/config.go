package app

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configurable parameters for the application.
type Config struct {
	ContentRoot string `mapstructure:"content_root"`
	Port        int    `mapstructure:"port"`
	TraceSize   int    `mapstructure:"trace_size"`
	LogLevel    string `mapstructure:"log_level"`
	Development bool   `mapstructure:"development"`

	AuthBaseURL string        `mapstructure:"auth_base_url"`
	AuthTimeout time.Duration `mapstructure:"auth_timeout"`

	DebugRate      float64       `mapstructure:"debug_rate"`
	DebugBurst     int           `mapstructure:"debug_burst"`
	RateLimiterTTL time.Duration `mapstructure:"rate_limiter_ttl"`

	WatcherDebounce time.Duration `mapstructure:"watcher_debounce"`

	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("content_root", "./site")
	v.SetDefault("port", 8080)
	v.SetDefault("trace_size", 200)
	v.SetDefault("log_level", "info")
	v.SetDefault("development", false)

	v.SetDefault("auth_base_url", "http://localhost:8787")
	v.SetDefault("auth_timeout", 5*time.Second)

	v.SetDefault("debug_rate", 5.0)
	v.SetDefault("debug_burst", 10)
	v.SetDefault("rate_limiter_ttl", 10*time.Minute)

	v.SetDefault("watcher_debounce", 500*time.Millisecond)

	v.SetDefault("read_timeout", 30*time.Second)
	v.SetDefault("write_timeout", 30*time.Second)
	v.SetDefault("idle_timeout", 60*time.Second)
	v.SetDefault("shutdown_timeout", 10*time.Second)
}

// LoadConfig reads the configuration file at path (optional, YAML) and
// overlays INKWELL_* environment variables on top of the defaults.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("INKWELL")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot run with.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.ContentRoot == "" {
		return fmt.Errorf("content_root must not be empty")
	}
	if c.TraceSize <= 0 {
		return fmt.Errorf("trace_size must be positive, got %d", c.TraceSize)
	}
	if c.DebugRate <= 0 || c.DebugBurst <= 0 {
		return fmt.Errorf("debug rate and burst must be positive")
	}
	if c.AuthBaseURL == "" {
		return fmt.Errorf("auth_base_url must not be empty")
	}
	return nil
}
