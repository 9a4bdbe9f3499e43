package ops

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the ambient defaults cmd/opsdemo (and any other caller)
// loads at startup, grounded on fanjia1024-Aetheris's spf13/viper usage —
// the teacher library itself has no CLI and so no config loader of its
// own.
type Config struct {
	DefaultTimeout time.Duration
	LogLevel       string
	LogSink        string
}

// LoadConfig reads configuration from environment variables prefixed
// OPS_ (e.g. OPS_DEFAULT_TIMEOUT) and, if present, a YAML file at
// configPath, with environment taking precedence.
func LoadConfig(configPath string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("OPS")
	v.AutomaticEnv()

	v.SetDefault("default_timeout", "30s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_sink", "ansi")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	timeout, err := time.ParseDuration(v.GetString("default_timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid default_timeout: %w", err)
	}

	return Config{
		DefaultTimeout: timeout,
		LogLevel:       v.GetString("log_level"),
		LogSink:        v.GetString("log_sink"),
	}, nil
}
