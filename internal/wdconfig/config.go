// Package wdconfig loads optional overrides for the supervisor's timing
// constants and resource policy. None of this is required: the protocol's
// defaults (one-second beats, five-second check windows) match spec.md
// exactly when no config is present.
package wdconfig

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything a Start call can be tuned with.
type Config struct {
	BeatInterval  time.Duration `mapstructure:"beat_interval"`
	CheckInterval time.Duration `mapstructure:"check_interval"`
	WatchdogPath  string        `mapstructure:"watchdog_path"`
	StopTimeout   time.Duration `mapstructure:"stop_timeout"`

	Resources ResourceLimits `mapstructure:"resources"`
}

// ResourceLimits caps what a revived partner may consume, enforced
// best-effort via internal/resourcelimits.
type ResourceLimits struct {
	MemoryMB   int `mapstructure:"memory_mb"`
	CPUPercent int `mapstructure:"cpu_percent"`
}

// Defaults returns the protocol's stock constants, used whenever no
// config file or override is supplied.
func Defaults() Config {
	return Config{
		BeatInterval:  1 * time.Second,
		CheckInterval: 5 * time.Second,
		WatchdogPath:  "./watchdog.out",
		StopTimeout:   5 * time.Second,
	}
}

// Load reads an optional watchdog.yaml (searched in the working directory
// and /etc/watchdog) and WD_-prefixed environment variables, layered over
// Defaults(). When explicitPath is empty, a missing config file is not an
// error; an explicitPath that cannot be read is.
func Load(explicitPath string) (Config, error) {
	cfg := Defaults()

	v := viper.New()
	v.SetEnvPrefix("WD")
	v.AutomaticEnv()
	v.SetDefault("beat_interval", cfg.BeatInterval)
	v.SetDefault("check_interval", cfg.CheckInterval)
	v.SetDefault("watchdog_path", cfg.WatchdogPath)
	v.SetDefault("stop_timeout", cfg.StopTimeout)

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	} else {
		v.SetConfigName("watchdog")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/watchdog")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && explicitPath != "" {
			return cfg, fmt.Errorf("wdconfig: read %q: %w", explicitPath, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("wdconfig: unmarshal: %w", err)
	}
	return cfg, nil
}
