package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Bembelbots/BembelSoccer-sub000/internal/demo"
	"github.com/Bembelbots/BembelSoccer-sub000/internal/logging"
	"github.com/Bembelbots/BembelSoccer-sub000/runtime/rt"
)

// Config represents the runtime configuration
type Config struct {
	Kernel     KernelConfig     `mapstructure:"kernel"`
	Logging    logging.Config   `mapstructure:"logging"`
	LogData    LogDataConfig    `mapstructure:"logdata"`
	Tasks      TasksConfig      `mapstructure:"tasks"`
	Introspect IntrospectConfig `mapstructure:"introspect"`
	Demo       demo.Config      `mapstructure:"demo"`
}

// KernelConfig represents kernel scheduling configuration
type KernelConfig struct {
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	SnoopWait       time.Duration `mapstructure:"snoop_wait"`
	LockOSThread    bool          `mapstructure:"lock_os_thread"`
	RunLimit        int           `mapstructure:"run_limit"`
}

// LogDataConfig represents log data buffering configuration
type LogDataConfig struct {
	Capacity int `mapstructure:"capacity"`
}

// TasksConfig represents the task pool configuration
type TasksConfig struct {
	Workers int `mapstructure:"workers"`
}

// IntrospectConfig represents the debug HTTP server configuration
type IntrospectConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// Load loads the configuration from path, or from rt.yaml in the working
// directory when path is empty. Environment variables prefixed with RT_
// override file values, e.g. RT_KERNEL_RUN_LIMIT.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("kernel.shutdown_timeout", rt.DefaultShutdownTimeout)
	v.SetDefault("kernel.snoop_wait", time.Millisecond)
	v.SetDefault("kernel.lock_os_thread", true)
	v.SetDefault("kernel.run_limit", -1)
	v.SetDefault("logging.mode", string(logging.ModeDevelopment))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logdata.capacity", rt.DefaultLogDataCapacity)
	v.SetDefault("tasks.workers", 4)
	v.SetDefault("introspect.enabled", false)
	v.SetDefault("introspect.addr", ":8090")
	demoDefaults := demo.DefaultConfig()
	v.SetDefault("demo.frame_width", demoDefaults.FrameWidth)
	v.SetDefault("demo.frame_height", demoDefaults.FrameHeight)
	v.SetDefault("demo.period", demoDefaults.Period)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("rt")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Enable environment variable support
	v.SetEnvPrefix("RT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// KernelOptions converts the configuration into kernel options.
func (c *Config) KernelOptions() []rt.Option {
	return []rt.Option{
		rt.WithShutdownTimeout(c.Kernel.ShutdownTimeout),
		rt.WithSnoopWait(c.Kernel.SnoopWait),
		rt.WithLockOSThread(c.Kernel.LockOSThread),
		rt.WithRunLimit(c.Kernel.RunLimit),
		rt.WithLogDataCapacity(c.LogData.Capacity),
		rt.WithTaskWorkers(c.Tasks.Workers),
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Kernel.ShutdownTimeout <= 0 {
		return fmt.Errorf("kernel.shutdown_timeout must be positive, got: %s", cfg.Kernel.ShutdownTimeout)
	}
	if cfg.Kernel.SnoopWait <= 0 {
		return fmt.Errorf("kernel.snoop_wait must be positive, got: %s", cfg.Kernel.SnoopWait)
	}
	if cfg.LogData.Capacity <= 0 {
		return fmt.Errorf("logdata.capacity must be positive, got: %d", cfg.LogData.Capacity)
	}
	if cfg.Tasks.Workers <= 0 {
		return fmt.Errorf("tasks.workers must be positive, got: %d", cfg.Tasks.Workers)
	}
	if cfg.Introspect.Enabled && cfg.Introspect.Addr == "" {
		return fmt.Errorf("introspect.addr must be set when introspect.enabled is true")
	}
	return cfg.Demo.Validate()
}
