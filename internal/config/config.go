// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application configuration, loaded from config.yaml plus
// AUTOFORM_* environment variables.
type Config struct {
	LoggerCfg   LoggerConfig   `mapstructure:"logger"`
	BrowserCfg  BrowserConfig  `mapstructure:"browser"`
	EngineCfg   EngineConfig   `mapstructure:"engine"`
	SessionsCfg SessionsConfig `mapstructure:"sessions"`
}

// Accessors keep call sites stable if the layout ever changes.

func (c *Config) Logger() LoggerConfig     { return c.LoggerCfg }
func (c *Config) Browser() BrowserConfig   { return c.BrowserCfg }
func (c *Config) Engine() EngineConfig     { return c.EngineCfg }
func (c *Config) Sessions() SessionsConfig { return c.SessionsCfg }

// LoggerConfig controls the zap logger setup.
type LoggerConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	LogFile     string `mapstructure:"log_file"`
	MaxSize     int    `mapstructure:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAge      int    `mapstructure:"max_age"`
	Compress    bool   `mapstructure:"compress"`
	AddSource   bool   `mapstructure:"add_source"`
	ServiceName string `mapstructure:"service_name"`
}

// BrowserConfig controls the Chrome session.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless"`
	ExecPath          string        `mapstructure:"exec_path"`
	UserAgent         string        `mapstructure:"user_agent"`
	WindowWidth       int           `mapstructure:"window_width"`
	WindowHeight      int           `mapstructure:"window_height"`
	NoSandbox         bool          `mapstructure:"no_sandbox"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout"`
}

// EngineConfig tunes the fill engine.
type EngineConfig struct {
	// OpTimeout bounds a single driver operation.
	OpTimeout time.Duration `mapstructure:"op_timeout"`
	// ProbeTimeout bounds cheap existence/visibility probes. A probe
	// timing out means "this candidate does not apply", never an error.
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
	// SettleTime is waited after actions that can mutate the page
	// (checkbox reveal, file upload, submit) before re-reading it.
	SettleTime time.Duration `mapstructure:"settle_time"`
	// RowTolerancePx is the vertical band within which two fields count
	// as the same visual row and are ordered left to right. Heuristic.
	RowTolerancePx int `mapstructure:"row_tolerance_px"`
	// MaxRecoveryRetries bounds post-submit recovery cycles.
	MaxRecoveryRetries int `mapstructure:"max_recovery_retries"`
	// FileBaseDir resolves relative upload paths from the profile.
	FileBaseDir string `mapstructure:"file_base_dir"`
	// AutoSubmit submits the form after filling.
	AutoSubmit bool `mapstructure:"auto_submit"`
	// FilledScreenshot and ErrorScreenshot are artifact paths. Empty
	// disables the respective capture.
	FilledScreenshot string `mapstructure:"filled_screenshot"`
	ErrorScreenshot  string `mapstructure:"error_screenshot"`
}

// SessionsConfig controls concurrent independent sessions.
type SessionsConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// SetDefaults registers every default on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "autoform")

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.exec_path", "")
	v.SetDefault("browser.user_agent", "")
	v.SetDefault("browser.window_width", 1440)
	v.SetDefault("browser.window_height", 1080)
	v.SetDefault("browser.no_sandbox", false)
	v.SetDefault("browser.navigation_timeout", 60*time.Second)

	v.SetDefault("engine.op_timeout", 10*time.Second)
	v.SetDefault("engine.probe_timeout", 2*time.Second)
	v.SetDefault("engine.settle_time", 2*time.Second)
	v.SetDefault("engine.row_tolerance_px", 10)
	v.SetDefault("engine.max_recovery_retries", 1)
	v.SetDefault("engine.file_base_dir", "")
	v.SetDefault("engine.auto_submit", false)
	v.SetDefault("engine.filled_screenshot", "form_filled.png")
	v.SetDefault("engine.error_screenshot", "error_screenshot.png")

	v.SetDefault("sessions.concurrency", 1)
}

// NewDefaultConfig returns a Config carrying every default.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	// Unmarshal of pure defaults cannot fail.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// NewConfigFromViper binds environment variables, unmarshals and
// validates the full configuration.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("AUTOFORM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field consistency of the whole configuration.
func (c *Config) Validate() error {
	if err := c.EngineCfg.Validate(); err != nil {
		return err
	}
	if err := c.BrowserCfg.Validate(); err != nil {
		return err
	}
	if c.SessionsCfg.Concurrency <= 0 {
		return fmt.Errorf("sessions.concurrency must be a positive integer")
	}
	return nil
}

// Validate checks the engine tunables.
func (e EngineConfig) Validate() error {
	if e.OpTimeout <= 0 {
		return fmt.Errorf("engine.op_timeout must be a positive duration")
	}
	if e.ProbeTimeout <= 0 {
		return fmt.Errorf("engine.probe_timeout must be a positive duration")
	}
	if e.RowTolerancePx < 0 {
		return fmt.Errorf("engine.row_tolerance_px must not be negative")
	}
	if e.MaxRecoveryRetries < 0 {
		return fmt.Errorf("engine.max_recovery_retries must not be negative")
	}
	return nil
}

// Validate checks the browser settings.
func (b BrowserConfig) Validate() error {
	if b.NavigationTimeout <= 0 {
		return fmt.Errorf("browser.navigation_timeout must be a positive duration")
	}
	if b.WindowWidth <= 0 || b.WindowHeight <= 0 {
		return fmt.Errorf("browser.window_width and browser.window_height must be positive")
	}
	return nil
}
