// File: internal/config/config_test.go
package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "console", cfg.Logger().Format)
	assert.True(t, cfg.Browser().Headless)
	assert.Equal(t, 1440, cfg.Browser().WindowWidth)
	assert.Equal(t, 60*time.Second, cfg.Browser().NavigationTimeout)
	assert.Equal(t, 10*time.Second, cfg.Engine().OpTimeout)
	assert.Equal(t, 2*time.Second, cfg.Engine().ProbeTimeout)
	assert.Equal(t, 10, cfg.Engine().RowTolerancePx)
	assert.Equal(t, 1, cfg.Engine().MaxRecoveryRetries)
	assert.False(t, cfg.Engine().AutoSubmit)
	assert.Equal(t, "form_filled.png", cfg.Engine().FilledScreenshot)
	assert.Equal(t, 1, cfg.Sessions().Concurrency)

	assert.NoError(t, cfg.Validate())
}

func TestNewConfigFromViper_YAML(t *testing.T) {
	yamlConfig := []byte(`
logger:
  level: debug
  format: json
browser:
  headless: false
  window_width: 1920
  window_height: 1200
engine:
  op_timeout: 5s
  settle_time: 500ms
  auto_submit: true
  max_recovery_retries: 2
sessions:
  concurrency: 4
`)
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlConfig)))

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)

	expected := NewDefaultConfig()
	expected.LoggerCfg.Level = "debug"
	expected.LoggerCfg.Format = "json"
	expected.BrowserCfg.Headless = false
	expected.BrowserCfg.WindowWidth = 1920
	expected.BrowserCfg.WindowHeight = 1200
	expected.EngineCfg.OpTimeout = 5 * time.Second
	expected.EngineCfg.SettleTime = 500 * time.Millisecond
	expected.EngineCfg.AutoSubmit = true
	expected.EngineCfg.MaxRecoveryRetries = 2
	expected.SessionsCfg.Concurrency = 4

	if diff := cmp.Diff(expected, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestNewConfigFromViper_EnvOverride(t *testing.T) {
	t.Setenv("AUTOFORM_LOGGER_LEVEL", "warn")
	t.Setenv("AUTOFORM_SESSIONS_CONCURRENCY", "3")

	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logger().Level)
	assert.Equal(t, 3, cfg.Sessions().Concurrency)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero op timeout",
			mutate:  func(c *Config) { c.EngineCfg.OpTimeout = 0 },
			wantErr: "op_timeout",
		},
		{
			name:    "negative probe timeout",
			mutate:  func(c *Config) { c.EngineCfg.ProbeTimeout = -time.Second },
			wantErr: "probe_timeout",
		},
		{
			name:    "negative row tolerance",
			mutate:  func(c *Config) { c.EngineCfg.RowTolerancePx = -1 },
			wantErr: "row_tolerance_px",
		},
		{
			name:    "negative recovery retries",
			mutate:  func(c *Config) { c.EngineCfg.MaxRecoveryRetries = -1 },
			wantErr: "max_recovery_retries",
		},
		{
			name:    "zero navigation timeout",
			mutate:  func(c *Config) { c.BrowserCfg.NavigationTimeout = 0 },
			wantErr: "navigation_timeout",
		},
		{
			name:    "zero window size",
			mutate:  func(c *Config) { c.BrowserCfg.WindowWidth = 0 },
			wantErr: "window_width",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.SessionsCfg.Concurrency = 0 },
			wantErr: "concurrency",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
