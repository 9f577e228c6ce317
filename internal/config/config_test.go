package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, Validate(Defaults()))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"no dir", func(c *Config) { c.Output.Dir = "" }, "output.dir"},
		{"no backends", func(c *Config) { c.Output.Backends = nil }, "output.backends"},
		{"unknown backend", func(c *Config) { c.Output.Backends = []string{"pdf"} }, "output.backends[0]"},
		{"zero scale", func(c *Config) { c.Layout.Scale = 0 }, "layout.scale"},
		{"negative buff", func(c *Config) { c.Layout.Buff = -1 }, "layout.buff"},
		{"fast speaker", func(c *Config) { c.Voiceover.WordsPerMinute = 1000 }, "voiceover.wordsperminute"},
		{"negative tail", func(c *Config) { c.Voiceover.Tail = -time.Second }, "voiceover.tail"},
		{"no cache", func(c *Config) { c.Voiceover.CacheSize = 0 }, "voiceover.cachesize"},
		{"level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	cfg := Defaults()
	cfg.Output.Dir = ""
	cfg.Layout.Scale = -1
	err := Validate(cfg)
	require.Error(t, err)
	assert.Len(t, strings.Split(err.Error(), "\n"), 2)
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LogConfig{Level: "debug"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, LogConfig{Level: "WARN"}.SlogLevel())
	assert.Equal(t, slog.LevelError, LogConfig{Level: "error"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LogConfig{Level: "info"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LogConfig{}.SlogLevel())
}

func TestLoad_DefaultsOnly(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output:
  dir: renders
  backends: [storyboard, trace]
voiceover:
  words_per_minute: 180
  tail: 1s
`), 0o600))
	t.Setenv("MATHSCROLL_LOG_LEVEL", "debug")

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "renders", cfg.Output.Dir)
	assert.Equal(t, []string{"storyboard", "trace"}, cfg.Output.Backends)
	assert.InDelta(t, 180, cfg.Voiceover.WordsPerMinute, 1e-12)
	assert.Equal(t, time.Second, cfg.Voiceover.Tail)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.InDelta(t, 1, cfg.Layout.Scale, 1e-12, "unset keys keep their defaults")
}

func TestLoad_Invalid(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("layout.scale", 0)
	_, err := Load(v)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mathscroll", "config.yaml")
	require.NoError(t, WriteDefault(path))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg, "the written file round-trips")

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o600))
	require.NoError(t, WriteDefault(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "log:\n  level: warn\n", string(data), "existing files are kept")
}
