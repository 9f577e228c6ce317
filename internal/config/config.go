// Package config provides the configuration of the mathscroll command:
// types, defaults, validation and the default config file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables overriding config keys:
// MATHSCROLL_OUTPUT_DIR overrides output.dir.
const EnvPrefix = "MATHSCROLL"

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = ".mathscroll/config.yaml"

// Config is the configuration of a render.
type Config struct {
	Output    OutputConfig    `mapstructure:"output" yaml:"output"`
	Layout    LayoutConfig    `mapstructure:"layout" yaml:"layout"`
	Voiceover VoiceoverConfig `mapstructure:"voiceover" yaml:"voiceover"`
	Preview   PreviewConfig   `mapstructure:"preview" yaml:"preview"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// OutputConfig selects where and how recordings are written.
type OutputConfig struct {
	// Dir receives one file per scene and backend.
	Dir string `mapstructure:"dir" yaml:"dir" validate:"required"`

	// Backends are recording backend names.
	Backends []string `mapstructure:"backends" yaml:"backends" validate:"required,min=1,dive,oneof=storyboard trace"`
}

// LayoutConfig holds the canvas defaults of the scroll manager.
type LayoutConfig struct {
	// Scale multiplies every typeset expression.
	Scale float64 `mapstructure:"scale" yaml:"scale" validate:"gt=0,lte=10"`

	// Buff is the gap between stacked items, in scene units.
	Buff float64 `mapstructure:"buff" yaml:"buff" validate:"gte=0"`

	// FontSize is the em size of expressions at scale 1, in scene units.
	FontSize float64 `mapstructure:"font_size" yaml:"font_size" validate:"gt=0"`
}

// VoiceoverConfig configures the estimating speech service.
type VoiceoverConfig struct {
	WordsPerMinute float64       `mapstructure:"words_per_minute" yaml:"words_per_minute" validate:"gt=0,lte=400"`
	Tail           time.Duration `mapstructure:"tail" yaml:"tail" validate:"gte=0"`
	CacheSize      int           `mapstructure:"cache_size" yaml:"cache_size" validate:"gte=1"`
}

// PreviewConfig configures --watch renders.
type PreviewConfig struct {
	// Pace scales real-time playback; 0 renders as fast as possible.
	Pace float64 `mapstructure:"pace" yaml:"pace" validate:"gte=0"`

	// Debounce delays a re-render after a file change.
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce" validate:"gte=0"`
}

// LogConfig configures the slog handler of the command.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
}

// SlogLevel returns the configured level, Info for unknown names.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Output: OutputConfig{
			Dir:      "out",
			Backends: []string{"storyboard"},
		},
		Layout: LayoutConfig{
			Scale:    1,
			Buff:     0.5,
			FontSize: 0.6,
		},
		Voiceover: VoiceoverConfig{
			WordsPerMinute: 150,
			Tail:           250 * time.Millisecond,
			CacheSize:      64,
		},
		Preview: PreviewConfig{
			Debounce: 200 * time.Millisecond,
		},
		Log: LogConfig{Level: "info"},
	}
}

// SetDefaults registers the defaults with v, so that every key can be
// overridden by the config file, the environment or a bound flag.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.backends", d.Output.Backends)
	v.SetDefault("layout.scale", d.Layout.Scale)
	v.SetDefault("layout.buff", d.Layout.Buff)
	v.SetDefault("layout.font_size", d.Layout.FontSize)
	v.SetDefault("voiceover.words_per_minute", d.Voiceover.WordsPerMinute)
	v.SetDefault("voiceover.tail", d.Voiceover.Tail)
	v.SetDefault("voiceover.cache_size", d.Voiceover.CacheSize)
	v.SetDefault("preview.pace", d.Preview.Pace)
	v.SetDefault("preview.debounce", d.Preview.Debounce)
	v.SetDefault("log.level", d.Log.Level)
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks cfg field by field. Every failing field is reported.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fmt.Errorf("%w: %s fails %q", ErrInvalid, fieldPath(fe), rule(fe)))
	}
	return errors.Join(errs...)
}

// fieldPath returns the dotted, lower-case path of a failing field without
// the root type name: Output.Backends[0] becomes output.backends[0].
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.ToLower(ns)
}

func rule(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fe.Tag() + "=" + fe.Param()
	}
	return fe.Tag()
}

// Marshal encodes cfg as YAML with two-space indentation.
func Marshal(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDefault writes the default configuration to path, creating parent
// directories. An existing file is left alone.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	data, err := Marshal(Defaults())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
