// Package config loads recorder settings from defaults, an optional YAML file
// and RECSTREAM_* environment variables, in that order of precedence.
package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"

	"github.com/user/recstream/pkg/pipeline"
	"github.com/user/recstream/pkg/ports"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "RECSTREAM_"

// Config represents the full configuration for recstream.
type Config struct {
	// Recording
	Width         int     `yaml:"width" env:"WIDTH, overwrite" validate:"min=2,max=8192,even"`
	Height        int     `yaml:"height" env:"HEIGHT, overwrite" validate:"min=2,max=8192,even"`
	FPS           float64 `yaml:"fps" env:"FPS, overwrite" validate:"gt=0,lte=240"`
	OutputDir     string  `yaml:"output_dir" env:"OUTPUT_DIR, overwrite" validate:"required"`
	Effect        string  `yaml:"effect" env:"EFFECT, overwrite" validate:"oneof=none grayscale edge blur sepia"`
	QueueCapacity int     `yaml:"queue_capacity" env:"QUEUE_CAPACITY, overwrite" validate:"min=0"`

	// Encoding
	FFmpegPath     string `yaml:"ffmpeg_path" env:"FFMPEG_PATH, overwrite"`
	Hardware       bool   `yaml:"hardware" env:"HARDWARE, overwrite"`
	Preset         string `yaml:"preset" env:"PRESET, overwrite" validate:"oneof=ultrafast superfast veryfast faster fast medium slow slower veryslow"`
	CRF            int    `yaml:"crf" env:"CRF, overwrite" validate:"min=0,max=51"`
	MJPEGQuality   int    `yaml:"mjpeg_quality" env:"MJPEG_QUALITY, overwrite" validate:"min=1,max=100"`
	StartupGraceMs int    `yaml:"startup_grace_ms" env:"STARTUP_GRACE_MS, overwrite" validate:"min=0,max=10000"`

	// Browser source
	ChromePath string `yaml:"chrome_path" env:"CHROME_PATH, overwrite"`
	Headless   bool   `yaml:"headless" env:"HEADLESS, overwrite"`

	LogLevel string `yaml:"log_level" env:"LOG_LEVEL, overwrite" validate:"oneof=debug info warn error quiet"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	rc := pipeline.DefaultRecordConfig()
	return Config{
		Width:         rc.Width,
		Height:        rc.Height,
		FPS:           rc.FPS,
		OutputDir:     "recordings",
		Effect:        "none",
		QueueCapacity: rc.QueueCapacity,

		Hardware:       true,
		Preset:         "veryfast",
		CRF:            23,
		MJPEGQuality:   85,
		StartupGraceMs: 250,

		Headless: true,

		LogLevel: "info",
	}
}

// Load reads path (skipped when empty) over Defaults, applies RECSTREAM_*
// environment variables and validates the result.
func Load(ctx context.Context, path string) (Config, error) {
	return LoadWith(ctx, path, envconfig.OsLookuper())
}

// LoadWith is Load with an explicit environment source.
func LoadWith(ctx context.Context, path string, env envconfig.Lookuper) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, env),
	}); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	return cfg, cfg.Validate()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// 4:2:0 codecs need even dimensions.
	_ = v.RegisterValidation("even", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%2 == 0
	})
	return v
}

// Validate checks every field. Failures are reported as one configuration
// error naming each offending field.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pipeline.Wrap(pipeline.KindConfiguration, err, "validate")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (got %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return pipeline.Wrap(pipeline.KindConfiguration, err, strings.Join(msgs, "; "))
}

// ToRecordConfig converts Config to pipeline.RecordConfig.
func (c Config) ToRecordConfig() pipeline.RecordConfig {
	return pipeline.RecordConfig{
		Width:         c.Width,
		Height:        c.Height,
		FPS:           c.FPS,
		QueueCapacity: c.QueueCapacity,
	}
}

// ToEncoderOptions converts Config to ports.EncoderOptions.
func (c Config) ToEncoderOptions() ports.EncoderOptions {
	return ports.EncoderOptions{
		FFmpegPath:     c.FFmpegPath,
		Hardware:       c.Hardware,
		Preset:         c.Preset,
		CRF:            c.CRF,
		JPEGQuality:    c.MJPEGQuality,
		StartupGraceMs: c.StartupGraceMs,
	}
}

// EffectKind returns the configured effect.
func (c Config) EffectKind() ports.EffectKind {
	return ports.ParseEffectKind(c.Effect)
}

// LogLevelValue returns the configured log level.
func (c Config) LogLevelValue() ports.LogLevel {
	return ports.ParseLogLevel(c.LogLevel)
}
