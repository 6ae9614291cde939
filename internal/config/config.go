// Package config loads jrr settings. Sources are layered, later ones
// winning: built-in defaults, a YAML file, JRR_* environment variables and
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/metcalfc/jrr/internal/chunk"
	"github.com/metcalfc/jrr/internal/logger"
	"github.com/metcalfc/jrr/internal/playback"
	"github.com/metcalfc/jrr/internal/segment"
)

// ErrInvalid marks a setting that was out of range and has been clamped.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix prefixes environment variables, e.g. JRR_GROUPING_MODE.
const EnvPrefix = "JRR"

// MaxFrameRate bounds frame_rate.
const MaxFrameRate = 1000

// Config holds every jrr setting.
type Config struct {
	Rate           float64       `mapstructure:"rate" yaml:"rate"` // chunks per minute
	Grouping       Grouping      `mapstructure:"grouping" yaml:"grouping"`
	ProtectedTerms []string      `mapstructure:"protected_terms" yaml:"protected_terms"`
	Segmenter      string        `mapstructure:"segmenter" yaml:"segmenter"`
	FrameRate      int           `mapstructure:"frame_rate" yaml:"frame_rate"` // steps per second
	Log            logger.Config `mapstructure:"log" yaml:"log"`
}

type Grouping struct {
	Mode           string `mapstructure:"mode" yaml:"mode"` // grouped, atomic
	MaxChunkLength int    `mapstructure:"max_chunk_length" yaml:"max_chunk_length"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Rate: playback.DefaultRate,
		Grouping: Grouping{
			Mode:           chunk.ModeGrouped.String(),
			MaxChunkLength: chunk.DefaultMaxChunkLength,
		},
		ProtectedTerms: []string{},
		Segmenter:      segment.KagomeName,
		FrameRate:      playback.DefaultFrameRate,
		Log:            logger.DefaultConfig(),
	}
}

// DefaultPath returns XDG_CONFIG_HOME/jrr/config.yaml or
// ~/.config/jrr/config.yaml.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "jrr", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "jrr", "config.yaml")
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"rate":       "rate",
	"mode":       "grouping.mode",
	"max-length": "grouping.max_chunk_length",
	"term":       "protected_terms",
	"segmenter":  "segmenter",
	"frame-rate": "frame_rate",
	"log-level":  "log.level",
}

// AddFlags defines the flags that Load understands on fs.
func AddFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.Float64P("rate", "r", d.Rate, "Chunks per minute")
	fs.StringP("mode", "m", d.Grouping.Mode, "Grouping mode: grouped or atomic")
	fs.IntP("max-length", "l", d.Grouping.MaxChunkLength, "Maximum characters per grouped chunk")
	fs.StringArrayP("term", "t", nil, "Protected term that is never split (repeatable)")
	fs.String("segmenter", d.Segmenter, "Segmenter: "+strings.Join(segment.Names(), ", "))
	fs.Int("frame-rate", d.FrameRate, "Scheduling steps per second")
	fs.String("log-level", d.Log.Level, "Log level: debug, info, warn or error")
}

// Load reads the configuration. An empty path means the default path,
// which may be absent. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetConfigType("yaml")
	if path == "" {
		if p := DefaultPath(); fileExists(p) {
			path = p
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("rate", d.Rate)
	v.SetDefault("grouping.mode", d.Grouping.Mode)
	v.SetDefault("grouping.max_chunk_length", d.Grouping.MaxChunkLength)
	v.SetDefault("protected_terms", d.ProtectedTerms)
	v.SetDefault("segmenter", d.Segmenter)
	v.SetDefault("frame_rate", d.FrameRate)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output", d.Log.Output)
	v.SetDefault("log.file.filename", d.Log.File.Filename)
	v.SetDefault("log.file.max_size", d.Log.File.MaxSize)
	v.SetDefault("log.file.max_age", d.Log.File.MaxAge)
	v.SetDefault("log.file.max_backups", d.Log.File.MaxBackups)
	v.SetDefault("log.file.compress", d.Log.File.Compress)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Normalize clamps out-of-range settings to usable values and returns one
// error, wrapping ErrInvalid, per setting it changed. Empty protected terms
// are dropped silently.
func (c *Config) Normalize() []error {
	var problems []error
	invalid := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if r := playback.ClampRate(c.Rate); r != c.Rate {
		invalid("rate %v, using %v", c.Rate, r)
		c.Rate = r
	}
	if mode, err := chunk.ParseMode(c.Grouping.Mode); err != nil {
		invalid("grouping.mode %q, using %s", c.Grouping.Mode, mode)
		c.Grouping.Mode = mode.String()
	}
	if c.Grouping.MaxChunkLength < chunk.MinMaxChunkLength {
		invalid("grouping.max_chunk_length %d, using %d", c.Grouping.MaxChunkLength, chunk.MinMaxChunkLength)
		c.Grouping.MaxChunkLength = chunk.MinMaxChunkLength
	}
	if !slices.Contains(segment.Names(), c.Segmenter) {
		invalid("segmenter %q, using %s", c.Segmenter, segment.KagomeName)
		c.Segmenter = segment.KagomeName
	}
	if c.FrameRate <= 0 || c.FrameRate > MaxFrameRate {
		fr := playback.DefaultFrameRate
		if c.FrameRate > MaxFrameRate {
			fr = MaxFrameRate
		}
		invalid("frame_rate %d, using %d", c.FrameRate, fr)
		c.FrameRate = fr
	}

	terms := make([]string, 0, len(c.ProtectedTerms))
	for _, t := range c.ProtectedTerms {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	c.ProtectedTerms = terms
	return problems
}

// GroupingConfig returns the chunk grouping settings.
func (c Config) GroupingConfig() chunk.GroupingConfig {
	mode, _ := chunk.ParseMode(c.Grouping.Mode)
	return chunk.NewGroupingConfig(mode, c.Grouping.MaxChunkLength)
}

// WriteDefault writes the default configuration to path as YAML. It
// refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if fileExists(path) {
		return fmt.Errorf("%s: %w", path, os.ErrExist)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
