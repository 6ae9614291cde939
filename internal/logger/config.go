package logger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
)

// ErrInvalidConfig is returned for a logger config that cannot be built.
var ErrInvalidConfig = errors.New("invalid logger configuration")

// Config defines the logger configuration
type Config struct {
	Level  string     `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string     `mapstructure:"format" yaml:"format"` // json, console
	Output string     `mapstructure:"output" yaml:"output"` // console, file, both, none
	File   FileConfig `mapstructure:"file" yaml:"file"`
}

// FileConfig defines file output configuration
type FileConfig struct {
	Filename   string `mapstructure:"filename" yaml:"filename"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"` // megabytes
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`   // days
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// DefaultConfig logs at info level to a rotating file in the state
// directory. The terminal belongs to the reader.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Output: "file",
		File: FileConfig{
			Filename:   filepath.Join(StateDir(), "jrr.log"),
			MaxSize:    10,
			MaxAge:     30,
			MaxBackups: 3,
		},
	}
}

// StateDir returns XDG_STATE_HOME/jrr or ~/.local/state/jrr
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "jrr")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "jrr")
}

// Validate validates the logger configuration
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("%w: level %q", ErrInvalidConfig, c.Level)
	}
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("%w: format must be 'json' or 'console', got %q", ErrInvalidConfig, c.Format)
	}
	switch c.Output {
	case "console", "none":
		return nil
	case "file", "both":
	default:
		return fmt.Errorf("%w: output must be 'console', 'file', 'both' or 'none', got %q", ErrInvalidConfig, c.Output)
	}
	if c.File.Filename == "" {
		return fmt.Errorf("%w: file.filename is required when output is %q", ErrInvalidConfig, c.Output)
	}
	if c.File.MaxSize <= 0 {
		return fmt.Errorf("%w: file.max_size must be greater than 0", ErrInvalidConfig)
	}
	return nil
}
