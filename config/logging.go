package config

import (
	"fmt"
	"io"
	"os"

	"github.com/op/go-logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultFormat = "%{color}%{time:15:04:05.000} %{module} %{level:.4s}%{color:reset} %{message}"
	fileFormat    = "%{time:2006-01-02 15:04:05.000} %{module} %{level:.4s} %{message}"
)

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`

	// File receives a copy of the log, rotated by size.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxAgeDays int    `yaml:"max_age_days"`
	MaxBackups int    `yaml:"max_backups"`
	Compress   bool   `yaml:"compress"`
}

func (l *Logging) validate() error {
	if _, err := logging.LogLevel(l.Level); err != nil {
		return fmt.Errorf("config: log level %q: %w", l.Level, err)
	}
	if l.Format != "" {
		if _, err := logging.NewStringFormatter(l.Format); err != nil {
			return fmt.Errorf("config: log format: %w", err)
		}
	}
	if l.MaxSizeMB < 0 || l.MaxAgeDays < 0 || l.MaxBackups < 0 {
		return fmt.Errorf("config: negative log rotation limits")
	}
	return nil
}

// Setup installs the logging backends: standard error, and the rotated log
// file if one is configured. The returned closer releases the log file.
func (l *Logging) Setup() (io.Closer, error) {
	return l.setup(os.Stderr)
}

func (l *Logging) setup(console io.Writer) (io.Closer, error) {
	level, err := logging.LogLevel(l.Level)
	if err != nil {
		return nil, err
	}
	format := l.Format
	if format == "" {
		format = defaultFormat
	}
	consoleFormat, err := logging.NewStringFormatter(format)
	if err != nil {
		return nil, err
	}

	var backends []logging.Backend
	backends = append(backends, logging.NewBackendFormatter(logging.NewLogBackend(console, "", 0), consoleFormat))

	var closer io.Closer = nopCloser{}
	if l.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   l.File,
			MaxSize:    l.MaxSizeMB,
			MaxAge:     l.MaxAgeDays,
			MaxBackups: l.MaxBackups,
			Compress:   l.Compress,
		}
		backends = append(backends, logging.NewBackendFormatter(logging.NewLogBackend(rotator, "", 0), logging.MustStringFormatter(fileFormat)))
		closer = rotator
	}

	leveled := logging.AddModuleLevel(logging.MultiLogger(backends...))
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
