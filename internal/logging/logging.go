// Package logging configures the structured logger the CLIs use. The
// simulation core stays log-free.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"trade-scenario-lab/internal/config"
)

// Logger wraps logrus.Logger.
type Logger struct {
	*logrus.Logger
}

// New creates a logger from the given configuration.
func New(cfg config.LoggingConfig) *Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	var output io.Writer
	switch cfg.Output {
	case "file":
		output = fileWriter(cfg)
	case "both":
		output = io.MultiWriter(os.Stdout, fileWriter(cfg))
	default:
		output = os.Stdout
	}
	logger.SetOutput(output)

	return &Logger{Logger: logger}
}

// WithComponent returns an entry tagged with the component name.
func (l *Logger) WithComponent(name string) *logrus.Entry {
	return l.WithField("component", name)
}

// fileWriter creates a rotating file writer.
func fileWriter(cfg config.LoggingConfig) io.Writer {
	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to create log directory: %v\n", err)
		return os.Stdout
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Directory, "scenario_lab.log"),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
}
