package config

import (
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
)

// NewLogger builds a console logger at the configured level, adding a file
// writer when a log file is configured.
func NewLogger(cfg LoggingConfig) arbor.ILogger {
	logger := withFileWriter(arbor.NewLogger(), cfg)
	logger = logger.WithConsoleWriter(models.WriterConfiguration{
		Type:             models.LogWriterTypeConsole,
		TimeFormat:       timeFormat(cfg),
		TextOutput:       true,
		DisableTimestamp: false,
	})
	return logger.WithLevelFromString(level(cfg))
}

// NewStdioLogger builds a logger that never writes to stdout, for processes
// whose stdout carries a protocol stream. Without a log file it discards output.
func NewStdioLogger(cfg LoggingConfig) arbor.ILogger {
	return withFileWriter(arbor.NewLogger(), cfg).WithLevelFromString(level(cfg))
}

func withFileWriter(logger arbor.ILogger, cfg LoggingConfig) arbor.ILogger {
	if cfg.File == "" {
		return logger
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return logger
	}
	return logger.WithFileWriter(models.WriterConfiguration{
		Type:             models.LogWriterTypeFile,
		FileName:         cfg.File,
		TimeFormat:       timeFormat(cfg),
		MaxSize:          10 * 1024 * 1024,
		MaxBackups:       3,
		TextOutput:       true,
		DisableTimestamp: false,
	})
}

func timeFormat(cfg LoggingConfig) string {
	if cfg.TimeFormat == "" {
		return "15:04:05"
	}
	return cfg.TimeFormat
}

func level(cfg LoggingConfig) string {
	if cfg.Level == "" {
		return "info"
	}
	return cfg.Level
}
