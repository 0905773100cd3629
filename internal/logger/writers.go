package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/aleister1102/themediff/internal/config"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewConsoleWriter creates a stderr writer in the requested format.
func NewConsoleWriter(format LogFormat) io.Writer {
	switch format {
	case FormatJSON:
		return os.Stderr
	case FormatText:
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		}
	default:
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    false,
		}
	}
}

// NewFileWriter creates a rotated file writer for the configured log path.
// File output never uses color regardless of format.
func NewFileWriter(cfg config.LogConfig, format LogFormat) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, err
	}

	rotated := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.MaxLogSizeMB,
		LocalTime:  true,
		MaxBackups: cfg.MaxLogBackups,
	}

	if format == FormatJSON {
		return rotated, nil
	}
	return zerolog.ConsoleWriter{
		Out:        rotated,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}, nil
}
