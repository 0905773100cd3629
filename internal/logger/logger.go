package logger

import (
	"io"
	stdlog "log"
	"strings"

	"github.com/aleister1102/themediff/internal/common"
	"github.com/aleister1102/themediff/internal/config"
	"github.com/rs/zerolog"
)

// LogFormat represents available log formats
type LogFormat int

const (
	FormatJSON LogFormat = iota
	FormatConsole
	FormatText
)

// String returns string representation of LogFormat
func (lf LogFormat) String() string {
	switch lf {
	case FormatJSON:
		return "json"
	case FormatConsole:
		return "console"
	case FormatText:
		return "text"
	default:
		return "console"
	}
}

// ParseFormat parses string format to LogFormat
func ParseFormat(formatStr string) LogFormat {
	switch strings.ToLower(formatStr) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return FormatConsole
	}
}

// ParseLevel parses string log level to zerolog.Level
func ParseLevel(levelStr string) (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		return zerolog.InfoLevel, common.WrapError(err, "invalid log level")
	}
	return level, nil
}

// New creates a zerolog logger from the log configuration. Console output
// always goes to stderr; file output is optional and rotated.
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Logger{}, err
	}

	format := ParseFormat(cfg.LogFormat)

	writers := []io.Writer{NewConsoleWriter(format)}
	if cfg.LogFile != "" {
		fileWriter, err := NewFileWriter(cfg, format)
		if err != nil {
			return zerolog.Logger{}, common.WrapError(err, "failed to create log file writer")
		}
		writers = append(writers, fileWriter)
	}

	multiWriter := zerolog.MultiLevelWriter(writers...)
	instance := zerolog.New(multiWriter).
		Level(level).
		With().
		Timestamp().
		Logger()

	zerolog.SetGlobalLevel(level)

	// Route the standard library logger through zerolog as well.
	stdlog.SetOutput(instance)
	stdlog.SetFlags(0)

	return instance, nil
}
