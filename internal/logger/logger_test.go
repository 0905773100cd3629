package logger

import (
	"path/filepath"
	"testing"

	"github.com/aleister1102/themediff/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatConsole, ParseFormat("console"))
	assert.Equal(t, FormatConsole, ParseFormat(""))
	assert.Equal(t, FormatConsole, ParseFormat("bogus"))
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)

	_, err = ParseLevel("shout")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	cfg := config.NewDefaultLogConfig()
	cfg.LogLevel = "warn"

	log, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
}

func TestNew_WithFileOutput(t *testing.T) {
	cfg := config.NewDefaultLogConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "logs", "themediff.log")
	cfg.LogFormat = "json"

	log, err := New(cfg)
	require.NoError(t, err)

	log.Info().Msg("hello")
}

func TestNew_InvalidLevel(t *testing.T) {
	cfg := config.NewDefaultLogConfig()
	cfg.LogLevel = "nope"

	_, err := New(cfg)
	assert.Error(t, err)
}
