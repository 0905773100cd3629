package differ

import (
	"strings"
	"testing"

	"github.com/aleister1102/themediff/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reassemble applies the given operations (plus equals) in span order.
func reassemble(spans []models.DiffSpan, keep models.DiffOperation) string {
	var sb strings.Builder
	for _, span := range spans {
		if span.Operation == models.DiffEqual || span.Operation == keep {
			sb.WriteString(span.Text)
		}
	}
	return sb.String()
}

func TestEngine_LineMode_Scenario(t *testing.T) {
	engine := NewEngine()

	spans, stats := engine.Diff("foo\nbar\n", "foo\nbaz\n", ModeLine)

	require.Equal(t, []models.DiffSpan{
		{Operation: models.DiffEqual, Text: "foo\n"},
		{Operation: models.DiffDelete, Text: "bar\n"},
		{Operation: models.DiffInsert, Text: "baz\n"},
	}, spans)
	assert.Equal(t, models.DiffStats{Additions: 1, Deletions: 1, LinesChanged: 2}, stats)
}

func TestEngine_RoundTripLaw(t *testing.T) {
	pairs := []struct {
		name   string
		source string
		target string
	}{
		{"line change", "foo\nbar\n", "foo\nbaz\n"},
		{"added lines", "a\n", "a\nb\nc\n"},
		{"removed lines", "a\nb\nc\n", "c\n"},
		{"no trailing newline", "alpha\nbeta", "alpha\ngamma"},
		{"empty source", "", "new content\n"},
		{"empty target", "old content\n", ""},
		{"unicode", "héllo wörld\n", "héllo wørld\n"},
		{"disjoint", "one\ntwo\n", "three\nfour\n"},
	}

	engine := NewEngine()
	for _, mode := range []Mode{ModeLine, ModeCharacter} {
		for _, tt := range pairs {
			t.Run(tt.name, func(t *testing.T) {
				spans, stats := engine.Diff(tt.source, tt.target, mode)

				assert.Equal(t, tt.source, reassemble(spans, models.DiffDelete))
				assert.Equal(t, tt.target, reassemble(spans, models.DiffInsert))
				assert.Equal(t, stats.Additions+stats.Deletions, stats.LinesChanged)
			})
		}
	}
}

func TestEngine_IdenticalInput(t *testing.T) {
	engine := NewEngine()

	for _, mode := range []Mode{ModeLine, ModeCharacter} {
		spans, stats := engine.Diff("same\ntext\n", "same\ntext\n", mode)

		require.Len(t, spans, 1)
		assert.Equal(t, models.DiffEqual, spans[0].Operation)
		assert.Equal(t, "same\ntext\n", spans[0].Text)
		assert.Equal(t, models.DiffStats{}, stats)
	}
}

func TestEngine_EmptyInput(t *testing.T) {
	engine := NewEngine()

	spans, stats := engine.Diff("", "", ModeLine)
	assert.Empty(t, spans)
	assert.Equal(t, models.DiffStats{}, stats)
}

func TestEngine_Deterministic(t *testing.T) {
	engine := NewEngine()
	source := strings.Repeat("line a\nline b\nline c\n", 50)
	target := strings.Repeat("line a\nline B\nline c\n", 50)

	first, _ := engine.Diff(source, target, ModeCharacter)
	second, _ := engine.Diff(source, target, ModeCharacter)
	assert.Equal(t, first, second)
}

func TestEngine_StatsCountNewlinesNotLines(t *testing.T) {
	engine := NewEngine()

	// The inserted fragment carries no newline, so it contributes nothing
	// to the addition count even though text changed.
	spans, stats := engine.Diff("abc", "abxc", ModeCharacter)
	assert.True(t, hasChanges(spans))
	assert.Equal(t, models.DiffStats{}, stats)
}

func TestEngine_Compare(t *testing.T) {
	engine := NewEngine()

	diff := engine.Compare("sections/header.liquid", "foo\nbar\n", "foo\nbaz\n", ModeLine)

	assert.Equal(t, "sections/header.liquid", diff.Key)
	assert.True(t, diff.Differs)
	assert.Equal(t, 2, diff.Stats.LinesChanged)
}

func TestEngine_Compare_EmptySideNeverDiffers(t *testing.T) {
	engine := NewEngine()

	diff := engine.Compare("assets/new.js", "", "var x = 1;\n", ModeLine)
	assert.False(t, diff.Differs, "empty source side must not count as differing")

	diff = engine.Compare("assets/gone.js", "var x = 1;\n", "", ModeLine)
	assert.False(t, diff.Differs, "empty target side must not count as differing")

	diff = engine.Compare("assets/same.js", "var x = 1;\n", "var x = 1;\n", ModeLine)
	assert.False(t, diff.Differs)
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeCharacter, ParseMode("character"))
	assert.Equal(t, ModeCharacter, ParseMode("char"))
	assert.Equal(t, ModeLine, ParseMode("line"))
	assert.Equal(t, ModeLine, ParseMode(""))
}

func TestNormalizeLineEndings(t *testing.T) {
	assert.Equal(t, "a\nb\nc\n", NormalizeLineEndings("a\r\nb\rc\n"))
	assert.Equal(t, "", NormalizeLineEndings(""))
}

func TestStripTrailingWhitespace(t *testing.T) {
	assert.Equal(t, "a\nb\n", StripTrailingWhitespace("a  \nb\t\n"))
	assert.Equal(t, "no newline", StripTrailingWhitespace("no newline  "))
	assert.Equal(t, "", StripTrailingWhitespace(""))
}
