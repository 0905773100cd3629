package differ

import (
	"github.com/aleister1102/themediff/internal/models"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Mode selects the diff granularity.
type Mode int

const (
	// ModeLine diffs whole lines; each span holds full lines with their
	// trailing newlines.
	ModeLine Mode = iota
	// ModeCharacter diffs characters, then merges trivial fragmentary
	// edits into larger human-readable spans.
	ModeCharacter
)

// ParseMode maps a request string to a Mode. Unknown values fall back to
// line mode.
func ParseMode(s string) Mode {
	if s == "character" || s == "char" {
		return ModeCharacter
	}
	return ModeLine
}

// Engine computes structured diffs between two text bodies. The engine is
// pure: identical inputs always yield byte-identical output, and callers
// decide whether to normalize text beforehand.
type Engine struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// NewEngine creates a new diff engine
func NewEngine() *Engine {
	dmp := diffmatchpatch.New()
	// A cutoff would make output depend on machine speed; disable it so
	// identical inputs always produce identical spans.
	dmp.DiffTimeout = 0
	return &Engine{dmp: dmp}
}

// Diff computes the span sequence and statistics for one text pair.
func (e *Engine) Diff(source, target string, mode Mode) ([]models.DiffSpan, models.DiffStats) {
	var diffs []diffmatchpatch.Diff
	switch mode {
	case ModeCharacter:
		diffs = e.dmp.DiffMain(source, target, false)
		diffs = e.dmp.DiffCleanupSemantic(diffs)
	default:
		diffs = e.diffLines(source, target)
	}

	spans := toSpans(diffs)
	return spans, CalculateStats(spans)
}

// Compare diffs one asset's two bodies and assembles the full per-file
// result.
//
// A file only counts as differing when at least one non-equal span exists
// AND both bodies are non-empty: a side that fetched as empty is treated
// as not comparable rather than as a wholesale change.
func (e *Engine) Compare(key, sourceBody, targetBody string, mode Mode) *models.FileDiff {
	spans, stats := e.Diff(sourceBody, targetBody, mode)

	return &models.FileDiff{
		Key:        key,
		SourceBody: sourceBody,
		TargetBody: targetBody,
		Spans:      spans,
		Stats:      stats,
		Differs:    hasChanges(spans) && sourceBody != "" && targetBody != "",
	}
}

// diffLines runs the line-granularity diff: both texts are mapped to
// line-indexed runes, diffed, and mapped back so spans carry whole lines.
func (e *Engine) diffLines(source, target string) []diffmatchpatch.Diff {
	srcRunes, dstRunes, lineArray := e.dmp.DiffLinesToChars(source, target)
	diffs := e.dmp.DiffMain(srcRunes, dstRunes, false)
	return e.dmp.DiffCharsToLines(diffs, lineArray)
}

// toSpans converts library diffs to the model representation
func toSpans(diffs []diffmatchpatch.Diff) []models.DiffSpan {
	spans := make([]models.DiffSpan, 0, len(diffs))
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		spans = append(spans, models.DiffSpan{
			Operation: toOperation(d.Type),
			Text:      d.Text,
		})
	}
	return spans
}

// toOperation maps a library operation to the model operation
func toOperation(op diffmatchpatch.Operation) models.DiffOperation {
	switch op {
	case diffmatchpatch.DiffInsert:
		return models.DiffInsert
	case diffmatchpatch.DiffDelete:
		return models.DiffDelete
	default:
		return models.DiffEqual
	}
}

// hasChanges reports whether any non-equal span exists
func hasChanges(spans []models.DiffSpan) bool {
	for _, span := range spans {
		if span.Operation != models.DiffEqual {
			return true
		}
	}
	return false
}
