package differ

import (
	"strings"

	"github.com/aleister1102/themediff/internal/models"
)

// CalculateStats computes aggregate change counts from a span sequence.
//
// Counting is by newline occurrence, not semantic line: an insert or
// delete span contributes one per "\n" in its text, so a span without a
// trailing newline contributes nothing even when it holds text. Downstream
// consumers rely on this exact counting, so it must not be "fixed" to
// count lines.
func CalculateStats(spans []models.DiffSpan) models.DiffStats {
	stats := models.DiffStats{}

	for _, span := range spans {
		switch span.Operation {
		case models.DiffInsert:
			stats.Additions += strings.Count(span.Text, "\n")
		case models.DiffDelete:
			stats.Deletions += strings.Count(span.Text, "\n")
		}
	}

	stats.LinesChanged = stats.Additions + stats.Deletions
	return stats
}
