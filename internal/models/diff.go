package models

// DiffOperation defines the type of change.
type DiffOperation int

const (
	// DiffEqual indicates an unchanged segment.
	DiffEqual DiffOperation = 0
	// DiffInsert indicates an inserted segment.
	DiffInsert DiffOperation = 1
	// DiffDelete indicates a deleted segment.
	DiffDelete DiffOperation = -1
)

// DiffSpan is a contiguous run of equal, inserted, or deleted content.
type DiffSpan struct {
	Operation DiffOperation `json:"operation"`
	Text      string        `json:"text"`
}

// DiffStats holds aggregate change counts for one file diff.
//
// Additions and Deletions count newline occurrences inside insert and
// delete spans respectively, not semantic lines: a span without a trailing
// newline contributes 0 even when it holds text. LinesChanged is always
// Additions + Deletions.
type DiffStats struct {
	Additions    int `json:"additions"`
	Deletions    int `json:"deletions"`
	LinesChanged int `json:"linesChanged"`
}

// FileDiff is the structured result of diffing one asset across two themes.
type FileDiff struct {
	Key        string     `json:"key"`
	SourceBody string     `json:"sourceBody"`
	TargetBody string     `json:"targetBody"`
	Spans      []DiffSpan `json:"spans"`
	Stats      DiffStats  `json:"stats"`
	Differs    bool       `json:"differs"`
}
