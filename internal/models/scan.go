package models

// FileResult is the per-key outcome of a scan: either a diff or an error,
// never both. Errors are non-fatal to the scan that produced them.
type FileResult struct {
	Diff  *FileDiff `json:"diff,omitempty"`
	Error string    `json:"error,omitempty"`
}

// Failed reports whether this entry recorded a per-file failure.
func (fr FileResult) Failed() bool {
	return fr.Error != ""
}

// ScanReport is the final aggregated result of one theme comparison scan.
type ScanReport struct {
	// AllKeys is the raw intersection before the extension filter is
	// applied, in source-listing order.
	AllKeys []string `json:"allKeys"`
	// ScannedCount counts every processed key, including failed ones.
	ScannedCount int `json:"scannedCount"`
	// DifferingKeys lists keys whose diff had at least one non-equal span,
	// in processing order. Always a subset of AllKeys; never contains a
	// key that recorded a per-file error.
	DifferingKeys []string `json:"differingKeys"`
	// PerFile maps each processed key to its outcome.
	PerFile map[string]FileResult `json:"perFile"`
}

// Scan stages as carried on the progress stream.
const (
	StageScanning = "scanning"
	StageDiffing  = "diffing"
	StageIdle     = "idle"
)

// ProgressEvent is one line of the newline-delimited JSON progress stream.
// Consumers treat any event without Done as a transient update.
type ProgressEvent struct {
	Stage        string                `json:"stage,omitempty"`
	ScannedFiles int                   `json:"scannedFiles"`
	DiffedFiles  int                   `json:"diffedFiles"`
	CurrentFile  string                `json:"currentFile,omitempty"`
	TotalFiles   int                   `json:"totalFiles,omitempty"`
	Error        string                `json:"error,omitempty"`
	Done         bool                  `json:"done,omitempty"`
	Files        []string              `json:"files,omitempty"`
	DiffContents map[string][]DiffSpan `json:"diffContents,omitempty"`
}
