package models

import "time"

// ComparisonSummary is the listing view of a saved comparison.
type ComparisonSummary struct {
	ID              string    `json:"id"`
	Shop            string    `json:"shop"`
	Title           string    `json:"title"`
	SourceTheme     int64     `json:"sourceTheme"`
	TargetTheme     int64     `json:"targetTheme"`
	DifferenceCount int       `json:"differenceCount"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ComparisonRecord persists a finished comparison the caller chose to save.
// Never mutated after creation; deleted as a whole unit by ID.
type ComparisonRecord struct {
	ComparisonSummary
	// FileList holds the differing keys in processing order.
	FileList []string `json:"fileList"`
	// DiffBodies maps each differing key to its serialized diff spans.
	DiffBodies map[string]string `json:"diffBodies,omitempty"`
}
