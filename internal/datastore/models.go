package datastore

import "time"

type sqlComparison struct {
	ID              string `gorm:"primaryKey"`
	Shop            string `gorm:"index"`
	Title           string
	SourceTheme     int64
	TargetTheme     int64
	DifferenceCount int

	Files []sqlComparisonFile `gorm:"foreignKey:ComparisonID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type sqlComparisonFile struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	ComparisonID string `gorm:"index"`
	// Position preserves the processing order of differing keys.
	Position int
	Key      string
	DiffBody string

	CreatedAt time.Time
}
