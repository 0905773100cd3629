package datastore

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/aleister1102/themediff/internal/common"
	"github.com/aleister1102/themediff/internal/config"
	"github.com/aleister1102/themediff/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ComparisonStore persists finished comparisons the caller chose to save.
// Records are created once, never mutated, and deleted as a whole unit
// together with their per-file rows.
type ComparisonStore struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewComparisonStore opens (or creates) the sqlite database at the
// configured path.
func NewComparisonStore(cfg config.StorageConfig, logger zerolog.Logger) (*ComparisonStore, error) {
	if cfg.SQLiteDBPath == "" {
		return nil, common.NewValidationError("sqlite_db_path", cfg.SQLiteDBPath, "database path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.SQLiteDBPath), 0o755); err != nil {
		return nil, common.WrapError(err, "failed to create database directory")
	}
	return open(sqlite.Open(cfg.SQLiteDBPath+"?_pragma=journal_mode(WAL)"), logger)
}

// NewComparisonStoreInMemory opens an in-memory store, used in tests.
func NewComparisonStoreInMemory(logger zerolog.Logger) (*ComparisonStore, error) {
	return open(sqlite.Open(":memory:"), logger)
}

func open(dialector gorm.Dialector, logger zerolog.Logger) (*ComparisonStore, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, common.WrapError(err, "failed to open comparison database")
	}

	if err := db.AutoMigrate(&sqlComparison{}, &sqlComparisonFile{}); err != nil {
		return nil, common.WrapError(err, "failed to migrate comparison schema")
	}

	return &ComparisonStore{
		db:     db,
		logger: logger.With().Str("component", "ComparisonStore").Logger(),
	}, nil
}

// CreateComparisonInput holds everything needed to persist one comparison.
type CreateComparisonInput struct {
	Shop        string
	Title       string
	SourceTheme int64
	TargetTheme int64
	// FileList holds differing keys in processing order.
	FileList []string
	// DiffBodies maps each differing key to its serialized diff spans.
	DiffBodies map[string]string
}

// Create persists a finished comparison with its per-file diff bodies.
func (s *ComparisonStore) Create(in CreateComparisonInput) (*models.ComparisonRecord, error) {
	row := sqlComparison{
		ID:              uuid.NewString(),
		Shop:            in.Shop,
		Title:           in.Title,
		SourceTheme:     in.SourceTheme,
		TargetTheme:     in.TargetTheme,
		DifferenceCount: len(in.FileList),
	}
	for i, key := range in.FileList {
		row.Files = append(row.Files, sqlComparisonFile{
			Position: i,
			Key:      key,
			DiffBody: in.DiffBodies[key],
		})
	}

	if err := s.db.Create(&row).Error; err != nil {
		return nil, common.WrapError(err, "failed to create comparison record")
	}

	s.logger.Info().
		Str("id", row.ID).
		Str("shop", row.Shop).
		Int("differences", row.DifferenceCount).
		Msg("Comparison record created")

	return toRecord(&row), nil
}

// List returns saved comparison summaries for one shop, most recent first.
func (s *ComparisonStore) List(shop string) ([]models.ComparisonSummary, error) {
	var rows []sqlComparison
	err := s.db.
		Where("shop = ?", shop).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, common.WrapError(err, "failed to list comparison records")
	}

	summaries := make([]models.ComparisonSummary, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, toSummary(&rows[i]))
	}
	return summaries, nil
}

// Get loads one full comparison record including per-file diff bodies.
func (s *ComparisonStore) Get(id string) (*models.ComparisonRecord, error) {
	var row sqlComparison
	err := s.db.
		Preload("Files", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(err, "failed to load comparison record")
	}
	return toRecord(&row), nil
}

// Delete removes one comparison and all of its per-file rows.
func (s *ComparisonStore) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comparison_id = ?", id).Delete(&sqlComparisonFile{}).Error; err != nil {
			return common.WrapError(err, "failed to delete comparison files")
		}

		result := tx.Delete(&sqlComparison{ID: id})
		if result.Error != nil {
			return common.WrapError(result.Error, "failed to delete comparison record")
		}
		if result.RowsAffected == 0 {
			return common.ErrNotFound
		}

		s.logger.Info().Str("id", id).Msg("Comparison record deleted")
		return nil
	})
}

func toSummary(row *sqlComparison) models.ComparisonSummary {
	return models.ComparisonSummary{
		ID:              row.ID,
		Shop:            row.Shop,
		Title:           row.Title,
		SourceTheme:     row.SourceTheme,
		TargetTheme:     row.TargetTheme,
		DifferenceCount: row.DifferenceCount,
		CreatedAt:       row.CreatedAt,
	}
}

func toRecord(row *sqlComparison) *models.ComparisonRecord {
	record := &models.ComparisonRecord{
		ComparisonSummary: toSummary(row),
		FileList:          make([]string, 0, len(row.Files)),
		DiffBodies:        make(map[string]string, len(row.Files)),
	}
	for _, file := range row.Files {
		record.FileList = append(record.FileList, file.Key)
		record.DiffBodies[file.Key] = file.DiffBody
	}
	return record
}
