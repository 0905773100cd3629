package scanner

import (
	"context"

	"github.com/aleister1102/themediff/internal/common"
	"github.com/aleister1102/themediff/internal/config"
	"github.com/aleister1102/themediff/internal/differ"
	"github.com/aleister1102/themediff/internal/models"
	"github.com/aleister1102/themediff/internal/reconciler"
	"github.com/aleister1102/themediff/internal/themestore"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Input identifies the theme pair for one scan.
type Input struct {
	SourceTheme int64
	TargetTheme int64
}

// Scanner drives one comparison scan: reconcile the two asset sets, fetch
// and diff each shared file, and stream progress to a sink. Per-file
// failures are recorded and skipped; only auth and listing failures abort
// a scan.
//
// A scanner processes keys one at a time. The only fan-out is the
// source/target fetch pair per file, and even those serialize through the
// shared fetch queue.
type Scanner struct {
	store      *themestore.Store
	reconciler *reconciler.Reconciler
	engine     *differ.Engine
	cfg        config.DiffConfig
	logger     zerolog.Logger
}

// NewScanner creates a new scanner
func NewScanner(
	store *themestore.Store,
	rec *reconciler.Reconciler,
	engine *differ.Engine,
	cfg config.DiffConfig,
	logger zerolog.Logger,
) *Scanner {
	if cfg.ProgressEveryFiles <= 0 {
		cfg.ProgressEveryFiles = config.DefaultProgressEveryFiles
	}
	return &Scanner{
		store:      store,
		reconciler: rec,
		engine:     engine,
		cfg:        cfg,
		logger:     logger.With().Str("component", "Scanner").Logger(),
	}
}

// Count returns the filtered intersection size without fetching any
// content. This is the cheap path for callers that only want a total.
func (s *Scanner) Count(ctx context.Context, in Input) (int, error) {
	if !s.store.HasCredentials() {
		return 0, common.ErrNoCredentials
	}

	keys, err := s.reconciler.IntersectFiltered(ctx, in.SourceTheme, in.TargetTheme, s.cfg.AllowedExtensions)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Scan runs the full comparison. Fatal errors (credentials, listing)
// return before any event reaches the sink; after the first event the
// scan either completes with a final done event or stops because the sink
// or context failed.
func (s *Scanner) Scan(ctx context.Context, in Input, sink EventSink) (*models.ScanReport, error) {
	if !s.store.HasCredentials() {
		return nil, common.ErrNoCredentials
	}

	allKeys, err := s.reconciler.Intersect(ctx, in.SourceTheme, in.TargetTheme)
	if err != nil {
		return nil, err
	}
	// The report keeps the raw intersection; only filtered keys are
	// fetched and counted.
	keys := reconciler.FilterByExtension(allKeys, s.cfg.AllowedExtensions)

	report := &models.ScanReport{
		AllKeys: allKeys,
		PerFile: make(map[string]models.FileResult, len(keys)),
	}

	if err := sink.Emit(models.ProgressEvent{
		Stage:      models.StageScanning,
		TotalFiles: len(keys),
	}); err != nil {
		return nil, common.WrapError(err, "progress stream closed")
	}

	diffContents := make(map[string][]models.DiffSpan)
	sinceLastEvent := 0

	for _, key := range keys {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		sourceBody, targetBody, fetchErr := s.fetchPair(ctx, in, key)
		report.ScannedCount++
		sinceLastEvent++

		if fetchErr != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn().
				Err(fetchErr).
				Str("key", key).
				Int64("source_theme", in.SourceTheme).
				Int64("target_theme", in.TargetTheme).
				Msg("Per-file fetch failed, continuing scan")

			report.PerFile[key] = models.FileResult{Error: fetchErr.Error()}
			if err := s.emitProgress(sink, report, len(diffContents), key, fetchErr.Error()); err != nil {
				return nil, err
			}
			sinceLastEvent = 0
			continue
		}

		// Absent on both sides: the key contributes nothing to results.
		if sourceBody == "" && targetBody == "" {
			continue
		}

		fileDiff := s.engine.Compare(key, s.normalize(sourceBody), s.normalize(targetBody), differ.ModeLine)
		report.PerFile[key] = models.FileResult{Diff: fileDiff}

		if fileDiff.Differs {
			report.DifferingKeys = append(report.DifferingKeys, key)
			diffContents[key] = fileDiff.Spans

			if err := s.emitProgress(sink, report, len(diffContents), key, ""); err != nil {
				return nil, err
			}
			sinceLastEvent = 0
		} else if sinceLastEvent >= s.cfg.ProgressEveryFiles {
			if err := s.emitProgress(sink, report, len(diffContents), key, ""); err != nil {
				return nil, err
			}
			sinceLastEvent = 0
		}
	}

	finalEvent := models.ProgressEvent{
		Stage:        models.StageIdle,
		ScannedFiles: report.ScannedCount,
		DiffedFiles:  len(report.DifferingKeys),
		Done:         true,
		Files:        report.DifferingKeys,
		DiffContents: diffContents,
	}
	if err := sink.Emit(finalEvent); err != nil {
		return nil, common.WrapError(err, "progress stream closed")
	}

	s.logger.Info().
		Int("scanned", report.ScannedCount).
		Int("differing", len(report.DifferingKeys)).
		Msg("Scan completed")

	return report, nil
}

// emitProgress sends one transient progress event
func (s *Scanner) emitProgress(sink EventSink, report *models.ScanReport, diffed int, currentFile, errMsg string) error {
	err := sink.Emit(models.ProgressEvent{
		Stage:        models.StageDiffing,
		ScannedFiles: report.ScannedCount,
		DiffedFiles:  diffed,
		CurrentFile:  currentFile,
		Error:        errMsg,
	})
	if err != nil {
		return common.WrapError(err, "progress stream closed")
	}
	return nil
}

// fetchPair fetches both sides of one key concurrently. Both calls still
// serialize through the shared fetch queue; the fan-out only overlaps
// their queue wait.
func (s *Scanner) fetchPair(ctx context.Context, in Input, key string) (string, string, error) {
	var sourceBody, targetBody string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		body, _, err := s.store.GetAsset(gctx, in.SourceTheme, key)
		if err != nil {
			return common.WrapErrorf(err, "source theme %d", in.SourceTheme)
		}
		sourceBody = body
		return nil
	})
	g.Go(func() error {
		body, _, err := s.store.GetAsset(gctx, in.TargetTheme, key)
		if err != nil {
			return common.WrapErrorf(err, "target theme %d", in.TargetTheme)
		}
		targetBody = body
		return nil
	})

	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return sourceBody, targetBody, nil
}

// normalize applies the configured pre-diff text normalization
func (s *Scanner) normalize(body string) string {
	body = differ.NormalizeLineEndings(body)
	if s.cfg.StripTrailingWhitespace {
		body = differ.StripTrailingWhitespace(body)
	}
	return body
}
