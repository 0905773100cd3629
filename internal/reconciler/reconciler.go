package reconciler

import (
	"context"
	"strings"

	"github.com/aleister1102/themediff/internal/common"
	"github.com/aleister1102/themediff/internal/models"
	"github.com/aleister1102/themediff/internal/themestore"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Reconciler computes the set of asset keys present in both compared
// themes. It issues exactly one listing call per theme; content is never
// fetched here.
type Reconciler struct {
	store  *themestore.Store
	logger zerolog.Logger
}

// NewReconciler creates a new reconciler
func NewReconciler(store *themestore.Store, logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		store:  store,
		logger: logger.With().Str("component", "Reconciler").Logger(),
	}
}

// Intersect lists both themes and returns the keys present in both, in
// source-listing order. If either listing call fails the whole operation
// fails with a ListingError; there is no partial result.
func (r *Reconciler) Intersect(ctx context.Context, sourceTheme, targetTheme int64) ([]string, error) {
	sourceAssets, err := r.store.ListAssets(ctx, sourceTheme)
	if err != nil {
		return nil, common.NewListingError(sourceTheme, err)
	}

	targetAssets, err := r.store.ListAssets(ctx, targetTheme)
	if err != nil {
		return nil, common.NewListingError(targetTheme, err)
	}

	targetByKey := lo.KeyBy(targetAssets, func(a models.Asset) string {
		return a.Key
	})

	intersection := make([]string, 0, len(sourceAssets))
	for _, asset := range sourceAssets {
		if _, ok := targetByKey[asset.Key]; ok {
			intersection = append(intersection, asset.Key)
		}
	}

	r.logger.Debug().
		Int64("source_theme", sourceTheme).
		Int64("target_theme", targetTheme).
		Int("source_assets", len(sourceAssets)).
		Int("target_assets", len(targetAssets)).
		Int("intersection", len(intersection)).
		Msg("Computed asset intersection")

	return intersection, nil
}

// IntersectFiltered computes the intersection and drops keys whose suffix
// is not on the extension allow-list, before any content fetch happens.
func (r *Reconciler) IntersectFiltered(ctx context.Context, sourceTheme, targetTheme int64, allowedExtensions []string) ([]string, error) {
	intersection, err := r.Intersect(ctx, sourceTheme, targetTheme)
	if err != nil {
		return nil, err
	}

	filtered := FilterByExtension(intersection, allowedExtensions)

	if len(filtered) != len(intersection) {
		r.logger.Debug().
			Int("before_filter", len(intersection)).
			Int("after_filter", len(filtered)).
			Strs("allowed_extensions", allowedExtensions).
			Msg("Applied extension filter")
	}

	return filtered, nil
}

// FilterByExtension drops keys whose suffix is not on the allow-list,
// preserving order. An empty allow-list keeps every key.
func FilterByExtension(keys []string, allowedExtensions []string) []string {
	if len(allowedExtensions) == 0 {
		return keys
	}
	return lo.Filter(keys, func(key string, _ int) bool {
		return hasAllowedExtension(key, allowedExtensions)
	})
}

// hasAllowedExtension checks whether the key's suffix matches the allow-list
func hasAllowedExtension(key string, allowedExtensions []string) bool {
	for _, ext := range allowedExtensions {
		if strings.HasSuffix(key, ext) {
			return true
		}
	}
	return false
}
