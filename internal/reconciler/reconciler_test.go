package reconciler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aleister1102/themediff/internal/common"
	"github.com/aleister1102/themediff/internal/config"
	"github.com/aleister1102/themediff/internal/limiter"
	"github.com/aleister1102/themediff/internal/models"
	"github.com/aleister1102/themediff/internal/themestore"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeListings serves per-theme asset listings; a nil slice means the
// listing call fails.
func newTestReconciler(t *testing.T, listings map[int64][]string) *Reconciler {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var themeID int64
		if _, err := fmt.Sscanf(r.URL.Path, "/themes/%d/assets.json", &themeID); err != nil {
			http.Error(w, "bad path", http.StatusBadRequest)
			return
		}
		keys, ok := listings[themeID]
		if !ok || keys == nil {
			http.Error(w, "listing unavailable", http.StatusInternalServerError)
			return
		}
		assets := make([]models.Asset, 0, len(keys))
		for _, key := range keys {
			assets = append(assets, models.Asset{Key: key})
		}
		_ = json.NewEncoder(w).Encode(map[string][]models.Asset{"assets": assets})
	}))
	t.Cleanup(server.Close)

	queue := limiter.NewFetchQueue(limiter.Config{MinInterval: time.Millisecond}, zerolog.Nop())
	t.Cleanup(queue.Close)

	cfg := config.NewDefaultStoreConfig()
	cfg.BaseURL = server.URL
	cfg.AccessToken = "tok"
	cfg.EnableHTTP2 = false

	store, err := themestore.NewStore(cfg, queue, zerolog.Nop())
	require.NoError(t, err)

	return NewReconciler(store, zerolog.Nop())
}

func TestIntersect_DisjointAndShared(t *testing.T) {
	r := newTestReconciler(t, map[int64][]string{
		1: {"only-source-1.liquid", "shared-a.liquid", "only-source-2.js", "shared-b.json"},
		2: {"shared-b.json", "only-target.liquid", "shared-a.liquid"},
	})

	keys, err := r.Intersect(context.Background(), 1, 2)
	require.NoError(t, err)
	// Source-listing order, source-only and target-only keys dropped.
	assert.Equal(t, []string{"shared-a.liquid", "shared-b.json"}, keys)
}

func TestIntersect_EmptySides(t *testing.T) {
	r := newTestReconciler(t, map[int64][]string{
		1: {},
		2: {"a.liquid"},
	})

	keys, err := r.Intersect(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestIntersect_ListingFailureIsFatal(t *testing.T) {
	r := newTestReconciler(t, map[int64][]string{
		1: {"a.liquid"},
		// theme 2 has no listing: the call fails
	})

	_, err := r.Intersect(context.Background(), 1, 2)
	require.Error(t, err)

	var listingErr *common.ListingError
	require.ErrorAs(t, err, &listingErr)
	assert.Equal(t, int64(2), listingErr.ThemeID)
}

func TestIntersectFiltered_ExtensionAllowList(t *testing.T) {
	r := newTestReconciler(t, map[int64][]string{
		1: {"a.json", "b.liquid", "c.txt"},
		2: {"a.json", "b.liquid", "c.txt"},
	})

	keys, err := r.IntersectFiltered(context.Background(), 1, 2, []string{".js", ".json", ".liquid"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.liquid"}, keys)
}

func TestIntersectFiltered_EmptyAllowListKeepsEverything(t *testing.T) {
	r := newTestReconciler(t, map[int64][]string{
		1: {"a.txt", "b.liquid"},
		2: {"a.txt", "b.liquid"},
	})

	keys, err := r.IntersectFiltered(context.Background(), 1, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.liquid"}, keys)
}

func TestFilterByExtension(t *testing.T) {
	keys := []string{"a.json", "b.liquid", "c.txt", "d.js"}

	filtered := FilterByExtension(keys, []string{".js", ".json", ".liquid"})
	assert.Equal(t, []string{"a.json", "b.liquid", "d.js"}, filtered)

	// Empty allow-list keeps the input untouched.
	assert.Equal(t, keys, FilterByExtension(keys, nil))
}
