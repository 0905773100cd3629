package themestore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aleister1102/themediff/internal/common"
	"github.com/aleister1102/themediff/internal/config"
	"github.com/aleister1102/themediff/internal/limiter"
	"github.com/aleister1102/themediff/internal/models"
	"github.com/rs/zerolog"
)

// Store accesses the remote theme asset store. Every remote call is routed
// through the shared fetch queue, so callers never talk to the store
// directly.
type Store struct {
	client  *Client
	queue   *limiter.FetchQueue
	baseURL string
	shop    string
	logger  zerolog.Logger

	hasCredentials bool
}

// NewStore creates a store bound to the shared fetch queue.
func NewStore(cfg config.StoreConfig, queue *limiter.FetchQueue, logger zerolog.Logger) (*Store, error) {
	if cfg.BaseURL == "" {
		return nil, common.NewValidationError("base_url", cfg.BaseURL, "store base URL cannot be empty")
	}

	client, err := NewClient(ClientConfig{
		Timeout:     time.Duration(cfg.TimeoutSecs) * time.Second,
		EnableHTTP2: cfg.EnableHTTP2,
		AuthHeader:  cfg.AuthHeader,
		AccessToken: cfg.AccessToken,
	}, logger)
	if err != nil {
		return nil, common.WrapError(err, "failed to create store client")
	}

	return &Store{
		client:         client,
		queue:          queue,
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		shop:           cfg.Shop,
		logger:         logger.With().Str("component", "ThemeStore").Logger(),
		hasCredentials: cfg.AccessToken != "",
	}, nil
}

// HasCredentials reports whether a usable access token is configured.
func (s *Store) HasCredentials() bool {
	return s.hasCredentials
}

// Shop returns the credential scope this store is bound to.
func (s *Store) Shop() string {
	return s.shop
}

type themesPayload struct {
	Themes []models.ThemeRef `json:"themes"`
}

type assetsPayload struct {
	Assets []models.Asset `json:"assets"`
}

type assetPayload struct {
	Asset struct {
		Key        string  `json:"key"`
		Value      *string `json:"value"`
		Attachment *string `json:"attachment"`
	} `json:"asset"`
}

// ListThemes fetches the shop's theme list.
func (s *Store) ListThemes(ctx context.Context) ([]models.ThemeRef, error) {
	var payload themesPayload
	err := s.queue.Do(ctx, "list_themes", func(ctx context.Context) error {
		return s.client.GetJSON(ctx, s.baseURL+"/themes.json", &payload)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list themes")
		return nil, err
	}
	return payload.Themes, nil
}

// ListAssets fetches one theme's full asset listing.
func (s *Store) ListAssets(ctx context.Context, themeID int64) ([]models.Asset, error) {
	endpoint := fmt.Sprintf("%s/themes/%d/assets.json", s.baseURL, themeID)

	var payload assetsPayload
	err := s.queue.Do(ctx, fmt.Sprintf("list_assets theme=%d", themeID), func(ctx context.Context) error {
		return s.client.GetJSON(ctx, endpoint, &payload)
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("theme_id", themeID).
			Msg("Failed to list theme assets")
		return nil, err
	}
	return payload.Assets, nil
}

// GetAsset fetches one asset's body. The store may return the body inline
// (value), as base64 (attachment), or not at all; absence is reported via
// present=false, not an error.
func (s *Store) GetAsset(ctx context.Context, themeID int64, key string) (body string, present bool, err error) {
	endpoint := fmt.Sprintf("%s/themes/%d/assets.json?asset[key]=%s",
		s.baseURL, themeID, url.QueryEscape(key))

	var payload assetPayload
	err = s.queue.Do(ctx, fmt.Sprintf("get_asset theme=%d key=%s", themeID, key), func(ctx context.Context) error {
		return s.client.GetJSON(ctx, endpoint, &payload)
	})
	if err != nil {
		if isNotFound(err) {
			return "", false, nil
		}
		s.logger.Error().
			Err(err).
			Int64("theme_id", themeID).
			Str("key", key).
			Msg("Failed to fetch asset")
		return "", false, err
	}

	if payload.Asset.Value != nil {
		return *payload.Asset.Value, true, nil
	}
	if payload.Asset.Attachment != nil {
		decoded, decodeErr := base64.StdEncoding.DecodeString(*payload.Asset.Attachment)
		if decodeErr != nil {
			return "", false, common.WrapErrorf(decodeErr, "failed to decode attachment for key '%s'", key)
		}
		return string(decoded), true, nil
	}
	return "", false, nil
}

// isNotFound checks for an HTTP 404 from the store
func isNotFound(err error) bool {
	var httpErr *common.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusNotFound
	}
	return false
}
