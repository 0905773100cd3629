package themestore

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/aleister1102/themediff/internal/common"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

// ClientConfig holds transport configuration for the store client
type ClientConfig struct {
	Timeout     time.Duration
	EnableHTTP2 bool
	AuthHeader  string
	AccessToken string
}

// Client is a thin HTTP client for the remote asset store. It performs
// single requests only; serialization, pacing, and retries live in the
// fetch queue.
type Client struct {
	httpClient *http.Client
	config     ClientConfig
	logger     zerolog.Logger
}

// NewClient creates a new store HTTP client with the given configuration
func NewClient(config ClientConfig, logger zerolog.Logger) (*Client, error) {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	if config.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			logger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
		} else {
			logger.Debug().Msg("HTTP/2 support enabled")
		}
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
		config: config,
		logger: logger.With().Str("component", "StoreClient").Logger(),
	}, nil
}

// GetJSON performs one GET against the store and decodes the JSON body
// into out. Non-2xx statuses surface as *common.HTTPError carrying the
// status code and a truncated response body.
func (c *Client) GetJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return common.WrapError(err, "failed to create HTTP request")
	}

	req.Header.Set("Accept", "application/json")
	if c.config.AccessToken != "" {
		req.Header.Set(c.config.AuthHeader, c.config.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return common.NewNetworkError(url, "HTTP request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return common.WrapError(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		errorBody := body
		if len(errorBody) > 1024 {
			errorBody = errorBody[:1024]
		}
		c.logger.Warn().
			Str("url", url).
			Int("status_code", resp.StatusCode).
			Msg("Received non-OK HTTP status")
		return common.NewHTTPErrorWithURL(resp.StatusCode, string(errorBody), url)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return common.WrapErrorf(err, "failed to decode response from '%s'", url)
	}
	return nil
}
