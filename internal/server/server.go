package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aleister1102/themediff/internal/common"
	"github.com/aleister1102/themediff/internal/config"
	"github.com/aleister1102/themediff/internal/datastore"
	"github.com/aleister1102/themediff/internal/differ"
	"github.com/aleister1102/themediff/internal/scanner"
	"github.com/aleister1102/themediff/internal/themestore"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Server exposes the comparison pipeline over HTTP.
type Server struct {
	cfg    config.ServerConfig
	store  *themestore.Store
	scan   *scanner.Scanner
	engine *differ.Engine
	repo   *datastore.ComparisonStore
	logger zerolog.Logger

	router *gin.Engine
	http   *http.Server
}

// NewServer wires the HTTP surface on top of the pipeline components.
func NewServer(
	cfg config.ServerConfig,
	store *themestore.Store,
	scan *scanner.Scanner,
	engine *differ.Engine,
	repo *datastore.ComparisonStore,
	logger zerolog.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:    cfg,
		store:  store,
		scan:   scan,
		engine: engine,
		repo:   repo,
		logger: logger.With().Str("component", "Server").Logger(),
	}

	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.initRoutes(s.router)

	return s
}

func (s *Server) initRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.GET("/themes", s.handleListThemes)

	api.GET("/compare/count", s.handleCompareCount)
	api.GET("/compare/stream", s.handleCompareStream)

	api.POST("/diff", s.handleDirectDiff)

	api.POST("/comparisons", s.handleCreateComparison)
	api.GET("/comparisons", s.handleListComparisons)
	api.GET("/comparisons/:id", s.handleGetComparison)
	api.DELETE("/comparisons/:id", s.handleDeleteComparison)
}

// Router returns the underlying handler, used in tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins serving and blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info().Int("port", s.cfg.Port).Msg("HTTP server starting")

	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	s.logger.Info().Msg("HTTP server shutting down")
	return s.http.Shutdown(ctx)
}

// sendError maps pipeline errors onto HTTP statuses.
func sendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, common.ErrNoCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		var listingErr *common.ListingError
		if errors.As(err, &listingErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
