package server

import (
	"encoding/json"
	"net/http"

	"github.com/aleister1102/themediff/internal/datastore"
	"github.com/aleister1102/themediff/internal/differ"
	"github.com/aleister1102/themediff/internal/models"
	"github.com/aleister1102/themediff/internal/scanner"
	"github.com/gin-gonic/gin"
)

type comparePairParams struct {
	Source int64 `form:"source" binding:"required"`
	Target int64 `form:"target" binding:"required"`
}

func (s *Server) handleListThemes(c *gin.Context) {
	themes, err := s.store.ListThemes(c.Request.Context())
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"themes": themes})
}

func (s *Server) handleCompareCount(c *gin.Context) {
	var params comparePairParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	total, err := s.scan.Count(c.Request.Context(), scanner.Input{
		SourceTheme: params.Source,
		TargetTheme: params.Target,
	})
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalFiles": total})
}

// handleCompareStream runs a full scan and streams progress as NDJSON.
// Fatal errors surface as a JSON error response only while nothing has
// been written yet; once the stream started, the connection just ends.
func (s *Server) handleCompareStream(c *gin.Context) {
	var params comparePairParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sink := scanner.NewNDJSONSink(c.Writer)
	_, err := s.scan.Scan(c.Request.Context(), scanner.Input{
		SourceTheme: params.Source,
		TargetTheme: params.Target,
	}, &ndjsonStream{c: c, sink: sink})
	if err != nil {
		if sink.Events() == 0 {
			sendError(c, err)
			return
		}
		s.logger.Warn().Err(err).Msg("Scan stream ended early")
	}
}

// ndjsonStream sets the stream headers together with the first event, so
// a fatal error before any event still goes out as a plain JSON response
// with its own content type.
type ndjsonStream struct {
	c    *gin.Context
	sink *scanner.NDJSONSink
}

func (s *ndjsonStream) Emit(event models.ProgressEvent) error {
	if s.sink.Events() == 0 {
		s.c.Header("Content-Type", "application/x-ndjson")
		s.c.Header("Cache-Control", "no-cache")
	}
	return s.sink.Emit(event)
}

type directDiffRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Mode   string `json:"mode"`
}

func (s *Server) handleDirectDiff(c *gin.Context) {
	var req directDiffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fileDiff := s.engine.Compare("", req.Source, req.Target, differ.ParseMode(req.Mode))
	c.JSON(http.StatusOK, fileDiff)
}

type createComparisonRequest struct {
	Shop         string                       `json:"shop"`
	Title        string                       `json:"title"`
	SourceTheme  int64                        `json:"sourceTheme" binding:"required"`
	TargetTheme  int64                        `json:"targetTheme" binding:"required"`
	Files        []string                     `json:"files"`
	DiffContents map[string][]models.DiffSpan `json:"diffContents"`
}

func (s *Server) handleCreateComparison(c *gin.Context) {
	var req createComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shop := req.Shop
	if shop == "" {
		shop = s.store.Shop()
	}

	bodies := make(map[string]string, len(req.DiffContents))
	for key, spans := range req.DiffContents {
		encoded, err := json.Marshal(spans)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		bodies[key] = string(encoded)
	}

	record, err := s.repo.Create(datastore.CreateComparisonInput{
		Shop:        shop,
		Title:       req.Title,
		SourceTheme: req.SourceTheme,
		TargetTheme: req.TargetTheme,
		FileList:    req.Files,
		DiffBodies:  bodies,
	})
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (s *Server) handleListComparisons(c *gin.Context) {
	shop := c.Query("shop")
	if shop == "" {
		shop = s.store.Shop()
	}

	summaries, err := s.repo.List(shop)
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comparisons": summaries})
}

func (s *Server) handleGetComparison(c *gin.Context) {
	record, err := s.repo.Get(c.Param("id"))
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) handleDeleteComparison(c *gin.Context) {
	if err := s.repo.Delete(c.Param("id")); err != nil {
		sendError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
