package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cognicore/tagger/pkg/tagger"
	"github.com/cognicore/tagger/pkg/tagger/display"
	"github.com/cognicore/tagger/pkg/tagger/internalerr"
	"github.com/cognicore/tagger/pkg/tagger/store"
)

const maxLinesPerRequest = 1000

// Config defines server dependencies.
type Config struct {
	Tagger         *tagger.Tagger
	AllowedOrigins []string
}

// Server wires HTTP handlers to the tagger.
type Server struct {
	tagger         *tagger.Tagger
	allowedOrigins []string
}

// NewServer constructs the API server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Tagger == nil {
		return nil, errors.New("tagger required")
	}
	return &Server{
		tagger:         cfg.Tagger,
		allowedOrigins: cfg.AllowedOrigins,
	}, nil
}

// Router configures gin routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/api/healthz", s.handleHealth)

	api := r.Group("/api")
	{
		api.POST("/parse", s.handleParse)
		api.POST("/export", s.handleExport)
		api.GET("/batches", s.handleListBatches)
		api.GET("/batches/:id", s.handleGetBatch)
	}

	return r
}

// LinesRequest is the body of /api/parse and /api/export.
type LinesRequest struct {
	Lines []string `json:"lines"`
}

// ParseResponse is returned by /api/parse.
type ParseResponse struct {
	BatchID string      `json:"batch_id"`
	Results []ResultDTO `json:"results"`
}

// ResultDTO is one decoded ingredient with its display markup.
type ResultDTO struct {
	tagger.Result
	HasQty bool   `json:"has_qty"`
	HTML   string `json:"html"`
}

// BatchDTO is a stored batch.
type BatchDTO struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Records   []RecordDTO `json:"records,omitempty"`
	Count     int         `json:"count"`
}

// RecordDTO is a stored record.
type RecordDTO struct {
	Position int     `json:"position"`
	Input    string  `json:"input"`
	Score    float64 `json:"score"`
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Qty      float64 `json:"qty"`
}

// RecordFromModel converts a stored record.
func RecordFromModel(r store.Record) RecordDTO {
	return RecordDTO{
		Position: r.Position,
		Input:    r.Input,
		Score:    r.Score,
		Name:     r.Name,
		Unit:     r.Unit,
		Qty:      r.Qty,
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleParse(c *gin.Context) {
	req, ok := s.bindLines(c)
	if !ok {
		return
	}

	start := time.Now()
	batchID, results, err := s.tagger.TagAndStore(c.Request.Context(), req.Lines)
	if err != nil {
		logrus.WithError(err).WithField("lines", len(req.Lines)).Warn("tag batch failed")
		s.renderError(c, statusFor(err), err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"batch":    batchID,
		"lines":    len(req.Lines),
		"records":  len(results),
		"duration": time.Since(start),
	}).Info("tagged batch")

	dtos := make([]ResultDTO, len(results))
	for i, r := range results {
		dtos[i] = ResultDTO{
			Result: r,
			HasQty: r.HasQuantity(),
			HTML:   renderResult(r),
		}
	}
	c.JSON(http.StatusOK, ParseResponse{BatchID: batchID, Results: dtos})
}

func (s *Server) handleExport(c *gin.Context) {
	req, ok := s.bindLines(c)
	if !ok {
		return
	}
	c.String(http.StatusOK, s.tagger.Export(req.Lines))
}

func (s *Server) handleListBatches(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit <= 0 {
		limit = 25
	}

	batches, err := s.tagger.Batches(c.Request.Context(), limit)
	if err != nil {
		s.renderError(c, statusFor(err), err)
		return
	}
	dtos := make([]BatchDTO, 0, len(batches))
	for _, b := range batches {
		dtos = append(dtos, BatchDTO{ID: b.ID, CreatedAt: b.CreatedAt, Count: b.RecordCount})
	}
	c.JSON(http.StatusOK, gin.H{"items": dtos})
}

func (s *Server) handleGetBatch(c *gin.Context) {
	batch, err := s.tagger.Batch(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.renderError(c, statusFor(err), err)
		return
	}
	records := make([]RecordDTO, len(batch.Records))
	for i, r := range batch.Records {
		records[i] = RecordFromModel(r)
	}
	c.JSON(http.StatusOK, BatchDTO{
		ID:        batch.ID,
		CreatedAt: batch.CreatedAt,
		Records:   records,
		Count:     len(records),
	})
}

func (s *Server) bindLines(c *gin.Context) (LinesRequest, bool) {
	var req LinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return req, false
	}
	if len(req.Lines) == 0 {
		s.renderError(c, http.StatusBadRequest, errors.New("lines required"))
		return req, false
	}
	if len(req.Lines) > maxLinesPerRequest {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("at most %d lines per request", maxLinesPerRequest))
		return req, false
	}
	return req, true
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, internalerr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, internalerr.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, internalerr.ErrLabelerUnavailable), errors.Is(err, internalerr.ErrMalformedStream):
		return http.StatusBadGateway
	case errors.Is(err, internalerr.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func renderResult(r tagger.Result) string {
	var groups []display.Group
	if r.HasQuantity() {
		groups = append(groups, display.Group{Tag: "qty", Tokens: []string{strconv.FormatFloat(r.Qty, 'f', -1, 64)}})
	}
	if r.Unit != "" {
		groups = append(groups, display.Group{Tag: "unit", Tokens: []string{r.Unit}})
	}
	if r.Name != "" {
		groups = append(groups, display.Group{Tag: "name", Tokens: []string{r.Name}})
	}
	return display.Ingredient(groups)
}
