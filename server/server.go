// Package server exposes query normalization and query file linting over
// HTTP.
//
//	GET  /healthz
//	POST /v1/parse        {"query": "...", "preserve_range_brackets": true}
//	POST /v1/parse/batch  {"queries": ["...", "..."]}
//	POST /v1/lint         a query file as the request body
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/luzene"
	tt "github.com/gnoswap-labs/luzene/internal/types"
)

// MaxBodyBytes bounds the size of a request body.
const MaxBodyBytes = 1 << 20

// SourceLinter lints the content of a query file.
type SourceLinter interface {
	RunSource(source []byte) ([]tt.Issue, error)
}

type ParseRequest struct {
	Query                 string `json:"query"`
	PreserveRangeBrackets *bool  `json:"preserve_range_brackets,omitempty"`
}

type BatchRequest struct {
	Queries               []string `json:"queries" binding:"required"`
	PreserveRangeBrackets *bool    `json:"preserve_range_brackets,omitempty"`
}

type ParseResult struct {
	Query     string   `json:"query"`
	Canonical string   `json:"canonical"`
	Valid     bool     `json:"valid"`
	Errors    []string `json:"errors,omitempty"`
	Truncated bool     `json:"truncated,omitempty"`
	Syntax    []any    `json:"syntax"`
}

type BatchResult struct {
	Results []ParseResult `json:"results"`
}

type LintResult struct {
	Issues []tt.Issue `json:"issues"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Server struct {
	linter    SourceLinter
	queryOpts []luzene.Option
	logger    *zap.Logger
}

// New returns a Server. opts apply to every parsed query; linter may be nil,
// in which case /v1/lint is not served.
func New(linter SourceLinter, logger *zap.Logger, opts ...luzene.Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		linter:    linter,
		queryOpts: append([]luzene.Option{luzene.WithLogger(logger)}, opts...),
		logger:    logger,
	}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger, limitBody)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	v1.POST("/parse", s.handleParse)
	v1.POST("/parse/batch", s.handleBatch)
	if s.linter != nil {
		v1.POST("/lint", s.handleLint)
	}
	return r
}

func (s *Server) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Debug("request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("latency", time.Since(start)))
}

func limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
	c.Next()
}

func (s *Server) handleParse(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, s.parse(req.Query, req.PreserveRangeBrackets))
}

func (s *Server) handleBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, err)
		return
	}

	results := make([]ParseResult, 0, len(req.Queries))
	for _, text := range req.Queries {
		results = append(results, s.parse(text, req.PreserveRangeBrackets))
	}
	c.JSON(http.StatusOK, BatchResult{Results: results})
}

func (s *Server) handleLint(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		abort(c, err)
		return
	}

	issues, err := s.linter.RunSource(body)
	if err != nil {
		s.logger.Error("lint failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if issues == nil {
		issues = []tt.Issue{}
	}
	c.JSON(http.StatusOK, LintResult{Issues: issues})
}

func (s *Server) parse(text string, preserve *bool) ParseResult {
	opts := s.queryOpts
	if preserve != nil {
		opts = append(opts[:len(opts):len(opts)], luzene.WithPreserveRangeBrackets(*preserve))
	}

	q := luzene.New(text, opts...)
	canonical, ok := q.Parse()
	return ParseResult{
		Query:     text,
		Canonical: canonical,
		Valid:     ok,
		Errors:    q.Errors(),
		Truncated: q.Truncated(),
		Syntax:    q.Syntax(),
	}
}

func abort(c *gin.Context, err error) {
	status := http.StatusBadRequest
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		status = http.StatusRequestEntityTooLarge
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: err.Error()})
}
