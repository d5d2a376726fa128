// Package server exposes the extraction pipeline over HTTP: upload a document
// and get the structured record back. Stateless; nothing is stored between
// requests.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/docparse/invoice-extractor/constants"
	"github.com/docparse/invoice-extractor/internal/common"
	"github.com/docparse/invoice-extractor/internal/entity"
	"github.com/docparse/invoice-extractor/internal/export"
	"github.com/docparse/invoice-extractor/internal/extraction"
	"github.com/docparse/invoice-extractor/internal/ocr"
)

// Pipeline is the part of the processor the HTTP layer needs.
type Pipeline interface {
	ProcessFile(ctx context.Context, path string) (entity.InvoiceRecord, error)
}

type Server struct {
	pipeline Pipeline
	logger   *slog.Logger
}

func New(p Pipeline, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{pipeline: p, logger: logger}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.healthz)
	r.POST("/extract", s.extractFile)
	r.POST("/extract/text", s.extractText)
	return r
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// extractFile accepts a multipart upload under the "file" field, runs the full
// pipeline on it and answers with the schema-validated record.
func (s *Server) extractFile(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}
	ext := constants.NormalizeExt(filepath.Ext(fh.Filename))
	if constants.MapExtToFormat(ext) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported file extension: %q", ext)})
		return
	}

	tmpDir, err := os.MkdirTemp("", "inv-upload-*")
	if err != nil {
		s.logger.Error("create upload dir", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	path := filepath.Join(tmpDir, uuid.New().String()+"."+ext)
	if err := c.SaveUploadedFile(fh, path); err != nil {
		s.logger.Error("save upload", "name", fh.Filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	start := time.Now()
	rec, err := s.pipeline.ProcessFile(c.Request.Context(), path)
	if err != nil {
		s.logger.Error("extract failed", "name", fh.Filename, "error", err)
		c.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	s.logger.Info("extract ok",
		"name", fh.Filename,
		"bytes", fh.Size,
		"confidence", rec.ExtractionConfidence,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	s.writeRecord(c, rec)
}

type extractTextRequest struct {
	Text      string `json:"text" binding:"required"`
	Normalize bool   `json:"normalize"`
}

// extractText skips OCR entirely and structures already extracted text.
func (s *Server) extractText(c *gin.Context) {
	var req extractTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be JSON with a non-empty 'text' field"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'text' must not be blank"})
		return
	}

	text := req.Text
	if req.Normalize {
		text = ocr.Normalize(text)
	}
	s.writeRecord(c, extraction.StructureOutput(text))
}

// writeRecord serializes through the export path so every response passes the
// same schema check as records written to disk.
func (s *Server) writeRecord(c *gin.Context, rec entity.InvoiceRecord) {
	b, err := export.MarshalRecord(rec)
	if err != nil {
		s.logger.Error("marshal record", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Data(http.StatusOK, "application/json", b)
}
