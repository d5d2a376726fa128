// Package ocr turns invoice files into raw text. Images go through tesseract,
// PDFs are rasterized page by page first, and plain-text files are read as-is.
// The OCR engine itself is a black box behind the Runner interface.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/docparse/invoice-extractor/constants"
)

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Lang      string // default "eng"
	PSM       int    // page segmentation mode; 6 suits a uniform text block
	OEM       int    // 1 = LSTM; leave 0 to use the engine default
	DPI       int    // rasterization DPI for PDFs, default 300
	MaxPages  int    // 0 = no limit
}

// Result is the outcome of one text extraction.
type Result struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.IMAGE | constants.TXT
	Method     string // "image-ocr" | "pdf-ocr" | "text-file"
	Language   string
	Duration   time.Duration
	Confidence float32 // heuristic, in [0,1]
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if cfg.PSM <= 0 {
		cfg.PSM = 6
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// Extract picks a strategy based on file extension.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("starting text extraction", "path", path, "ext", ext)

	var res Result
	var err error
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err = e.extractPDF(ctx, path)
	case constants.IMAGE:
		res, err = e.extractImage(ctx, path)
	case constants.TXT:
		res, err = e.extractTextFile(path)
	default:
		return Result{}, fmt.Errorf("unsupported file extension: %q", ext)
	}
	if err != nil {
		return res, err
	}

	res.Language = e.cfg.Lang
	res.Duration = time.Since(start)
	res.Confidence = Confidence(res.Text)
	e.logger.Debug("text extraction done",
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"bytes", len(res.Text),
		"confidence", res.Confidence,
	)
	return res, nil
}

func (e *Extractor) extractImage(ctx context.Context, path string) (Result, error) {
	text, err := e.ocrImage(ctx, path)
	if err != nil {
		return Result{SourceType: constants.IMAGE, Method: "image-ocr"}, err
	}
	return Result{
		Text:       text,
		Pages:      1,
		SourceType: constants.IMAGE,
		Method:     "image-ocr",
	}, nil
}

func (e *Extractor) extractTextFile(path string) (Result, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Result{SourceType: constants.TXT, Method: "text-file"}, err
	}
	return Result{
		Text:       strings.TrimSpace(string(b)),
		Pages:      1,
		SourceType: constants.TXT,
		Method:     "text-file",
	}, nil
}

// ocrImage runs tesseract over a single image and returns the trimmed text.
func (e *Extractor) ocrImage(ctx context.Context, path string) (string, error) {
	args := []string{path, "stdout", "-l", e.cfg.Lang, "--psm", strconv.Itoa(e.cfg.PSM)}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(e.cfg.OEM))
	}
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (stderr: %s)", err, truncate(string(errb), 512))
	}
	return strings.TrimSpace(string(out)), nil
}
