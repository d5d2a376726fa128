// Package pipeline orchestrates one document's journey from file to
// structured record: preprocess -> OCR -> rule-based extraction, with an
// optional ML fallback when the OCR text looks too weak to trust.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/docparse/invoice-extractor/constants"
	"github.com/docparse/invoice-extractor/internal/common"
	"github.com/docparse/invoice-extractor/internal/entity"
	"github.com/docparse/invoice-extractor/internal/extraction"
	"github.com/docparse/invoice-extractor/internal/ml"
	"github.com/docparse/invoice-extractor/internal/ocr"
	"github.com/docparse/invoice-extractor/internal/preprocess"
)

// TextExtractor is the OCR stage: file -> text. Stubbed in tests.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (ocr.Result, error)
}

type Processor struct {
	Logger        *slog.Logger
	OCR           TextExtractor
	ML            ml.Extractor // optional; nil disables the fallback
	Preprocess    preprocess.Options
	MinConfidence float32 // OCR confidence below which the ML fallback runs
	NormalizeText bool
}

func NewProcessor(logger *slog.Logger, textExtractor TextExtractor) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		Logger:        logger,
		OCR:           textExtractor,
		Preprocess:    preprocess.DefaultOptions(),
		MinConfidence: constants.DefaultMinConfidence,
	}
}

// ProcessFile extracts a structured record from one invoice file.
// Images are preprocessed before OCR; PDFs and plain-text files go straight
// to the text extractor. Extraction itself never fails on malformed text; it
// degrades to absent fields. Errors here mean the input could not be read.
func (p *Processor) ProcessFile(ctx context.Context, path string) (entity.InvoiceRecord, error) {
	jobID := uuid.New()

	if _, err := os.Stat(path); err != nil {
		return entity.InvoiceRecord{}, common.NewAppError("INPUT_ERROR",
			fmt.Sprintf("file not found: %s", path), common.ErrInvalidInput)
	}
	format := constants.MapExtToFormat(filepath.Ext(path))
	if format == "" {
		return entity.InvoiceRecord{}, common.NewAppError("INPUT_ERROR",
			fmt.Sprintf("unsupported format: %s", filepath.Ext(path)), common.ErrInvalidInput)
	}

	ocrPath := path
	if format == constants.IMAGE {
		processed, cleanup, err := preprocess.PrepareImage(path, p.Preprocess)
		if err != nil {
			return entity.InvoiceRecord{}, common.WrapError(err, "preprocess")
		}
		defer cleanup()
		ocrPath = processed
	}

	res, err := p.OCR.Extract(ctx, ocrPath)
	if err != nil {
		p.Logger.Error("processor.ocr.failed", "job_id", jobID, "file", path, "error", err)
		return entity.InvoiceRecord{}, fmt.Errorf("%w: %w", common.ErrOCRFailed, err)
	}

	text := res.Text
	if p.NormalizeText {
		text = ocr.Normalize(text)
	}

	rec := extraction.StructureOutput(text)
	p.Logger.Info("processor.extract.ok",
		"job_id", jobID,
		"file", path,
		"ocr_method", res.Method,
		"ocr_pages", res.Pages,
		"ocr_confidence", res.Confidence,
		"fields_confidence", rec.ExtractionConfidence,
		"items", len(rec.Items),
		"amounts_seen", len(extraction.ExtractAmounts(text)),
		"validated", rec.ValidationPassed,
	)

	if p.ML != nil && res.Confidence < p.MinConfidence {
		rec = p.mlFallback(ctx, jobID, path, text, rec)
	}
	return rec, nil
}

// mlFallback consults the alternative extractor and keeps whichever record
// is more complete. The raw text always stays the OCR text; the ML path works
// from the image and has none.
func (p *Processor) mlFallback(ctx context.Context, jobID uuid.UUID, path, text string, rules entity.InvoiceRecord) entity.InvoiceRecord {
	mlRec, err := p.ML.ExtractRecord(ctx, path)
	if err != nil {
		p.Logger.Warn("processor.ml.failed", "job_id", jobID, "file", path, "error", err)
		return rules
	}
	p.Logger.Info("processor.ml.ok",
		"job_id", jobID,
		"file", path,
		"rules_confidence", rules.ExtractionConfidence,
		"ml_confidence", mlRec.ExtractionConfidence,
	)
	if mlRec.ExtractionConfidence <= rules.ExtractionConfidence {
		return rules
	}
	if mlRec.Items == nil {
		mlRec.Items = []entity.LineItem{}
	}
	mlRec.RawText = text
	return mlRec
}
