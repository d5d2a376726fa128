// Command invoice-extract runs the extraction pipeline over one invoice file
// or a directory of them, printing a summary per document and optionally
// saving JSON records and an XLSX workbook.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/docparse/invoice-extractor/internal/common"
	"github.com/docparse/invoice-extractor/internal/export"
	"github.com/docparse/invoice-extractor/internal/extraction"
	"github.com/docparse/invoice-extractor/internal/ml"
	"github.com/docparse/invoice-extractor/internal/ocr"
	"github.com/docparse/invoice-extractor/internal/pipeline"
	"github.com/docparse/invoice-extractor/internal/preprocess"
)

func main() {
	_ = godotenv.Load()
	cfg := common.LoadConfig()

	fs := ff.NewFlagSet("invoice-extract")
	var (
		save      = fs.BoolLong("save", "write a JSON record next to the summary")
		outputDir = fs.StringLong("output", cfg.Pipeline.OutputDir, "directory for JSON records")
		xlsxPath  = fs.StringLong("xlsx", "", "also write all records to this XLSX workbook")
		mlURL     = fs.StringLong("ml-url", cfg.ML.URL, "HTTP endpoint of the fallback extraction model")
		normalize = fs.BoolLong("normalize", "collapse noisy whitespace in OCR text before extraction")
		lang      = fs.StringLong("lang", cfg.OCR.Lang, "tesseract language")
		psm       = fs.IntLong("psm", cfg.OCR.PSM, "tesseract page segmentation mode")
		workers   = fs.IntLong("workers", 1, "concurrent extraction workers for directory mode")
		verbose   = fs.BoolLong("verbose", "debug logging")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("INVOICE_EXTRACT")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	args := fs.GetArgs()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(os.Stderr, "usage: invoice-extract [flags] <file-or-directory>")
		os.Exit(2)
	}
	target := args[0]

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg.OCR.Lang = *lang
	cfg.OCR.PSM = *psm
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	p := pipeline.NewProcessor(logger, ocr.NewExtractor(ocr.Config{
		Tesseract: cfg.OCR.Tesseract,
		Lang:      cfg.OCR.Lang,
		PSM:       cfg.OCR.PSM,
		OEM:       cfg.OCR.OEM,
		DPI:       cfg.OCR.DPI,
		MaxPages:  cfg.OCR.MaxPages,
	}, logger))
	p.Preprocess = preprocess.Options{
		Grayscale:    cfg.Pipeline.Grayscale,
		DenoiseSigma: cfg.Pipeline.DenoiseSigma,
	}
	p.MinConfidence = cfg.Pipeline.MinConfidence
	p.NormalizeText = *normalize || cfg.Pipeline.NormalizeText
	if *mlURL != "" {
		p.ML = ml.NewClient(*mlURL, cfg.ML.Timeout, logger)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var results []pipeline.FileResult
	info, err := os.Stat(target)
	switch {
	case err != nil:
		logger.Error("cannot read input", "path", target, "error", err)
		os.Exit(1)
	case info.IsDir():
		var stats pipeline.BatchStats
		results, stats, err = p.ProcessDirectoryConcurrent(ctx, target, nil, true, *workers)
		if err != nil {
			logger.Error("batch failed", "path", target, "error", err)
			os.Exit(1)
		}
		logger.Info("batch done",
			"matched", stats.Matched, "succeeded", stats.Succeeded, "failed", stats.Failed)
	default:
		rec, err := p.ProcessFile(ctx, target)
		if err != nil {
			logger.Error("extraction failed", "path", target, "error", err)
			os.Exit(1)
		}
		results = []pipeline.FileResult{{Path: target, Record: &rec}}
	}

	failed := 0
	var rows []export.Row
	for _, r := range results {
		if r.Err != "" {
			fmt.Printf("%s: FAILED: %s\n", r.Path, r.Err)
			failed++
			continue
		}
		printSummary(r)
		rows = append(rows, export.Row{Source: r.Path, Record: *r.Record})

		if *save {
			out, err := export.WriteJSON(*r.Record, r.Path, *outputDir)
			if err != nil {
				logger.Error("write record", "path", r.Path, "error", err)
				failed++
				continue
			}
			fmt.Printf("  saved %s\n", out)
		}
	}

	if *xlsxPath != "" && len(rows) > 0 {
		b, err := export.BuildXLSX(rows, logger)
		if err != nil {
			logger.Error("build workbook", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxPath, b, 0o644); err != nil {
			logger.Error("write workbook", "path", *xlsxPath, "error", err)
			os.Exit(1)
		}
		fmt.Printf("workbook %s (%d records)\n", *xlsxPath, len(rows))
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func printSummary(r pipeline.FileResult) {
	rec := r.Record
	fmt.Printf("%s\n", filepath.Base(r.Path))
	fmt.Printf("  vendor:     %s\n", orDash(vendorOf(rec.RawText)))
	fmt.Printf("  receipt no: %s\n", orDash(deref(rec.ReceiptNumber)))
	fmt.Printf("  date:       %s\n", orDash(deref(rec.Date)))
	if rec.BillTo != nil {
		fmt.Printf("  bill to:    %s\n", rec.BillTo.Name)
	} else {
		fmt.Printf("  bill to:    -\n")
	}
	if rec.TotalAmount != nil {
		fmt.Printf("  total:      %.2f\n", *rec.TotalAmount)
	} else {
		fmt.Printf("  total:      -\n")
	}
	fmt.Printf("  items:      %d\n", len(rec.Items))
	fmt.Printf("  confidence: %d%%  validated: %v\n", rec.ExtractionConfidence, rec.ValidationPassed)
}

func vendorOf(rawText string) string {
	if v := extraction.ExtractVendor(rawText); v != nil {
		return *v
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
