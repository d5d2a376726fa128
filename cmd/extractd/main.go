// Command extractd serves the extraction pipeline over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/docparse/invoice-extractor/internal/common"
	"github.com/docparse/invoice-extractor/internal/ml"
	"github.com/docparse/invoice-extractor/internal/ocr"
	"github.com/docparse/invoice-extractor/internal/pipeline"
	"github.com/docparse/invoice-extractor/internal/preprocess"
	"github.com/docparse/invoice-extractor/internal/server"
)

func main() {
	zl, _ := zap.NewProduction()
	defer func() { _ = zl.Sync() }()
	log := zl.Sugar()

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
	p.NormalizeText = cfg.Pipeline.NormalizeText
	if cfg.ML.URL != "" {
		p.ML = ml.NewClient(cfg.ML.URL, cfg.ML.Timeout, logger)
		log.Infow("ML fallback enabled", "url", cfg.ML.URL)
	}

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: server.New(p, logger).Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("HTTP serving on %s", cfg.Server.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	case <-ctx.Done():
		log.Infow("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("graceful shutdown: %v", err)
		_ = srv.Close()
	}
	log.Infow("server stopped")
}
