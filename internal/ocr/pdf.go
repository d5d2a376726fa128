package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"

	"github.com/docparse/invoice-extractor/constants"
)

// extractPDF rasterizes each page to a temporary PNG and OCRs it. Scanned
// invoices are image-only PDFs, so there is no embedded-text fast path.
func (e *Extractor) extractPDF(ctx context.Context, path string) (Result, error) {
	res := Result{SourceType: constants.PDF, Method: "pdf-ocr"}

	doc, err := fitz.New(path)
	if err != nil {
		return res, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if e.cfg.MaxPages > 0 && pages > e.cfg.MaxPages {
		pages = e.cfg.MaxPages
	}

	tmpDir, err := os.MkdirTemp("", "inv-pdf-*")
	if err != nil {
		return res, err
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	var texts []string
	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		img, err := doc.Image(i)
		if err != nil {
			return res, fmt.Errorf("render pdf page %d: %w", i+1, err)
		}
		pagePath := filepath.Join(tmpDir, fmt.Sprintf("page-%04d.png", i+1))
		if err := imaging.Save(img, pagePath); err != nil {
			return res, fmt.Errorf("save pdf page %d: %w", i+1, err)
		}
		text, err := e.ocrImage(ctx, pagePath)
		if err != nil {
			return res, fmt.Errorf("ocr pdf page %d: %w", i+1, err)
		}
		texts = append(texts, text)
	}

	res.Text = strings.TrimSpace(strings.Join(texts, "\n"))
	res.Pages = pages
	return res, nil
}
