// Package preprocess prepares scanned invoice images for OCR: grayscale
// conversion and light Gaussian denoising. It never mutates the source file;
// the processed page is written to a temporary PNG the caller cleans up.
package preprocess

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Options controls the preprocessing steps.
type Options struct {
	Grayscale    bool
	DenoiseSigma float64 // Gaussian blur sigma; <= 0 disables denoising
}

// DefaultOptions mirrors the usual scan cleanup: grayscale plus a mild blur.
func DefaultOptions() Options {
	return Options{Grayscale: true, DenoiseSigma: 0.8}
}

// Apply runs the configured steps over an already decoded image.
func Apply(img image.Image, opts Options) *image.NRGBA {
	out := imaging.Clone(img)
	if opts.Grayscale {
		out = imaging.Grayscale(out)
	}
	if opts.DenoiseSigma > 0 {
		out = imaging.Blur(out, opts.DenoiseSigma)
	}
	return out
}

// PrepareImage loads path, applies the steps and saves the result as a PNG in
// a fresh temp directory. Returns the processed path and a cleanup func that
// removes the temp directory.
func PrepareImage(path string, opts Options) (string, func(), error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", nil, fmt.Errorf("load image: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "inv-prep-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }

	out := filepath.Join(tmpDir, "page.png")
	if err := imaging.Save(Apply(img, opts), out); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("save processed image: %w", err)
	}
	return out, cleanup, nil
}
