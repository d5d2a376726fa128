package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/docparse/invoice-extractor/constants"
	"github.com/docparse/invoice-extractor/internal/entity"
)

// FileResult is the outcome for one file of a batch run.
type FileResult struct {
	Path   string
	Record *entity.InvoiceRecord
	Err    string
}

// BatchStats aggregates a directory run.
type BatchStats struct {
	Scanned   uint32
	Matched   uint32
	Succeeded uint32
	Failed    uint32
}

// ProcessDirectory walks root, filters by includeExts (or the defaults),
// skips hidden entries if requested, and extracts every matching file in
// order. Per-file failures are recorded and the walk continues.
func (p *Processor) ProcessDirectory(ctx context.Context, root string, includeExts []string, skipHidden bool) ([]FileResult, BatchStats, error) {
	paths, stats, walkFailures, err := p.matchFiles(root, includeExts, skipHidden)
	if err != nil {
		return nil, stats, err
	}

	results := walkFailures
	for _, path := range paths {
		rec, err := p.ProcessFile(ctx, path)
		if err != nil {
			results = append(results, FileResult{Path: path, Err: err.Error()})
			stats.Failed++
			continue
		}
		results = append(results, FileResult{Path: path, Record: &rec})
		stats.Succeeded++
	}
	return results, stats, nil
}

// ProcessDirectoryConcurrent is ProcessDirectory with a worker pool; result
// order is not guaranteed. workers <= 1 falls back to the sequential walk.
func (p *Processor) ProcessDirectoryConcurrent(ctx context.Context, root string, includeExts []string, skipHidden bool, workers int) ([]FileResult, BatchStats, error) {
	if workers <= 1 {
		return p.ProcessDirectory(ctx, root, includeExts, skipHidden)
	}
	paths, stats, walkFailures, err := p.matchFiles(root, includeExts, skipHidden)
	if err != nil {
		return nil, stats, err
	}

	q := NewQueue(p, p.Logger, WithWorkers(workers), WithQueueSize(len(paths)+1))
	for _, path := range paths {
		q.Enqueue(path)
	}
	q.Shutdown(ctx)

	results, qstats := q.Results()
	results = append(walkFailures, results...)
	stats.Succeeded = qstats.Succeeded
	stats.Failed += qstats.Failed
	return results, stats, nil
}

// matchFiles walks root and returns the paths that pass the extension and
// hidden-entry filters. Unreadable entries become failure results so a batch
// report still names them.
func (p *Processor) matchFiles(root string, includeExts []string, skipHidden bool) ([]string, BatchStats, []FileResult, error) {
	if strings.TrimSpace(root) == "" {
		return nil, BatchStats{}, nil, errors.New("root path is required")
	}

	exts := map[string]struct{}{}
	if len(includeExts) == 0 {
		exts = constants.AllowedExtensions
	} else {
		for _, e := range includeExts {
			if e = constants.NormalizeExt(strings.TrimSpace(e)); e != "" {
				exts[e] = struct{}{}
			}
		}
	}

	var paths []string
	var failures []FileResult
	var stats BatchStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			failures = append(failures, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil // continue walking
		}
		if skipHidden && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := exts[constants.NormalizeExt(filepath.Ext(path))]; !ok {
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, stats, failures, fmt.Errorf("walk: %w", err)
	}
	return paths, stats, failures, nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
