package ocr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docparse/invoice-extractor/constants"
)

type stubRunner struct {
	stdout []byte
	err    error
	calls  [][]string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, append([]string{name}, args...))
	return s.stdout, nil, s.err
}

func TestExtractImage(t *testing.T) {
	stub := &stubRunner{stdout: []byte("TOTAL: 193.00\n")}
	e := NewExtractor(Config{}, nil)
	e.runner = stub

	res, err := e.Extract(context.Background(), "receipt.png")
	require.NoError(t, err)
	assert.Equal(t, "TOTAL: 193.00", res.Text)
	assert.Equal(t, constants.IMAGE, res.SourceType)
	assert.Equal(t, "image-ocr", res.Method)
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, "eng", res.Language)
	assert.Greater(t, res.Confidence, float32(0))

	require.Len(t, stub.calls, 1)
	call := stub.calls[0]
	assert.Equal(t, "tesseract", call[0])
	assert.Contains(t, call, "--psm")
	assert.Contains(t, call, "6")
}

func TestExtractImageRunnerError(t *testing.T) {
	stub := &stubRunner{err: errors.New("boom")}
	e := NewExtractor(Config{}, nil)
	e.runner = stub

	_, err := e.Extract(context.Background(), "receipt.jpg")
	assert.Error(t, err)
}

func TestExtractTextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "receipt.txt")
	require.NoError(t, os.WriteFile(path, []byte("Date: 15/01/2019\nTOTAL: 5.00\n"), 0o644))

	e := NewExtractor(Config{}, nil)
	res, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Date: 15/01/2019\nTOTAL: 5.00", res.Text)
	assert.Equal(t, constants.TXT, res.SourceType)
	assert.Equal(t, "text-file", res.Method)
}

func TestExtractUnsupportedExtension(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	_, err := e.Extract(context.Background(), "receipt.docx")
	assert.Error(t, err)
}

func TestConfidence(t *testing.T) {
	assert.InDelta(t, 0.2, Confidence(""), 1e-6)
	assert.InDelta(t, 0.4, Confidence("Date: 15/01/2019"), 1e-6)
	// Date + amount + total keyword.
	assert.InDelta(t, 0.7, Confidence("Date: 15/01/2019 TOTAL: 193.00"), 1e-6)
	assert.LessOrEqual(t, Confidence("Date: 15/01/2019 TOTAL: 193.00 plus a long tail of receipt text padding this line out well past the length bonus threshold used here"), float32(1.0))
}

func TestNormalize(t *testing.T) {
	in := "VENDOR\tLTD\r\nline  with   gaps   \n\n\n\nTOTAL: 5.00  "
	out := Normalize(in)
	assert.Equal(t, "VENDOR LTD\nline with gaps\n\nTOTAL: 5.00", out)
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
}
