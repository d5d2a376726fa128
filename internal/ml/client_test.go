package ml

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "receipt.png")
	require.NoError(t, os.WriteFile(path, []byte("not-a-real-png"), 0o644))
	return path
}

func TestExtractRecord(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"receipt_number": "PEGIV-1030765",
			"date": "15/01/2019",
			"bill_to": null,
			"items": [],
			"total_amount": 193.00,
			"raw_text": "",
			"extraction_confidence": 60,
			"validation_passed": false
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	rec, err := c.ExtractRecord(context.Background(), writeTestImage(t))
	require.NoError(t, err)

	require.NotNil(t, rec.ReceiptNumber)
	assert.Equal(t, "PEGIV-1030765", *rec.ReceiptNumber)
	require.NotNil(t, rec.TotalAmount)
	assert.Equal(t, 193.00, *rec.TotalAmount)
	assert.Equal(t, 60, rec.ExtractionConfidence)

	// The image travels as a data URL.
	img, ok := gotBody["image"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(img, "data:image/png;base64,"))
}

func TestExtractRecordNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model offline", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	_, err := c.ExtractRecord(context.Background(), writeTestImage(t))
	assert.Error(t, err)
}

func TestExtractRecordMissingImage(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", 0, nil)
	_, err := c.ExtractRecord(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
