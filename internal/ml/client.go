package ml

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docparse/invoice-extractor/internal/entity"
)

// Client calls a remote extraction model over HTTP. The request carries the
// document image as a data URL; the response body is an InvoiceRecord.
type Client struct {
	URL    string
	HTTP   *http.Client
	Logger *slog.Logger
}

func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Client{
		URL:    url,
		HTTP:   &http.Client{Timeout: timeout},
		Logger: logger,
	}
}

func (c *Client) ExtractRecord(ctx context.Context, imagePath string) (rec entity.InvoiceRecord, err error) {
	dataURL, mimeType, err := readAsDataURL(imagePath)
	if err != nil {
		return rec, fmt.Errorf("read image: %w", err)
	}

	raw, status, err := c.sendJSON(ctx, map[string]any{
		"image":     dataURL,
		"mime_type": mimeType,
	})
	if err != nil {
		return rec, fmt.Errorf("ml extract: %w", err)
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, fmt.Errorf("decode ml response (status %d): %w", status, err)
	}
	return rec, nil
}

// sendJSON posts a JSON body and returns the raw response. It assumes nothing
// about the provider; the endpoint just has to answer with record-shaped JSON.
func (c *Client) sendJSON(ctx context.Context, body any) ([]byte, int, error) {
	reqID := uuid.New().String()
	start := time.Now()

	bs, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("encode json: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(bs))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.Logger.Info("ml.http.request", "req_id", reqID, "url", c.URL, "content_length", len(bs))

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Logger.Error("ml.http.send_error", "req_id", reqID, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, 0, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.Logger.Warn("ml.http.body_close_error", "req_id", reqID, "error", cerr)
		}
	}()

	raw, _ := io.ReadAll(resp.Body)
	c.Logger.Info("ml.http.response", "req_id", reqID, "status", resp.StatusCode,
		"bytes", len(raw), "elapsed_ms", time.Since(start).Milliseconds())

	if resp.StatusCode/100 != 2 {
		return raw, resp.StatusCode, fmt.Errorf("non-2xx status: %d", resp.StatusCode)
	}
	return raw, resp.StatusCode, nil
}

func readAsDataURL(path string) (string, string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	mt := mime.TypeByExtension("." + ext)
	if mt == "" {
		switch ext {
		case "jpg", "jpeg":
			mt = "image/jpeg"
		case "png":
			mt = "image/png"
		default:
			mt = "application/octet-stream"
		}
	}
	data := base64.StdEncoding.EncodeToString(b)
	return "data:" + mt + ";base64," + data, mt, nil
}
