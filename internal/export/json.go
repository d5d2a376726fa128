// Package export writes extraction results to their delivery formats:
// schema-validated JSON files, one per document, and XLSX workbooks for
// batch runs.
package export

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/docparse/invoice-extractor/internal/common"
	"github.com/docparse/invoice-extractor/internal/entity"
)

//go:embed record.schema.json
var recordSchemaJSON string

var recordSchema = jsonschema.MustCompileString("record.schema.json", recordSchemaJSON)

// MarshalRecord serializes a record to indented JSON and checks it against the
// record schema. A schema failure here is a bug in the extractor, not bad
// input, so it surfaces as an error rather than being silently written out.
func MarshalRecord(rec entity.InvoiceRecord) ([]byte, error) {
	if rec.Items == nil {
		rec.Items = []entity.LineItem{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	var doc any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		return nil, err
	}
	if err := recordSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: record failed schema validation: %w", common.ErrInternal, err)
	}
	return buf.Bytes(), nil
}

// WriteJSON stores the record as <outputDir>/<source stem>.json and returns
// the written path. The output directory is created if missing.
func WriteJSON(rec entity.InvoiceRecord, sourcePath, outputDir string) (string, error) {
	b, err := MarshalRecord(rec)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	out := filepath.Join(outputDir, stem(sourcePath)+".json")
	if err := os.WriteFile(out, b, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", out, err)
	}
	return out, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
