// Package ml is the alternative, model-based extraction path. A layout-aware
// model runs behind an HTTP endpoint and answers with a record of the same
// shape as the rule engine's output. The capability is injected where needed;
// the rule-based core never depends on it and no model state lives in this
// process.
package ml

import (
	"context"

	"github.com/docparse/invoice-extractor/internal/entity"
)

// Extractor is the function-shaped interface the pipeline consumes:
// document image in, partial invoice record out.
type Extractor interface {
	ExtractRecord(ctx context.Context, imagePath string) (entity.InvoiceRecord, error)
}
