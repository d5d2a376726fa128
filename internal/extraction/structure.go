package extraction

import (
	"math"

	"github.com/docparse/invoice-extractor/internal/entity"
)

// validationEpsilon is the tolerance, in currency units, for the declared
// total to match the sum of reconstructed line-item totals.
const validationEpsilon = 0.01

// StructureOutput runs every field extractor over the same raw OCR text and
// assembles the final record. The extractors are independent; this is the
// only place with cross-field logic.
//
// Confidence counts how many of receipt_number, date, bill_to and
// total_amount are present, plus one for a non-empty items list, over a
// denominator of five. Validation passes only when a total was extracted and
// it matches the item sum within the epsilon; with no items the sum is zero,
// so validation effectively requires a near-zero total.
func StructureOutput(text string) entity.InvoiceRecord {
	rec := entity.InvoiceRecord{
		ReceiptNumber: ExtractInvoiceNumber(text),
		Date:          firstDate(text),
		BillTo:        ExtractBillTo(text),
		Items:         ExtractLineItems(text),
		TotalAmount:   ExtractTotal(text),
		RawText:       text,
	}

	extracted := 0
	if rec.ReceiptNumber != nil {
		extracted++
	}
	if rec.Date != nil {
		extracted++
	}
	if rec.BillTo != nil {
		extracted++
	}
	if rec.TotalAmount != nil {
		extracted++
	}
	if len(rec.Items) > 0 {
		extracted++
	}
	rec.ExtractionConfidence = extracted * 100 / 5

	var itemsTotal float64
	for _, item := range rec.Items {
		itemsTotal += item.Total
	}
	rec.ValidationPassed = rec.TotalAmount != nil &&
		math.Abs(*rec.TotalAmount-itemsTotal) < validationEpsilon

	return rec
}

func firstDate(text string) *string {
	dates := ExtractDates(text)
	if len(dates) == 0 {
		return nil
	}
	return &dates[0]
}
