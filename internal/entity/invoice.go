package entity

// BillTo is the billed-to party parsed from the bill-to section.
// Email is nil when no address was found on the heading line.
type BillTo struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

// LineItem is one reconstructed row of the item table.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// InvoiceRecord is the structured result of extracting one document.
// Optional fields are pointers: nil means the extractor found nothing, and
// serializes as JSON null. Items is always non-nil, possibly empty, in
// reconstruction order.
type InvoiceRecord struct {
	ReceiptNumber        *string    `json:"receipt_number"`
	Date                 *string    `json:"date"`
	BillTo               *BillTo    `json:"bill_to"`
	Items                []LineItem `json:"items"`
	TotalAmount          *float64   `json:"total_amount"`
	RawText              string     `json:"raw_text"`
	ExtractionConfidence int        `json:"extraction_confidence"`
	ValidationPassed     bool       `json:"validation_passed"`
}
