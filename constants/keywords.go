package constants

// Keyword tables for the rule-based extractors. Matching is substring-based
// on lowercased (or uppercased, for suffixes) lines; the extractors depend on
// these exact values and their order.

// CompanySuffixes marks a line as a vendor/company name.
var CompanySuffixes = []string{"SDN BHD", "INC", "LTD", "LLC", "PLC", "CORP", "PTY", "PVT"}

// InvoiceNumberKeywords flag a line as likely to carry the invoice/receipt
// identifier. "nvoice" catches both Invoice and INVOICE with a clipped first
// letter; "no" is deliberately loose and also hits words like "Note".
var InvoiceNumberKeywords = []string{"nvoice", "receipt", "bill", "no"}

// BillToHeadings introduce the billed-to section.
var BillToHeadings = []string{"bill to", "billed to", "billing name", "customer"}

// ItemStartKeywords open the line-item table; the table body begins on the
// following line.
var ItemStartKeywords = []string{"description", "item", "qty", "price", "amount"}

// ItemEndKeywords close the line-item table.
var ItemEndKeywords = []string{"total", "subtotal", "tax", "gst"}

// DefaultMinConfidence is the OCR confidence below which the pipeline
// consults the ML fallback extractor, when one is configured.
const DefaultMinConfidence float32 = 0.60
