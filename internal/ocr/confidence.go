package ocr

import "github.com/docparse/invoice-extractor/internal/extraction"

// Confidence estimates OCR quality from the decoded text alone, without
// ground truth. Text that yields dates, currency amounts and a total was very
// likely read cleanly, so each recognizable artifact adds to a small base.
func Confidence(text string) float32 {
	score := float32(0.2)
	if len(extraction.ExtractDates(text)) > 0 {
		score += 0.2
	}
	if len(extraction.ExtractAmounts(text)) > 0 {
		score += 0.15
	}
	if extraction.ExtractTotal(text) != nil {
		score += 0.15
	}
	if len(text) > 120 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
