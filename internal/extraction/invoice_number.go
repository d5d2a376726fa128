package extraction

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/docparse/invoice-extractor/constants"
)

// Candidate identifiers: 2+ letters then 3+ letters/digits/hyphens.
var reInvoiceCandidate = regexp.MustCompile(`(?i)[A-Z]{2,}[A-Z0-9\-]{3,}`)

// ExtractInvoiceNumber looks for an alphanumeric identifier in the first 15
// lines, on lines mentioning anything invoice-related. The keyword check is a
// plain substring match ("no" also hits "Note"); candidates must be at least
// 5 characters with both a digit and a letter. The first qualifying candidate
// wins and is returned uppercased.
func ExtractInvoiceNumber(text string) *string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 15 {
		lines = lines[:15]
	}
	for _, line := range lines {
		lower := strings.ToLower(line)
		if !containsAny(lower, constants.InvoiceNumberKeywords) {
			continue
		}
		for _, cand := range reInvoiceCandidate.FindAllString(line, -1) {
			if len(cand) >= 5 && hasDigit(cand) && hasLetter(cand) {
				upper := strings.ToUpper(cand)
				return &upper
			}
		}
	}
	return nil
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	return strings.ContainsFunc(s, unicode.IsDigit)
}

func hasLetter(s string) bool {
	return strings.ContainsFunc(s, unicode.IsLetter)
}
