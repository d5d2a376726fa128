package extraction

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Matches: 123.45, 1,234.56, $123.45, RM 193.00, € 9,99
	reAmount        = regexp.MustCompile(`(?:RM|Rs\.?|\$|€)?\s*\d{1,3}(?:,\d{3})*[.,]\d{2}`)
	reNonAmountChar = regexp.MustCompile(`[^\d.,]`)
)

// ExtractAmounts returns every currency-like amount in the text, in order of
// appearance. Each match is cleaned down to digits and separators, the
// fraction separator normalized to ".", then parsed. Residues that no longer
// parse (a thousands comma turned into a second dot, for instance) are
// silently skipped.
func ExtractAmounts(text string) []float64 {
	if text == "" {
		return nil
	}
	matches := reAmount.FindAllString(text, -1)
	amounts := make([]float64, 0, len(matches))
	for _, m := range matches {
		cleaned := reNonAmountChar.ReplaceAllString(m, "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			continue
		}
		amounts = append(amounts, f)
	}
	return amounts
}
