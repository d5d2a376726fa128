package extraction

import (
	"regexp"
	"strconv"
	"strings"
)

var reTotal = regexp.MustCompile(`(?i)(?:TOTAL|GRAND\s*TOTAL|AMOUNT\s*DUE|BALANCE)\s*:?\s*(\d+[.,]\d{2})`)

// ExtractTotal returns the amount following the first total/balance keyword,
// or nil when none is found. The fraction separator is normalized to ".".
func ExtractTotal(text string) *float64 {
	if text == "" {
		return nil
	}
	m := reTotal.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return nil
	}
	return &f
}
