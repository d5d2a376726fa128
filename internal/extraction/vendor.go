package extraction

import (
	"strings"

	"github.com/docparse/invoice-extractor/constants"
)

// ExtractVendor identifies the seller name from the leading lines.
// Pass 1 returns the first substantial line carrying a company suffix
// (SDN BHD, INC, LTD, ...), verbatim. Pass 2 falls back to the first
// substantial line among the first 10. Lines shorter than 3 characters or
// made of decoration symbols only are skipped in both passes.
func ExtractVendor(text string) *string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSpace(text), "\n")

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if len(line) < 3 || isDecorationLine(line) {
			continue
		}
		upper := strings.ToUpper(line)
		for _, suffix := range constants.CompanySuffixes {
			if strings.Contains(upper, suffix) {
				return &line
			}
		}
	}

	limit := len(lines)
	if limit > 10 {
		limit = 10
	}
	for _, raw := range lines[:limit] {
		line := strings.TrimSpace(raw)
		if len(line) >= 3 && !isDecorationLine(line) {
			return &line
		}
	}
	return nil
}

// isDecorationLine reports whether the line consists only of the separator
// symbols OCR picks up from ruled boxes (ignoring spaces).
func isDecorationLine(line string) bool {
	for _, r := range strings.ReplaceAll(line, " ", "") {
		if !strings.ContainsRune("*-=_#", r) {
			return false
		}
	}
	return true
}
