package extraction

import (
	"regexp"
	"strings"

	"github.com/docparse/invoice-extractor/constants"
	"github.com/docparse/invoice-extractor/internal/entity"
)

var reEmail = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)

// ExtractBillTo locates the billed-to section and parses name and email.
// The candidate text is everything after the first ":" or "-" on the heading
// line, or the entire next line when the heading carries no separator. An
// email address, if present, is pulled out of the candidate and removed from
// the name. Names of 2 characters or fewer are rejected.
func ExtractBillTo(text string) *entity.BillTo {
	if text == "" {
		return nil
	}

	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
	}

	candidate := ""
	for i, line := range lines {
		if !containsAny(strings.ToLower(line), constants.BillToHeadings) {
			continue
		}
		if idx := strings.IndexAny(line, ":-"); idx >= 0 {
			candidate = strings.TrimSpace(line[idx+1:])
		} else if i+1 < len(lines) {
			candidate = lines[i+1]
		}
		break
	}
	if candidate == "" {
		return nil
	}

	var email *string
	if m := reEmail.FindString(candidate); m != "" {
		email = &m
		candidate = strings.TrimSpace(strings.ReplaceAll(candidate, m, ""))
	}

	if len(candidate) > 2 {
		return &entity.BillTo{Name: candidate, Email: email}
	}
	return nil
}
