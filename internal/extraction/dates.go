package extraction

import "regexp"

var (
	reDateDayFirst  = regexp.MustCompile(`\d{2}[/-]\d{2}[/-]\d{4}`)
	reDateShortYear = regexp.MustCompile(`\d{2}[/-]\d{2}[/-]\d{2}`)
	reDateISO       = regexp.MustCompile(`\d{4}[/-]\d{2}[/-]\d{2}`)
)

// ExtractDates scans the whole text for date-like substrings in three shapes:
// DD/DD/DDDD, DD/DD/DD (not followed by another digit) and DDDD/DD/DD, with
// "/" or "-" as separator. Matches are collected per pattern family in that
// order, then deduplicated keeping first occurrence. No calendar validation
// is applied; the original substrings are preserved.
func ExtractDates(text string) []string {
	if text == "" {
		return nil
	}
	var dates []string
	dates = append(dates, reDateDayFirst.FindAllString(text, -1)...)
	dates = append(dates, findShortYearDates(text)...)
	dates = append(dates, reDateISO.FindAllString(text, -1)...)
	return dedupe(dates)
}

// findShortYearDates matches DD/DD/DD not immediately followed by a digit,
// so the first six digits of an 8-digit run are not mistaken for a date.
// RE2 has no lookahead; a rejected match resumes one byte past its start,
// which accepts exactly the same strings a (?!\d) lookahead would.
func findShortYearDates(text string) []string {
	var out []string
	pos := 0
	for pos < len(text) {
		loc := reDateShortYear.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if end < len(text) && text[end] >= '0' && text[end] <= '9' {
			pos = start + 1
			continue
		}
		out = append(out, text[start:end])
		pos = end
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
