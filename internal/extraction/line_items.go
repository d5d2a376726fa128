package extraction

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/docparse/invoice-extractor/constants"
	"github.com/docparse/invoice-extractor/internal/entity"
)

var (
	reItemNoise  = regexp.MustCompile(`[^\d.\s]`) // currency marks, commas, etc.
	reItemAmount = regexp.MustCompile(`\d+(?:\.\d+)?`)
	reItemQty    = regexp.MustCompile(`^\s*(\d+)\s*(?:x)?`)
	reItemDesc   = regexp.MustCompile(`[\d.\s]+`)
)

// ExtractLineItems isolates the item table and reconstructs
// description/quantity/unit-price/total tuples from its lines.
//
// The table starts on the line after the first start keyword (description,
// item, qty, ...) and ends at the first following line with an end keyword
// (total, subtotal, ...), or end of text. Without a start keyword no items
// are extracted at all.
//
// Within the table a description buffer accumulates across lines: lines with
// no numbers contribute description fragments only, and the first line that
// does carry numbers emits one item using the buffer built so far. The last
// number on the line is the item total and the second-to-last the unit
// price (equal to the total when only one number is present). A leading digit
// run on the original line is the quantity, default 1. Lines with extra
// numeric tokens keep the last-two-wins tie-break even when it misparses.
func ExtractLineItems(text string) []entity.LineItem {
	items := make([]entity.LineItem, 0)
	lines := strings.Split(text, "\n")

	start, end := -1, len(lines)
	for i, line := range lines {
		lower := strings.ToLower(line)
		if start == -1 && containsAny(lower, constants.ItemStartKeywords) {
			start = i + 1
		}
		if start != -1 && containsAny(lower, constants.ItemEndKeywords) {
			end = i
			break
		}
	}
	if start == -1 {
		return items
	}
	if end < start {
		// start and end keyword on the same line; the table is empty
		end = start
	}

	description := ""
	for _, line := range lines[start:end] {
		clean := reItemNoise.ReplaceAllString(line, "")
		amounts := reItemAmount.FindAllString(clean, -1)

		quantity := 1
		if m := reItemQty.FindStringSubmatch(line); m != nil {
			if q, err := strconv.Atoi(m[1]); err == nil {
				quantity = q
			}
		}

		if frag := strings.TrimSpace(reItemDesc.ReplaceAllString(line, "")); frag != "" {
			if description != "" {
				description += " " + frag
			} else {
				description = frag
			}
		}

		if len(amounts) == 0 || description == "" {
			continue
		}

		total, err := strconv.ParseFloat(amounts[len(amounts)-1], 64)
		if err != nil {
			description = ""
			continue
		}
		unitPrice := total
		if len(amounts) > 1 {
			unitPrice, err = strconv.ParseFloat(amounts[len(amounts)-2], 64)
			if err != nil {
				description = ""
				continue
			}
		}

		items = append(items, entity.LineItem{
			Description: strings.TrimSpace(description),
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			Total:       total,
		})
		description = ""
	}
	return items
}
