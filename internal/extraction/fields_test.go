package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDates(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"day first", "Date: 15/01/2019", []string{"15/01/2019"}},
		{"dash separator", "Issued 15-01-2019 thanks", []string{"15-01-2019"}},
		// The ISO form embeds a short-year match (19/01/15), which the
		// earlier pattern family collects first.
		{"iso form", "2019/01/15 09:41", []string{"19/01/15", "2019/01/15"}},
		{"two digit year", "Date 15/01/19 end", []string{"15/01/19"}},
		{"four digit year wins over short year scan", "ref 15/01/1998", []string{"15/01/1998"}},
		{"empty", "", nil},
		{"no dates", "TOTAL: 193.00", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractDates(tc.text)
			if tc.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractDatesPatternOrderAndDedupe(t *testing.T) {
	// The 4-digit-year family is collected before the 2-digit-year family,
	// and duplicates collapse to the first occurrence of that concatenation.
	text := "paid 05/06/21\nissued 15/01/2019\nagain 15/01/2019 and 05/06/21"
	got := ExtractDates(text)
	require.Equal(t, []string{"15/01/2019", "05/06/21"}, got)
}

func TestExtractDatesEightDigitRun(t *testing.T) {
	// 15/01/2019 must not also yield a bogus 15/01/20 from the short-year scan.
	got := ExtractDates("Date: 15/01/2019")
	require.Equal(t, []string{"15/01/2019"}, got)
}

func TestExtractAmounts(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []float64
	}{
		{"plain", "paid 123.45 cash", []float64{123.45}},
		{"dollar", "$ 12.50", []float64{12.5}},
		{"ringgit", "RM 193.00", []float64{193.0}},
		{"comma fraction", "9,99 each", []float64{9.99}},
		{"order of appearance", "a 5.00 b 10.00 c 2.50", []float64{5.0, 10.0, 2.5}},
		{"empty", "", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractAmounts(tc.text)
			if tc.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractAmountsSkipsMalformedResidue(t *testing.T) {
	// A thousands group cleans to a second dot ("1,234.56" -> "1.234.56"),
	// which no longer parses; it must be dropped silently, not raise.
	got := ExtractAmounts("Subtotal 1,234.56 then 10.00")
	require.Equal(t, []float64{10.0}, got)
}

func TestExtractTotal(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *float64
	}{
		{"total colon", "TOTAL: 193.00", f64(193.0)},
		{"lowercase", "total 42.50", f64(42.5)},
		{"grand total", "GRAND TOTAL 99.99", f64(99.99)},
		{"amount due", "Amount Due: 10.00", f64(10.0)},
		{"balance comma fraction", "BALANCE 42,10", f64(42.1)},
		{"first occurrence wins", "TOTAL: 5.00\nTOTAL: 6.00", f64(5.0)},
		{"missing", "no totals here", nil},
		{"empty", "", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractTotal(tc.text)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tc.want, *got, 1e-9)
		})
	}
}

func TestExtractVendor(t *testing.T) {
	t.Run("suffix match wins over fallback", func(t *testing.T) {
		text := "RECEIPT\nOJC MARKETING SDN BHD.\nJalan Besar"
		got := ExtractVendor(text)
		require.NotNil(t, got)
		assert.Equal(t, "OJC MARKETING SDN BHD.", *got)
	})

	t.Run("suffix is case insensitive", func(t *testing.T) {
		got := ExtractVendor("some header\nAcme Widgets Ltd\nmore")
		require.NotNil(t, got)
		assert.Equal(t, "Acme Widgets Ltd", *got)
	})

	t.Run("fallback to first substantial line", func(t *testing.T) {
		got := ExtractVendor("**********\nCorner Cafe\n123 Main St")
		require.NotNil(t, got)
		assert.Equal(t, "Corner Cafe", *got)
	})

	t.Run("decoration and short lines skipped", func(t *testing.T) {
		got := ExtractVendor("==\n*-=_#\n- - -\nThe Shop Inc")
		require.NotNil(t, got)
		assert.Equal(t, "The Shop Inc", *got)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, ExtractVendor(""))
	})
}

func TestExtractInvoiceNumber(t *testing.T) {
	t.Run("invoice no line", func(t *testing.T) {
		got := ExtractInvoiceNumber("Invoice No: PEGIV-1030765")
		require.NotNil(t, got)
		assert.Equal(t, "PEGIV-1030765", *got)
	})

	t.Run("uppercased", func(t *testing.T) {
		got := ExtractInvoiceNumber("receipt ref abc1234")
		require.NotNil(t, got)
		assert.Equal(t, "ABC1234", *got)
	})

	t.Run("candidate needs digit and letter", func(t *testing.T) {
		// INVOICE itself is 5+ letters but has no digit.
		assert.Nil(t, ExtractInvoiceNumber("INVOICE PENDING"))
	})

	t.Run("only first 15 lines scanned", func(t *testing.T) {
		text := ""
		for i := 0; i < 15; i++ {
			text += "line\n"
		}
		text += "Invoice No: PEGIV-1030765"
		assert.Nil(t, ExtractInvoiceNumber(text))
	})

	t.Run("loose keyword matches inside words", func(t *testing.T) {
		// "no" inside "Note" flags the line; preserved behavior.
		got := ExtractInvoiceNumber("Note: order REF-90210 shipped")
		require.NotNil(t, got)
		assert.Equal(t, "REF-90210", *got)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, ExtractInvoiceNumber(""))
	})
}

func TestExtractBillTo(t *testing.T) {
	t.Run("after colon", func(t *testing.T) {
		got := ExtractBillTo("Bill To: John Smith")
		require.NotNil(t, got)
		assert.Equal(t, "John Smith", got.Name)
		assert.Nil(t, got.Email)
	})

	t.Run("email extracted and removed from name", func(t *testing.T) {
		got := ExtractBillTo("Billed to: Jane Doe jane.doe@example.com")
		require.NotNil(t, got)
		assert.Equal(t, "Jane Doe", got.Name)
		require.NotNil(t, got.Email)
		assert.Equal(t, "jane.doe@example.com", *got.Email)
	})

	t.Run("name on next line", func(t *testing.T) {
		got := ExtractBillTo("CUSTOMER\nACME TRADING")
		require.NotNil(t, got)
		assert.Equal(t, "ACME TRADING", got.Name)
	})

	t.Run("short name rejected", func(t *testing.T) {
		assert.Nil(t, ExtractBillTo("Bill To: ab"))
	})

	t.Run("no heading", func(t *testing.T) {
		assert.Nil(t, ExtractBillTo("just a receipt\nTOTAL 5.00"))
	})

	t.Run("heading on last line with no separator", func(t *testing.T) {
		assert.Nil(t, ExtractBillTo("something\nBilling Name"))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, ExtractBillTo(""))
	})
}

func f64(v float64) *float64 { return &v }
