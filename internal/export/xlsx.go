package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/docparse/invoice-extractor/internal/entity"
)

const (
	invoiceSheet = "Invoices"
	itemSheet    = "Line Items"
)

// Row pairs a record with the file it came from, for workbook exports.
type Row struct {
	Source string
	Record entity.InvoiceRecord
}

// BuildXLSX renders a batch of records as an XLSX workbook: one "Invoices"
// sheet with a row per document and one "Line Items" sheet with a row per
// reconstructed item.
func BuildXLSX(rows []Row, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", invoiceSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(itemSheet); err != nil {
		return nil, err
	}

	writeRow := func(sheet string, row int, values []any) error {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		return nil
	}

	headers := []any{
		"Source File",
		"Receipt Number",
		"Date",
		"Bill To",
		"Bill To Email",
		"Items",
		"Total Amount",
		"Confidence",
		"Validated",
	}
	if err := writeRow(invoiceSheet, 1, headers); err != nil {
		return nil, err
	}
	itemHeaders := []any{"Source File", "Description", "Quantity", "Unit Price", "Total"}
	if err := writeRow(itemSheet, 1, itemHeaders); err != nil {
		return nil, err
	}

	itemRow := 2
	items := 0
	for i, r := range rows {
		rec := r.Record

		var receiptNo, date, billName, billEmail any
		if rec.ReceiptNumber != nil {
			receiptNo = *rec.ReceiptNumber
		}
		if rec.Date != nil {
			date = *rec.Date
		}
		if rec.BillTo != nil {
			billName = rec.BillTo.Name
			if rec.BillTo.Email != nil {
				billEmail = *rec.BillTo.Email
			}
		}
		var total any
		if rec.TotalAmount != nil {
			total = *rec.TotalAmount
		}

		err := writeRow(invoiceSheet, i+2, []any{
			r.Source,
			receiptNo,
			date,
			billName,
			billEmail,
			len(rec.Items),
			total,
			rec.ExtractionConfidence,
			rec.ValidationPassed,
		})
		if err != nil {
			return nil, err
		}

		for _, it := range rec.Items {
			err := writeRow(itemSheet, itemRow, []any{
				r.Source, it.Description, it.Quantity, it.UnitPrice, it.Total,
			})
			if err != nil {
				return nil, err
			}
			itemRow++
			items++
		}
	}

	_ = f.SetColWidth(invoiceSheet, "A", "A", 42)
	_ = f.SetColWidth(invoiceSheet, "B", "E", 22)
	_ = f.SetColWidth(itemSheet, "A", "A", 42)
	_ = f.SetColWidth(itemSheet, "B", "B", 36)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"invoices", len(rows),
		"items", items,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
