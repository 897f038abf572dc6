package service

import (
	"encoding/csv"
	"io"

	"github.com/strideapp/coach-billing/internal/domain"
)

var exportHeader = []string{"Date", "Client Name", "Lesson Type", "Duration (hours)", "Amount Paid", "Payment Status"}

// WriteExportCSV renders the flat export rows as delimited text, one line
// per participant entry.
func WriteExportCSV(w io.Writer, rows []domain.ExportRow) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.Date,
			row.ClientName,
			row.LessonTypeName,
			row.DurationHours.StringFixed(2),
			row.AmountPaid.StringFixed(2),
			row.PaymentStatus,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
