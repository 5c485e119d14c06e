package export

import (
	"fmt"
	"io"

	"travelbook/internal/models"

	"github.com/xuri/excelize/v2"
)

const bookingsSheet = "Bookings"

var adminColumns = []string{"ID", "Type", "From", "To", "Date", "Passengers", "Name", "Email", "Payment"}

// WriteBookingsXLSX writes the admin listing as a single-sheet workbook.
func WriteBookingsXLSX(w io.Writer, bookings []*models.Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	header := make([]interface{}, len(adminColumns))
	for i, c := range adminColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(bookingsSheet, "A1", &header); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(bookingsSheet, "A1", "I1", style)
	}

	for i, b := range bookings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			b.ID,
			string(b.Type),
			b.Departure,
			b.Arrival,
			b.TravelDate.Format(models.DateLayout),
			b.Passengers,
			b.FullName,
			b.Email,
			string(b.PaymentStatus),
		}
		if err := f.SetSheetRow(bookingsSheet, cell, &row); err != nil {
			return fmt.Errorf("error writing row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(bookingsSheet, "A", "A", 8)
	_ = f.SetColWidth(bookingsSheet, "B", "I", 18)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}
