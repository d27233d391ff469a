package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Bookings"

var exportHeaders = []string{
	"Booking Number", "Name", "Email", "Phone", "Address", "Service", "Date", "Time", "Status",
}

// ExportService renders the booking list as an Excel workbook.
type ExportService struct {
	bookings *BookingService
	logger   *zerolog.Logger
}

func NewExportService(bookings *BookingService, logger *zerolog.Logger) *ExportService {
	return &ExportService{bookings: bookings, logger: logger}
}

// ExportBookings builds a workbook with a header row and one row per booking.
// The caller closes the returned file.
func (s *ExportService) ExportBookings(ctx context.Context) (*excelize.File, error) {
	bookings, err := s.bookings.ListBookings(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}

	for col, title := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(exportSheet, cell, title)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	_ = f.SetCellStyle(exportSheet, "A1", lastHeader, headerStyle)

	for i, b := range bookings {
		row := []interface{}{
			b.BookingNumber, b.Name, b.Email, b.Phone, b.Address, b.Service, b.Date, b.Time, string(b.Status),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("error writing row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(exportSheet, "A", "A", 16)
	_ = f.SetColWidth(exportSheet, "B", "D", 24)
	_ = f.SetColWidth(exportSheet, "E", "E", 40)
	_ = f.SetColWidth(exportSheet, "F", "I", 18)

	s.logger.Info().Int("rows", len(bookings)).Msg("bookings exported")
	return f, nil
}
