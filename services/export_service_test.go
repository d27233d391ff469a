package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportService(t *testing.T) {
	ctx := context.Background()
	bookings := NewBookingService(setupTestDB(t), nil, nopLogger())
	export := NewExportService(bookings, nopLogger())

	t.Run("HeaderOnlyWhenEmpty", func(t *testing.T) {
		f, err := export.ExportBookings(ctx)
		require.NoError(t, err)
		defer f.Close()

		assert.Equal(t, []string{exportSheet}, f.GetSheetList())
		rows, err := f.GetRows(exportSheet)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, exportHeaders, rows[0])
	})

	t.Run("OneRowPerBooking", func(t *testing.T) {
		a, err := bookings.CreateBooking(ctx, sampleBooking())
		require.NoError(t, err)
		b, err := bookings.CreateBooking(ctx, sampleBooking())
		require.NoError(t, err)
		_, err = bookings.UpdateBookingStatus(ctx, b.ID, "approved")
		require.NoError(t, err)

		f, err := export.ExportBookings(ctx)
		require.NoError(t, err)
		buf, err := f.WriteToBuffer()
		require.NoError(t, err)
		require.NoError(t, f.Close())

		reopened, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		defer reopened.Close()

		rows, err := reopened.GetRows(exportSheet)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, a.BookingNumber, rows[1][0])
		assert.Equal(t, "Pending", rows[1][8])
		assert.Equal(t, b.BookingNumber, rows[2][0])
		assert.Equal(t, "Approved", rows[2][8])
		assert.Equal(t, "Deep Cleaning", rows[2][5])
	})
}
