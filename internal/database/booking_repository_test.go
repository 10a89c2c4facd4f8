package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/courtbase/field-booking-backend/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockDB wraps a sqlmock connection in sqlx so repositories can run
// their Beginx transactions against it
func newMockDB(t *testing.T) (DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func sampleBooking() *models.Booking {
	userID := "user-1"
	return &models.Booking{
		FieldID:         "b3f2a8d0-0000-0000-0000-000000000001",
		UserID:          &userID,
		BookingNumber:   "BK-20260901-A1B2C3",
		BookingDate:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		EndTime:         "12:00",
		DurationMinutes: 120,
		BasePrice:       decimal.RequireFromString("200.00"),
		ExtraHourPrice:  decimal.Zero,
		DiscountAmount:  decimal.Zero,
		TotalAmount:     decimal.RequireFromString("200.00"),
		PaymentFormID:   "pf-1",
		PaymentType:     models.PaymentTypeInPerson,
		Status:          models.BookingStatusPending,
	}
}

func TestBookingRepository_CreateWithTransfer(t *testing.T) {
	t.Run("Success path locks field, checks conflict and commits", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		booking := sampleBooking()
		transfer := &models.CompanyTransfer{
			CompanyID: "company-1",
			Amount:    decimal.RequireFromString("20.00"),
		}

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM fields WHERE id = \$1 FOR UPDATE`).
			WithArgs(booking.FieldID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(booking.FieldID))
		mock.ExpectQuery(`SELECT booking_number`).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(time.Now(), time.Now()))
		mock.ExpectQuery(`INSERT INTO company_transfers`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
		mock.ExpectCommit()

		err := repo.CreateWithTransfer(booking, transfer)
		require.NoError(t, err)

		assert.NotEmpty(t, booking.ID)
		assert.Equal(t, booking.ID, transfer.BookingID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unique-violation on booking number regenerates and retries", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		booking := sampleBooking()
		originalNumber := booking.BookingNumber
		transfer := &models.CompanyTransfer{
			CompanyID: "company-1",
			Amount:    decimal.RequireFromString("20.00"),
		}

		// First attempt loses the COUNT-precheck race at insert time.
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM fields WHERE id = \$1 FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(booking.FieldID))
		mock.ExpectQuery(`SELECT booking_number`).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "bookings_booking_number_key"})
		mock.ExpectRollback()

		// A fresh number is generated and the transaction restarted.
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE booking_number = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM fields WHERE id = \$1 FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(booking.FieldID))
		mock.ExpectQuery(`SELECT booking_number`).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(time.Now(), time.Now()))
		mock.ExpectQuery(`INSERT INTO company_transfers`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
		mock.ExpectCommit()

		err := repo.CreateWithTransfer(booking, transfer)
		require.NoError(t, err)

		assert.NotEqual(t, originalNumber, booking.BookingNumber)
		assert.Regexp(t, `^BK-\d{8}-[0-9A-F]{6}$`, booking.BookingNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unrelated constraint violation is not retried", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		booking := sampleBooking()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM fields WHERE id = \$1 FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(booking.FieldID))
		mock.ExpectQuery(`SELECT booking_number`).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnError(&pq.Error{Code: "23503", Constraint: "bookings_field_id_fkey"})
		mock.ExpectRollback()

		err := repo.CreateWithTransfer(booking, &models.CompanyTransfer{CompanyID: "company-1"})
		assert.ErrorContains(t, err, "failed to create booking")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Overlapping booking aborts with conflict error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		booking := sampleBooking()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM fields WHERE id = \$1 FOR UPDATE`).
			WithArgs(booking.FieldID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(booking.FieldID))
		mock.ExpectQuery(`SELECT booking_number`).
			WillReturnRows(sqlmock.NewRows([]string{"booking_number"}).AddRow("BK-20260901-FFFFFF"))
		mock.ExpectRollback()

		err := repo.CreateWithTransfer(booking, &models.CompanyTransfer{CompanyID: "company-1"})

		var conflictErr *models.TimeConflictError
		require.ErrorAs(t, err, &conflictErr)
		assert.Equal(t, "BK-20260901-FFFFFF", conflictErr.ConflictingBookingNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing field aborts", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		booking := sampleBooking()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM fields WHERE id = \$1 FOR UPDATE`).
			WithArgs(booking.FieldID).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err := repo.CreateWithTransfer(booking, &models.CompanyTransfer{CompanyID: "company-1"})
		assert.ErrorContains(t, err, "field not found")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_UpdateWithTransfer(t *testing.T) {
	t.Run("Window change re-checks conflict excluding own row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		booking := sampleBooking()
		booking.ID = "b3f2a8d0-0000-0000-0000-0000000000aa"

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM fields WHERE id = \$1 FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(booking.FieldID))
		mock.ExpectQuery(`SELECT booking_number`).
			WithArgs(booking.FieldID, booking.BookingDate, booking.EndTime, booking.StartTime, booking.ID).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`UPDATE bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
		mock.ExpectExec(`UPDATE company_transfers SET amount`).
			WithArgs(booking.ID, decimal.RequireFromString("20.00")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.UpdateWithTransfer(booking, decimal.RequireFromString("20.00"), true)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Metadata-only change skips conflict check", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		booking := sampleBooking()
		booking.ID = "b3f2a8d0-0000-0000-0000-0000000000aa"

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
		mock.ExpectExec(`UPDATE company_transfers SET amount`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.UpdateWithTransfer(booking, decimal.RequireFromString("20.00"), false)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_UpdateStatus(t *testing.T) {
	t.Run("Cancellation deletes the transfer row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		booking := sampleBooking()
		booking.ID = "b3f2a8d0-0000-0000-0000-0000000000aa"
		reason := "rain"
		booking.Status = models.BookingStatusCanceled
		booking.CancellationReason = &reason

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE bookings`).
			WithArgs(booking.ID, booking.Status, booking.CancellationReason).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
		mock.ExpectExec(`DELETE FROM company_transfers WHERE booking_id = \$1`).
			WithArgs(booking.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.UpdateStatus(booking)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Confirmation keeps the transfer row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		booking := sampleBooking()
		booking.ID = "b3f2a8d0-0000-0000-0000-0000000000aa"
		booking.Status = models.BookingStatusConfirmed

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
		mock.ExpectCommit()

		err := repo.UpdateStatus(booking)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_GenerateBookingNumber(t *testing.T) {
	t.Run("Returns formatted number on first free candidate", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE booking_number = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		number, err := repo.GenerateBookingNumber()
		require.NoError(t, err)
		assert.Regexp(t, `^BK-\d{8}-[0-9A-F]{6}$`, number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Retries on collision", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		number, err := repo.GenerateBookingNumber()
		require.NoError(t, err)
		assert.NotEmpty(t, number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_GetTransferByBookingID(t *testing.T) {
	t.Run("No transfer returns nil without error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectQuery(`SELECT id, booking_id, company_id, amount, is_free, created_at`).
			WillReturnError(sql.ErrNoRows)

		transfer, err := repo.GetTransferByBookingID("missing")
		require.NoError(t, err)
		assert.Nil(t, transfer)
	})

	t.Run("Existing transfer is scanned", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectQuery(`SELECT id, booking_id, company_id, amount, is_free, created_at`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "company_id", "amount", "is_free", "created_at"}).
				AddRow("tr-1", "bk-1", "company-1", "20.00", false, time.Now()))

		transfer, err := repo.GetTransferByBookingID("bk-1")
		require.NoError(t, err)
		require.NotNil(t, transfer)
		assert.True(t, transfer.Amount.Equal(decimal.RequireFromString("20.00")))
		assert.False(t, transfer.IsFree)
	})
}

func TestBookingRepository_ListForDate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	columns := []string{
		"id", "field_id", "user_id", "booking_number", "booking_date",
		"start_time", "end_time", "duration_minutes",
		"base_price", "extra_hour_price", "has_extra_hour", "discount_amount", "total_amount",
		"coupon_id", "payment_form_id", "payment_type",
		"status", "cancellation_reason", "notes", "created_at", "updated_at",
	}

	mock.ExpectQuery(`FROM bookings`).
		WithArgs("field-1", date).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("bk-1", "field-1", nil, "BK-20260901-A1B2C3", date,
				"10:00", "12:00", 120,
				"200.00", "0", false, "0", "200.00",
				nil, "pf-1", "in_person",
				"confirmed", nil, nil, time.Now(), time.Now()))

	bookings, err := repo.ListForDate("field-1", date)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "BK-20260901-A1B2C3", bookings[0].BookingNumber)
	assert.Nil(t, bookings[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
