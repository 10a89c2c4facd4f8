package database

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/courtbase/field-booking-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const bookingColumns = `id, field_id, user_id, booking_number, booking_date,
	   start_time, end_time, duration_minutes,
	   base_price, extra_hour_price, has_extra_hour, discount_amount, total_amount,
	   coupon_id, payment_form_id, payment_type,
	   status, cancellation_reason, notes, created_at, updated_at`

// BookingRepository handles database operations for bookings and their
// fee-accrual transfer rows
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// GenerateBookingNumber generates a unique booking number
// Format: BK-YYYYMMDD-XXXXXX (6 char hex)
// Example: BK-20240601-A1B2C3
func (r *BookingRepository) GenerateBookingNumber() (string, error) {
	todayStr := time.Now().Format("20060102")

	for attempts := 0; attempts < 10; attempts++ {
		randomBytes := make([]byte, 3)
		if _, err := rand.Read(randomBytes); err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}
		randomStr := strings.ToUpper(hex.EncodeToString(randomBytes))

		number := fmt.Sprintf("BK-%s-%s", todayStr, randomStr)

		var count int
		err := r.db.QueryRow(`SELECT COUNT(*) FROM bookings WHERE booking_number = $1`, number).Scan(&count)
		if err != nil {
			return "", fmt.Errorf("failed to check booking number uniqueness: %w", err)
		}

		if count == 0 {
			return number, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique booking number after 10 attempts")
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(bookingID string) (*models.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns)

	booking, err := r.scanBooking(r.db.QueryRow(query, bookingID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("booking not found")
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return booking, nil
}

// ListForDate retrieves all non-canceled bookings of a field on a date,
// ordered by start time
func (r *BookingRepository) ListForDate(fieldID string, date time.Time) ([]models.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings
		WHERE field_id = $1
		  AND booking_date = $2
		  AND status != 'canceled'
		ORDER BY start_time
	`, bookingColumns)

	rows, err := r.db.Query(query, fieldID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *booking)
	}

	return bookings, rows.Err()
}

// CreateWithTransfer creates a booking and its fee-accrual transfer in one
// transaction. The field row is locked for the duration of the conflict check
// and insert, so concurrent requests for the same field serialize here and
// only one of two overlapping candidates can succeed. The COUNT precheck in
// GenerateBookingNumber leaves a small race window on the booking number, so
// a unique-index violation on it restarts the transaction with a fresh one.
func (r *BookingRepository) CreateWithTransfer(booking *models.Booking, transfer *models.CompanyTransfer) error {
	for attempts := 0; ; attempts++ {
		err := r.createWithTransferOnce(booking, transfer)
		if err == nil {
			return nil
		}
		if attempts >= 3 || !isBookingNumberCollision(err) {
			return err
		}

		number, genErr := r.GenerateBookingNumber()
		if genErr != nil {
			return genErr
		}
		booking.BookingNumber = number
	}
}

// isBookingNumberCollision reports whether err is a unique-index violation on
// the booking number
func isBookingNumberCollision(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23505" && strings.Contains(pqErr.Constraint, "booking_number")
}

func (r *BookingRepository) createWithTransferOnce(booking *models.Booking, transfer *models.CompanyTransfer) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.lockField(tx, booking.FieldID); err != nil {
		return err
	}

	if err := r.checkConflict(tx, booking, nil); err != nil {
		return err
	}

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}

	bookingQuery := `
		INSERT INTO bookings (
			id, field_id, user_id, booking_number, booking_date,
			start_time, end_time, duration_minutes,
			base_price, extra_hour_price, has_extra_hour, discount_amount, total_amount,
			coupon_id, payment_form_id, payment_type,
			status, cancellation_reason, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
		) RETURNING created_at, updated_at`

	err = tx.QueryRow(bookingQuery,
		booking.ID, booking.FieldID, booking.UserID, booking.BookingNumber, booking.BookingDate,
		booking.StartTime, booking.EndTime, booking.DurationMinutes,
		booking.BasePrice, booking.ExtraHourPrice, booking.HasExtraHour, booking.DiscountAmount, booking.TotalAmount,
		booking.CouponID, booking.PaymentFormID, booking.PaymentType,
		booking.Status, booking.CancellationReason, booking.Notes,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}
	transfer.BookingID = booking.ID

	transferQuery := `
		INSERT INTO company_transfers (id, booking_id, company_id, amount, is_free)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err = tx.QueryRow(transferQuery,
		transfer.ID, transfer.BookingID, transfer.CompanyID, transfer.Amount, transfer.IsFree,
	).Scan(&transfer.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateWithTransfer updates a booking and refreshes its transfer amount in
// one transaction. When checkConflict is set the target slot is re-validated
// under the field lock, excluding the booking's own row.
func (r *BookingRepository) UpdateWithTransfer(booking *models.Booking, feeAmount decimal.Decimal, checkConflict bool) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if checkConflict {
		if err := r.lockField(tx, booking.FieldID); err != nil {
			return err
		}
		if err := r.checkConflict(tx, booking, &booking.ID); err != nil {
			return err
		}
	}

	query := `
		UPDATE bookings
		SET field_id = $2, user_id = $3, booking_date = $4,
			start_time = $5, end_time = $6, duration_minutes = $7,
			base_price = $8, extra_hour_price = $9, has_extra_hour = $10,
			discount_amount = $11, total_amount = $12,
			coupon_id = $13, payment_form_id = $14, payment_type = $15,
			notes = $16, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err = tx.QueryRow(query,
		booking.ID, booking.FieldID, booking.UserID, booking.BookingDate,
		booking.StartTime, booking.EndTime, booking.DurationMinutes,
		booking.BasePrice, booking.ExtraHourPrice, booking.HasExtraHour,
		booking.DiscountAmount, booking.TotalAmount,
		booking.CouponID, booking.PaymentFormID, booking.PaymentType,
		booking.Notes,
	).Scan(&booking.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("booking not found")
		}
		return fmt.Errorf("failed to update booking: %w", err)
	}

	_, err = tx.Exec(`UPDATE company_transfers SET amount = $2 WHERE booking_id = $1`, booking.ID, feeAmount)
	if err != nil {
		return fmt.Errorf("failed to update transfer: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateStatus persists a lifecycle transition. A transition to canceled also
// deletes the booking's transfer row, atomically.
func (r *BookingRepository) UpdateStatus(booking *models.Booking) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE bookings
		SET status = $2, cancellation_reason = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err = tx.QueryRow(query, booking.ID, booking.Status, booking.CancellationReason).Scan(&booking.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("booking not found")
		}
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if booking.Status == models.BookingStatusCanceled {
		if _, err := tx.Exec(`DELETE FROM company_transfers WHERE booking_id = $1`, booking.ID); err != nil {
			return fmt.Errorf("failed to delete transfer: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetTransferByBookingID retrieves the fee-accrual row of a booking.
// Returns nil without error when none exists (canceled bookings).
func (r *BookingRepository) GetTransferByBookingID(bookingID string) (*models.CompanyTransfer, error) {
	query := `
		SELECT id, booking_id, company_id, amount, is_free, created_at
		FROM company_transfers
		WHERE booking_id = $1
	`

	transfer := &models.CompanyTransfer{}
	err := r.db.QueryRow(query, bookingID).Scan(
		&transfer.ID, &transfer.BookingID, &transfer.CompanyID,
		&transfer.Amount, &transfer.IsFree, &transfer.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch transfer: %w", err)
	}

	return transfer, nil
}

// lockField takes a row lock on the field, serializing conflicting writers
func (r *BookingRepository) lockField(tx *sqlx.Tx, fieldID string) error {
	var id string
	if err := tx.QueryRow(`SELECT id FROM fields WHERE id = $1 FOR UPDATE`, fieldID).Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("field not found")
		}
		return fmt.Errorf("failed to lock field: %w", err)
	}
	return nil
}

// checkConflict applies the half-open overlap test against all non-canceled
// bookings of the same field and date. Touching endpoints do not conflict.
func (r *BookingRepository) checkConflict(tx *sqlx.Tx, booking *models.Booking, excludeID *string) error {
	query := `
		SELECT booking_number
		FROM bookings
		WHERE field_id = $1
		  AND booking_date = $2
		  AND status != 'canceled'
		  AND start_time < $3
		  AND end_time > $4
		  AND ($5::uuid IS NULL OR id != $5)
		LIMIT 1
	`

	var conflicting string
	err := tx.QueryRow(query, booking.FieldID, booking.BookingDate, booking.EndTime, booking.StartTime, excludeID).Scan(&conflicting)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check booking conflicts: %w", err)
	}

	return &models.TimeConflictError{
		FieldID:                  booking.FieldID,
		Date:                     booking.BookingDate.Format("2006-01-02"),
		StartTime:                booking.StartTime,
		EndTime:                  booking.EndTime,
		ConflictingBookingNumber: conflicting,
	}
}

// scanBooking scans a single booking row
func (r *BookingRepository) scanBooking(row scanner) (*models.Booking, error) {
	booking := &models.Booking{}
	var userID sql.NullString
	var couponID sql.NullString
	var cancellationReason sql.NullString
	var notes sql.NullString

	err := row.Scan(
		&booking.ID, &booking.FieldID, &userID, &booking.BookingNumber, &booking.BookingDate,
		&booking.StartTime, &booking.EndTime, &booking.DurationMinutes,
		&booking.BasePrice, &booking.ExtraHourPrice, &booking.HasExtraHour, &booking.DiscountAmount, &booking.TotalAmount,
		&couponID, &booking.PaymentFormID, &booking.PaymentType,
		&booking.Status, &cancellationReason, &notes, &booking.CreatedAt, &booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		booking.UserID = &userID.String
	}
	if couponID.Valid {
		booking.CouponID = &couponID.String
	}
	if cancellationReason.Valid {
		booking.CancellationReason = &cancellationReason.String
	}
	if notes.Valid {
		booking.Notes = &notes.String
	}

	return booking, nil
}
