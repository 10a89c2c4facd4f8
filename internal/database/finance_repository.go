package database

import (
	"fmt"
	"time"

	"github.com/courtbase/field-booking-backend/internal/models"
	"github.com/lib/pq"
)

// FinanceRepository provides the read-only aggregates behind the financial
// report. It never mutates rows and tolerates missing related records.
type FinanceRepository struct {
	db DB
}

// NewFinanceRepository creates a new FinanceRepository
func NewFinanceRepository(db DB) *FinanceRepository {
	return &FinanceRepository{db: db}
}

// BookingItems lists bookings of the company's fields in the date range with
// one of the given statuses
func (r *FinanceRepository) BookingItems(companyID string, from, to time.Time, statuses []string) ([]models.FinanceItem, error) {
	query := `
		SELECT b.booking_number, COALESCE(f.name, ''), b.total_amount, b.booking_date, b.status
		FROM bookings b
		LEFT JOIN fields f ON f.id = b.field_id
		WHERE b.field_id IN (SELECT id FROM fields WHERE company_id = $1)
		  AND b.booking_date >= $2::date
		  AND b.booking_date <= $3::date
		  AND b.status = ANY($4)
		ORDER BY b.booking_date, b.start_time
	`

	return r.queryItems(query, companyID, from, to, pq.Array(statuses))
}

// TabItems lists the company's tabs created in the date range with one of the
// given statuses
func (r *FinanceRepository) TabItems(companyID string, from, to time.Time, statuses []string) ([]models.FinanceItem, error) {
	query := `
		SELECT code, code, total, created_at, status
		FROM tabs
		WHERE company_id = $1
		  AND created_at >= $2
		  AND created_at <= $3
		  AND status = ANY($4)
		ORDER BY created_at
	`

	return r.queryItems(query, companyID, from, to, pq.Array(statuses))
}

// ExpenseItems lists the company's expenses of one type and payment state due
// in the date range
func (r *FinanceRepository) ExpenseItems(companyID string, from, to time.Time, expenseType models.ExpenseType, paid bool) ([]models.FinanceItem, error) {
	query := `
		SELECT id, COALESCE(description, ''), amount, due_date,
			   CASE WHEN paid THEN 'paid' ELSE 'unpaid' END
		FROM expenses
		WHERE company_id = $1
		  AND due_date >= $2
		  AND due_date <= $3
		  AND type = $4
		  AND paid = $5
		ORDER BY due_date
	`

	return r.queryItems(query, companyID, from, to, expenseType, paid)
}

// PurchaseItems lists the company's purchases made in the date range with one
// of the given statuses
func (r *FinanceRepository) PurchaseItems(companyID string, from, to time.Time, statuses []string) ([]models.FinanceItem, error) {
	query := `
		SELECT id, COALESCE(supplier, ''), total, purchased_at, status
		FROM purchases
		WHERE company_id = $1
		  AND purchased_at >= $2
		  AND purchased_at <= $3
		  AND status = ANY($4)
		ORDER BY purchased_at
	`

	return r.queryItems(query, companyID, from, to, pq.Array(statuses))
}

// FeeItems lists the non-waived platform fees accrued on the company's
// bookings in the date range
func (r *FinanceRepository) FeeItems(companyID string, from, to time.Time) ([]models.FinanceItem, error) {
	query := `
		SELECT COALESCE(b.booking_number, ''), COALESCE(b.booking_number, ''), t.amount, t.created_at, 'accrued'
		FROM company_transfers t
		LEFT JOIN bookings b ON b.id = t.booking_id
		WHERE t.company_id = $1
		  AND t.created_at >= $2
		  AND t.created_at <= $3
		  AND t.is_free = false
		ORDER BY t.created_at
	`

	return r.queryItems(query, companyID, from, to)
}

func (r *FinanceRepository) queryItems(query string, args ...interface{}) ([]models.FinanceItem, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query finance items: %w", err)
	}
	defer rows.Close()

	items := []models.FinanceItem{}
	for rows.Next() {
		var item models.FinanceItem
		if err := rows.Scan(&item.Reference, &item.Name, &item.Value, &item.Date, &item.Status); err != nil {
			return nil, fmt.Errorf("failed to scan finance item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
