package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompanyTransfer records the platform fee accrued on a booking.
// A transfer row exists if and only if its booking is not canceled.
type CompanyTransfer struct {
	ID        string          `json:"id" db:"id"`
	BookingID string          `json:"booking_id" db:"booking_id"`
	CompanyID string          `json:"company_id" db:"company_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	IsFree    bool            `json:"is_free" db:"is_free"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
