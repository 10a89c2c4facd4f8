package models

import (
	"time"
)

// CompanyStatus represents the approval state of a company account
type CompanyStatus string

const (
	CompanyStatusPending  CompanyStatus = "pending"
	CompanyStatusApproved CompanyStatus = "approved"
	CompanyStatusBlocked  CompanyStatus = "blocked"
)

// Company represents a facility-owning tenant
type Company struct {
	ID           string        `json:"id" db:"id"`
	Name         string        `json:"name" db:"name"`
	Status       CompanyStatus `json:"status" db:"status"`
	TransferFree bool          `json:"transfer_free" db:"transfer_free"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// CanOperate reports whether the company may create or update bookings
func (c *Company) CanOperate() bool {
	return c.Status == CompanyStatusApproved
}

// User represents an athlete renting fields
type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	Email     *string   `json:"email,omitempty" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PaymentForm represents a payment method accepted by a company (cash, card, pix...)
type PaymentForm struct {
	ID        string    `json:"id" db:"id"`
	CompanyID string    `json:"company_id" db:"company_id"`
	Name      string    `json:"name" db:"name"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
