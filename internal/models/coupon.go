package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType represents how a coupon discount is computed
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Coupon represents a discount rule managed outside the booking core
type Coupon struct {
	ID             string          `json:"id" db:"id"`
	CompanyID      string          `json:"company_id" db:"company_id"`
	Code           string          `json:"code" db:"code"`
	DiscountType   DiscountType    `json:"discount_type" db:"discount_type"`
	DiscountAmount decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	IsActive       bool            `json:"is_active" db:"is_active"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// IsRedeemable reports whether the coupon may be applied at the given instant
func (c *Coupon) IsRedeemable(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ExpiresAt != nil && !c.ExpiresAt.After(now) {
		return false
	}
	return true
}
