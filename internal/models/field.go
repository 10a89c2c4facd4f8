package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Field represents a rentable sports court
type Field struct {
	ID              string           `json:"id" db:"id"`
	CompanyID       string           `json:"company_id" db:"company_id"`
	Name            string           `json:"name" db:"name"`
	PricePerHour    decimal.Decimal  `json:"price_per_hour" db:"price_per_hour"`
	ExtraHourPrice  *decimal.Decimal `json:"extra_hour_price,omitempty" db:"extra_hour_price"`
	AllowsExtraHour bool             `json:"allows_extra_hour" db:"allows_extra_hour"`
	IsActive        bool             `json:"is_active" db:"is_active"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" db:"updated_at"`
}

// CreateFieldRequest represents the request to register a field
type CreateFieldRequest struct {
	Name            string `json:"name" binding:"required"`
	PricePerHour    string `json:"price_per_hour" binding:"required"`
	ExtraHourPrice  string `json:"extra_hour_price,omitempty"`
	AllowsExtraHour bool   `json:"allows_extra_hour"`
}

// Validate validates the create field request
func (r *CreateFieldRequest) Validate() error {
	price, err := decimal.NewFromString(r.PricePerHour)
	if err != nil {
		return errors.New("price_per_hour must be a decimal value")
	}
	if price.IsNegative() {
		return errors.New("price_per_hour must not be negative")
	}

	if r.ExtraHourPrice != "" {
		extra, err := decimal.NewFromString(r.ExtraHourPrice)
		if err != nil {
			return errors.New("extra_hour_price must be a decimal value")
		}
		if extra.IsNegative() {
			return errors.New("extra_hour_price must not be negative")
		}
	}

	return nil
}

