package database

import (
	"database/sql"
	"fmt"

	"github.com/courtbase/field-booking-backend/internal/models"
)

// CouponRepository handles read access to coupons. Coupon management lives
// outside the booking core.
type CouponRepository struct {
	db DB
}

// NewCouponRepository creates a new CouponRepository
func NewCouponRepository(db DB) *CouponRepository {
	return &CouponRepository{db: db}
}

// GetByID retrieves a coupon by ID. Returns nil without error when the coupon
// does not exist; redeemability is the service's call.
func (r *CouponRepository) GetByID(couponID string) (*models.Coupon, error) {
	query := `
		SELECT id, company_id, code, discount_type, discount_amount,
			   is_active, expires_at, created_at
		FROM coupons
		WHERE id = $1
	`

	coupon := &models.Coupon{}
	var expiresAt sql.NullTime

	err := r.db.QueryRow(query, couponID).Scan(
		&coupon.ID, &coupon.CompanyID, &coupon.Code, &coupon.DiscountType,
		&coupon.DiscountAmount, &coupon.IsActive, &expiresAt, &coupon.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch coupon: %w", err)
	}

	if expiresAt.Valid {
		coupon.ExpiresAt = &expiresAt.Time
	}

	return coupon, nil
}
