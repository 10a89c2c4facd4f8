package services

import (
	"fmt"
	"time"

	"github.com/courtbase/field-booking-backend/internal/models"
	"github.com/courtbase/field-booking-backend/pkg/timeslot"
	"github.com/shopspring/decimal"
)

// extraHourMinutes is the fixed length of the extra-hour extension
const extraHourMinutes = 30

var minutesPerHour = decimal.NewFromInt(60)

// PricingService computes booking prices and coupon discounts. All amounts
// are decimal with two fraction digits, rounded half-up.
type PricingService struct{}

// NewPricingService creates a new PricingService
func NewPricingService() *PricingService {
	return &PricingService{}
}

// Calculate computes the price breakdown for renting the field over
// [start, end). When includeExtraHour is set, the field allows it and has a
// configured extra-hour price, that price is added and both the duration and
// the returned end time are extended by 30 minutes. The returned EndTime is
// the real occupied window end and is what must be conflict-checked.
func (s *PricingService) Calculate(field *models.Field, start, end string, includeExtraHour bool) (*models.PriceBreakdown, error) {
	interval, err := timeslot.FromClocks(start, end)
	if err != nil {
		return nil, err
	}

	basePrice := field.PricePerHour.
		Mul(decimal.NewFromInt(int64(interval.Minutes()))).
		Div(minutesPerHour).
		Round(2)
	if basePrice.IsNegative() {
		return nil, fmt.Errorf("field %s has a negative hourly price", field.ID)
	}

	breakdown := &models.PriceBreakdown{
		DurationMinutes: interval.Minutes(),
		BasePrice:       basePrice,
		ExtraHourPrice:  decimal.Zero,
		EndTime:         interval.EndClock(),
	}

	if includeExtraHour && field.AllowsExtraHour && field.ExtraHourPrice != nil {
		extended := interval.Extend(extraHourMinutes)
		breakdown.ExtraHourPrice = field.ExtraHourPrice.Round(2)
		breakdown.HasExtraHour = true
		breakdown.DurationMinutes = extended.Minutes()
		breakdown.EndTime = extended.EndClock()
	}

	breakdown.TotalPrice = breakdown.BasePrice.Add(breakdown.ExtraHourPrice)
	return breakdown, nil
}

// ApplyCoupon computes the bounded discount a coupon yields on a base price.
// The discount never exceeds the base price, so the returned total is never
// negative. Inactive and expired coupons are rejected.
func (s *PricingService) ApplyCoupon(coupon *models.Coupon, basePrice decimal.Decimal) (discount, total decimal.Decimal, err error) {
	if coupon == nil {
		return decimal.Zero, decimal.Zero, &models.InvalidCouponError{Reason: "coupon not found"}
	}
	if !coupon.IsRedeemable(time.Now()) {
		reason := "coupon is inactive"
		if coupon.IsActive {
			reason = "coupon has expired"
		}
		return decimal.Zero, decimal.Zero, &models.InvalidCouponError{CouponID: coupon.ID, Reason: reason}
	}

	switch coupon.DiscountType {
	case models.DiscountTypePercentage:
		discount = basePrice.Mul(coupon.DiscountAmount).Div(decimal.NewFromInt(100)).Round(2)
	case models.DiscountTypeFixed:
		discount = coupon.DiscountAmount.Round(2)
	default:
		return decimal.Zero, decimal.Zero, &models.InvalidCouponError{
			CouponID: coupon.ID,
			Reason:   fmt.Sprintf("unknown discount type %q", coupon.DiscountType),
		}
	}

	if discount.GreaterThan(basePrice) {
		discount = basePrice
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	return discount, basePrice.Sub(discount), nil
}
