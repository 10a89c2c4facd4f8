package models

import "fmt"

// TimeConflictError indicates that a candidate interval overlaps an existing
// non-canceled booking on the same field and date. Retryable with another slot.
type TimeConflictError struct {
	FieldID                  string
	Date                     string
	StartTime                string
	EndTime                  string
	ConflictingBookingNumber string
}

func (e *TimeConflictError) Error() string {
	return fmt.Sprintf("field %s is already booked on %s between %s and %s (booking %s)",
		e.FieldID, e.Date, e.StartTime, e.EndTime, e.ConflictingBookingNumber)
}

// CompanyNotEligibleError indicates the company may not operate bookings
type CompanyNotEligibleError struct {
	CompanyID string
	Status    CompanyStatus
}

func (e *CompanyNotEligibleError) Error() string {
	return fmt.Sprintf("company %s is not eligible to manage bookings (status: %s)", e.CompanyID, e.Status)
}

// InvalidCouponError indicates the coupon is missing, inactive or expired
type InvalidCouponError struct {
	CouponID string
	Reason   string
}

func (e *InvalidCouponError) Error() string {
	return fmt.Sprintf("coupon %s cannot be applied: %s", e.CouponID, e.Reason)
}

// InvalidTransitionError indicates an illegal booking status change
type InvalidTransitionError struct {
	From   BookingStatus
	To     BookingStatus
	Detail string
}

func (e *InvalidTransitionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("cannot transition booking from %s to %s: %s", e.From, e.To, e.Detail)
	}
	return fmt.Sprintf("cannot transition booking from %s to %s", e.From, e.To)
}

// ImmutableBookingError indicates an attempted mutation of a completed booking
type ImmutableBookingError struct {
	BookingID string
}

func (e *ImmutableBookingError) Error() string {
	return fmt.Sprintf("booking %s is completed and can no longer be modified", e.BookingID)
}
