package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType represents how a booking is paid for
type PaymentType string

const (
	PaymentTypeOnline   PaymentType = "online"
	PaymentTypeInPerson PaymentType = "in_person"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCanceled  BookingStatus = "canceled"
	BookingStatusCompleted BookingStatus = "completed"
)

// legalTransitions maps each state to the states it may move to.
// canceled and completed are terminal.
var legalTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCanceled},
	BookingStatusConfirmed: {BookingStatusCanceled, BookingStatusCompleted},
	BookingStatusCanceled:  {},
	BookingStatusCompleted: {},
}

// ValidBookingStatus reports whether the value is a known booking status
func ValidBookingStatus(s BookingStatus) bool {
	_, ok := legalTransitions[s]
	return ok
}

// Booking represents a reservation of a field for a time interval on a date
type Booking struct {
	ID                 string          `json:"id" db:"id"`
	FieldID            string          `json:"field_id" db:"field_id"`
	UserID             *string         `json:"user_id,omitempty" db:"user_id"`
	BookingNumber      string          `json:"booking_number" db:"booking_number"`
	BookingDate        time.Time       `json:"booking_date" db:"booking_date"`
	StartTime          string          `json:"start_time" db:"start_time"`
	EndTime            string          `json:"end_time" db:"end_time"`
	DurationMinutes    int             `json:"duration_minutes" db:"duration_minutes"`
	BasePrice          decimal.Decimal `json:"base_price" db:"base_price"`
	ExtraHourPrice     decimal.Decimal `json:"extra_hour_price" db:"extra_hour_price"`
	HasExtraHour       bool            `json:"has_extra_hour" db:"has_extra_hour"`
	DiscountAmount     decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	TotalAmount        decimal.Decimal `json:"total_amount" db:"total_amount"`
	CouponID           *string         `json:"coupon_id,omitempty" db:"coupon_id"`
	PaymentFormID      string          `json:"payment_form_id" db:"payment_form_id"`
	PaymentType        PaymentType     `json:"payment_type" db:"payment_type"`
	Status             BookingStatus   `json:"status" db:"status"`
	CancellationReason *string         `json:"cancellation_reason,omitempty" db:"cancellation_reason"`
	Notes              *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// CanTransitionTo reports whether moving to next is a legal lifecycle step
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	for _, s := range legalTransitions[b.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// Transition moves the booking to the next status, enforcing the lifecycle
// rules. A transition to canceled requires a non-empty reason.
func (b *Booking) Transition(next BookingStatus, reason *string) error {
	if !b.CanTransitionTo(next) {
		return &InvalidTransitionError{From: b.Status, To: next}
	}

	if next == BookingStatusCanceled {
		if reason == nil || strings.TrimSpace(*reason) == "" {
			return &InvalidTransitionError{From: b.Status, To: next, Detail: "cancellation requires a reason"}
		}
		b.CancellationReason = reason
	}

	b.Status = next
	b.UpdatedAt = time.Now()
	return nil
}

// IsMutable reports whether full-field updates are still allowed
func (b *Booking) IsMutable() bool {
	return b.Status != BookingStatusCompleted
}

// IsCanceled reports whether the booking has been canceled
func (b *Booking) IsCanceled() bool {
	return b.Status == BookingStatusCanceled
}

// PriceBreakdown is the result of the pricing calculator
type PriceBreakdown struct {
	DurationMinutes int             `json:"duration_minutes"`
	BasePrice       decimal.Decimal `json:"base_price"`
	ExtraHourPrice  decimal.Decimal `json:"extra_hour_price"`
	HasExtraHour    bool            `json:"has_extra_hour"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	EndTime         string          `json:"end_time"`
}

// CreateBookingRequest represents the request to create a booking
type CreateBookingRequest struct {
	FieldID          string  `json:"field_id" binding:"required"`
	BookingDate      string  `json:"booking_date" binding:"required"`
	StartTime        string  `json:"start_time" binding:"required"`
	EndTime          string  `json:"end_time" binding:"required"`
	PaymentType      string  `json:"payment_type" binding:"required,oneof=online in_person"`
	PaymentFormID    string  `json:"payment_form_id" binding:"required"`
	CouponID         *string `json:"coupon_id,omitempty"`
	IncludeExtraHour bool    `json:"include_extra_hour"`
	UserID           *string `json:"user_id,omitempty"`
	UserPhone        *string `json:"user_phone,omitempty"`
	InitialStatus    *string `json:"initial_status,omitempty"`
	Notes            *string `json:"notes,omitempty"`
}

// UpdateBookingRequest represents the request to update a booking.
// Nil fields are left unchanged.
type UpdateBookingRequest struct {
	FieldID          *string `json:"field_id,omitempty"`
	BookingDate      *string `json:"booking_date,omitempty"`
	StartTime        *string `json:"start_time,omitempty"`
	EndTime          *string `json:"end_time,omitempty"`
	PaymentType      *string `json:"payment_type,omitempty"`
	PaymentFormID    *string `json:"payment_form_id,omitempty"`
	CouponID         *string `json:"coupon_id,omitempty"`
	IncludeExtraHour *bool   `json:"include_extra_hour,omitempty"`
	Notes            *string `json:"notes,omitempty"`
}

// ChangeStatusRequest represents the request to move a booking through its lifecycle
type ChangeStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Reason *string `json:"reason,omitempty"`
}

// DaySchedule lists the occupied and free slots of a field on one date
type DaySchedule struct {
	FieldID  string         `json:"field_id"`
	Date     string         `json:"date"`
	Occupied []ScheduleSlot `json:"occupied"`
	Free     []ScheduleSlot `json:"free"`
}

// ScheduleSlot is one interval of a day schedule
type ScheduleSlot struct {
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	BookingNumber string `json:"booking_number,omitempty"`
	Status        string `json:"status,omitempty"`
}
