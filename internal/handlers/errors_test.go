package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/courtbase/field-booking-backend/internal/models"
)

func statusFor(t *testing.T, err error) (int, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondServiceError(c, err)

	return w.Code, w.Body.String()
}

func TestRespondServiceError(t *testing.T) {
	t.Run("Time conflict maps to 409", func(t *testing.T) {
		code, body := statusFor(t, &models.TimeConflictError{
			FieldID:                  "field-1",
			Date:                     "2026-09-15",
			StartTime:                "10:00",
			EndTime:                  "12:00",
			ConflictingBookingNumber: "BK-20260915-A1B2C3",
		})
		assert.Equal(t, http.StatusConflict, code)
		assert.Contains(t, body, "time_conflict")
		assert.Contains(t, body, "BK-20260915-A1B2C3")
	})

	t.Run("Ineligible company maps to 403", func(t *testing.T) {
		code, body := statusFor(t, &models.CompanyNotEligibleError{
			CompanyID: "company-1",
			Status:    models.CompanyStatusBlocked,
		})
		assert.Equal(t, http.StatusForbidden, code)
		assert.Contains(t, body, "company_not_eligible")
	})

	t.Run("Invalid coupon maps to 422", func(t *testing.T) {
		code, body := statusFor(t, &models.InvalidCouponError{CouponID: "c-1", Reason: "coupon has expired"})
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Contains(t, body, "invalid_coupon")
	})

	t.Run("Invalid transition maps to 422", func(t *testing.T) {
		code, body := statusFor(t, &models.InvalidTransitionError{
			From: models.BookingStatusCompleted,
			To:   models.BookingStatusPending,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Contains(t, body, "invalid_transition")
	})

	t.Run("Immutable booking maps to 423", func(t *testing.T) {
		code, body := statusFor(t, &models.ImmutableBookingError{BookingID: "b-1"})
		assert.Equal(t, http.StatusLocked, code)
		assert.Contains(t, body, "booking_immutable")
	})

	t.Run("Wrapped domain error still maps", func(t *testing.T) {
		wrapped := fmt.Errorf("creating booking: %w", &models.TimeConflictError{FieldID: "field-1"})
		code, _ := statusFor(t, wrapped)
		assert.Equal(t, http.StatusConflict, code)
	})

	t.Run("Not-found text maps to 404", func(t *testing.T) {
		code, body := statusFor(t, errors.New("booking not found"))
		assert.Equal(t, http.StatusNotFound, code)
		assert.Contains(t, body, "not_found")
	})

	t.Run("Anything else maps to 400", func(t *testing.T) {
		code, _ := statusFor(t, errors.New("field does not belong to company"))
		assert.Equal(t, http.StatusBadRequest, code)
	})
}
