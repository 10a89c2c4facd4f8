package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/courtbase/field-booking-backend/internal/models"
)

// respondServiceError maps domain errors onto HTTP status codes and a
// consistent error body
func respondServiceError(c *gin.Context, err error) {
	var conflictErr *models.TimeConflictError
	if errors.As(err, &conflictErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error":            "time_conflict",
			"message":          conflictErr.Error(),
			"conflicting_with": conflictErr.ConflictingBookingNumber,
		})
		return
	}

	var eligibilityErr *models.CompanyNotEligibleError
	if errors.As(err, &eligibilityErr) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "company_not_eligible",
			"message": eligibilityErr.Error(),
			"status":  eligibilityErr.Status,
		})
		return
	}

	var couponErr *models.InvalidCouponError
	if errors.As(err, &couponErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "invalid_coupon",
			"message": couponErr.Error(),
		})
		return
	}

	var transitionErr *models.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "invalid_transition",
			"message": transitionErr.Error(),
			"from":    transitionErr.From,
			"to":      transitionErr.To,
		})
		return
	}

	var immutableErr *models.ImmutableBookingError
	if errors.As(err, &immutableErr) {
		c.JSON(http.StatusLocked, gin.H{
			"error":   "booking_immutable",
			"message": immutableErr.Error(),
		})
		return
	}

	if strings.Contains(err.Error(), "not found") {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "request_failed",
		"message": err.Error(),
	})
}
