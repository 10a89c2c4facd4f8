package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courtbase/field-booking-backend/internal/middleware"
	"github.com/courtbase/field-booking-backend/internal/models"
	"github.com/courtbase/field-booking-backend/internal/services"
	"github.com/courtbase/field-booking-backend/pkg/timeslot"
)

// Business-rule bounds on a booking window, enforced at the API boundary.
const (
	minBookingMinutes = 60
	maxBookingMinutes = 480
)

// validateBookingWindow checks that the requested slot is well formed and
// within the allowed duration range. Extra-hour extension is not counted
// here; it is applied later by the pricing layer.
func validateBookingWindow(start, end string) error {
	interval, err := timeslot.FromClocks(start, end)
	if err != nil {
		return err
	}
	minutes := interval.Minutes()
	if minutes < minBookingMinutes || minutes > maxBookingMinutes {
		return fmt.Errorf("booking duration must be between %d and %d minutes", minBookingMinutes, maxBookingMinutes)
	}
	return nil
}

// BookingHandler handles booking HTTP requests
type BookingHandler struct {
	bookingService      *services.BookingService
	availabilityService *services.AvailabilityService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(
	bookingService *services.BookingService,
	availabilityService *services.AvailabilityService,
) *BookingHandler {
	return &BookingHandler{
		bookingService:      bookingService,
		availabilityService: availabilityService,
	}
}

// Create creates a booking
// POST /api/v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	companyCtx, exists := middleware.GetCompanyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Company not authenticated",
		})
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
		})
		return
	}

	if err := validateBookingWindow(req.StartTime, req.EndTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
		})
		return
	}

	booking, err := h.bookingService.Create(companyCtx.CompanyID.String(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking created",
		"booking": booking,
	})
}

// Get fetches a booking by ID
// GET /api/v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	companyCtx, exists := middleware.GetCompanyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Company not authenticated",
		})
		return
	}

	booking, err := h.bookingService.GetByID(companyCtx.CompanyID.String(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// Update applies a partial update to a booking
// PUT /api/v1/bookings/:id
func (h *BookingHandler) Update(c *gin.Context) {
	companyCtx, exists := middleware.GetCompanyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Company not authenticated",
		})
		return
	}

	var req models.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
		})
		return
	}

	if req.StartTime != nil && req.EndTime != nil {
		if err := validateBookingWindow(*req.StartTime, *req.EndTime); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "validation_error",
				"message": err.Error(),
			})
			return
		}
	}

	booking, err := h.bookingService.Update(companyCtx.CompanyID.String(), c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking updated",
		"booking": booking,
	})
}

// ChangeStatus moves a booking through its lifecycle
// PATCH /api/v1/bookings/:id/status
func (h *BookingHandler) ChangeStatus(c *gin.Context) {
	companyCtx, exists := middleware.GetCompanyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Company not authenticated",
		})
		return
	}

	var req models.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
		})
		return
	}

	booking, err := h.bookingService.ChangeStatus(companyCtx.CompanyID.String(), c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking status changed",
		"booking": booking,
	})
}

// PriceQuote previews the price a booking would get, without holding a slot
// GET /api/v1/fields/:id/price?start_time=HH:MM&end_time=HH:MM&extra_hour=bool&coupon_id=...
func (h *BookingHandler) PriceQuote(c *gin.Context) {
	companyCtx, exists := middleware.GetCompanyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Company not authenticated",
		})
		return
	}

	input := &services.QuoteInput{
		FieldID:          c.Param("id"),
		StartTime:        c.Query("start_time"),
		EndTime:          c.Query("end_time"),
		IncludeExtraHour: c.Query("extra_hour") == "true",
	}
	if couponID := c.Query("coupon_id"); couponID != "" {
		input.CouponID = &couponID
	}
	if input.StartTime == "" || input.EndTime == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "start_time and end_time query parameters are required",
		})
		return
	}

	breakdown, err := h.bookingService.Quote(companyCtx.CompanyID.String(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"price": breakdown})
}

// DaySchedule returns the occupied and free slots of a field on one date
// GET /api/v1/fields/:id/availability?date=YYYY-MM-DD
func (h *BookingHandler) DaySchedule(c *gin.Context) {
	companyCtx, exists := middleware.GetCompanyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Company not authenticated",
		})
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "date query parameter is required",
		})
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "date must be YYYY-MM-DD",
		})
		return
	}

	schedule, err := h.availabilityService.DayScheduleFor(companyCtx.CompanyID.String(), c.Param("id"), date)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}
