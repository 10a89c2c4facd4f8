package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/courtbase/field-booking-backend/internal/database"
	"github.com/courtbase/field-booking-backend/internal/middleware"
	"github.com/courtbase/field-booking-backend/internal/models"
)

// FieldHandler handles field HTTP requests
type FieldHandler struct {
	fieldRepo *database.FieldRepository
}

// NewFieldHandler creates a new FieldHandler
func NewFieldHandler(fieldRepo *database.FieldRepository) *FieldHandler {
	return &FieldHandler{fieldRepo: fieldRepo}
}

// Create registers a field for the authenticated company
// POST /api/v1/fields
func (h *FieldHandler) Create(c *gin.Context) {
	companyCtx, exists := middleware.GetCompanyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Company not authenticated",
		})
		return
	}

	var req models.CreateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
		})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
		})
		return
	}

	field := &models.Field{
		CompanyID:       companyCtx.CompanyID.String(),
		Name:            req.Name,
		PricePerHour:    decimal.RequireFromString(req.PricePerHour),
		AllowsExtraHour: req.AllowsExtraHour,
		IsActive:        true,
	}
	if req.ExtraHourPrice != "" {
		extra := decimal.RequireFromString(req.ExtraHourPrice)
		field.ExtraHourPrice = &extra
	}

	if err := h.fieldRepo.Create(field); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Field created",
		"field":   field,
	})
}

// List lists the company's fields
// GET /api/v1/fields
func (h *FieldHandler) List(c *gin.Context) {
	companyCtx, exists := middleware.GetCompanyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Company not authenticated",
		})
		return
	}

	fields, err := h.fieldRepo.ListByCompany(companyCtx.CompanyID.String())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fields": fields,
		"count":  len(fields),
	})
}

// Get fetches one of the company's fields
// GET /api/v1/fields/:id
func (h *FieldHandler) Get(c *gin.Context) {
	companyCtx, exists := middleware.GetCompanyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Company not authenticated",
		})
		return
	}

	field, err := h.fieldRepo.GetByID(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if field.CompanyID != companyCtx.CompanyID.String() {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "field not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"field": field})
}
