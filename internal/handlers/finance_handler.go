package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courtbase/field-booking-backend/internal/middleware"
	"github.com/courtbase/field-booking-backend/internal/services"
)

// FinanceHandler handles financial report HTTP requests
type FinanceHandler struct {
	financeService *services.FinanceService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(financeService *services.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

// Report builds the financial report for a date range
// GET /api/v1/finance/report?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
func (h *FinanceHandler) Report(c *gin.Context) {
	companyCtx, exists := middleware.GetCompanyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Company not authenticated",
		})
		return
	}

	from, err := time.Parse("2006-01-02", c.Query("start_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "start_date must be YYYY-MM-DD",
		})
		return
	}

	to, err := time.Parse("2006-01-02", c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "end_date must be YYYY-MM-DD",
		})
		return
	}

	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "end_date must not precede start_date",
		})
		return
	}

	report, err := h.financeService.Reconcile(companyCtx.CompanyID.String(), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}
