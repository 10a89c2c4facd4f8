package services

import (
	"time"

	"github.com/courtbase/field-booking-backend/internal/database"
	"github.com/courtbase/field-booking-backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// FinanceService computes on-demand financial reports from the company's
// bookings, tabs, expenses, purchases and accrued fees
type FinanceService struct {
	financeRepo *database.FinanceRepository
	logger      *logrus.Logger
}

// NewFinanceService creates a new FinanceService
func NewFinanceService(financeRepo *database.FinanceRepository, logger *logrus.Logger) *FinanceService {
	return &FinanceService{financeRepo: financeRepo, logger: logger}
}

// Reconcile builds the three-bucket financial report for a company over an
// inclusive date range. Nothing is persisted; re-running over the same range
// yields the same report as long as the underlying rows are unchanged.
func (s *FinanceService) Reconcile(companyID string, from, to time.Time) (*models.FinancialReport, error) {
	report := &models.FinancialReport{
		CompanyID: companyID,
		StartDate: from.Format("2006-01-02"),
		EndDate:   to.Format("2006-01-02"),
	}

	// Both ends inclusive: stretch the upper bound to the last instant of its
	// day so timestamp columns on that date are covered.
	to = to.Add(24*time.Hour - time.Second)

	if err := s.fillActual(report, companyID, from, to); err != nil {
		return nil, err
	}
	if err := s.fillPossible(report, companyID, from, to); err != nil {
		return nil, err
	}
	if err := s.fillCanceled(report, companyID, from, to); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"company_id":     companyID,
		"start_date":     report.StartDate,
		"end_date":       report.EndDate,
		"actual_balance": report.Actual.TotalBalance.String(),
	}).Info("Financial report computed")

	return report, nil
}

// fillActual aggregates realized money: confirmed and completed bookings,
// closed tabs, paid expenses, completed purchases and accrued platform fees
func (s *FinanceService) fillActual(report *models.FinancialReport, companyID string, from, to time.Time) error {
	bookings, err := s.financeRepo.BookingItems(companyID, from, to, []string{
		string(models.BookingStatusConfirmed), string(models.BookingStatusCompleted),
	})
	if err != nil {
		return err
	}

	tabs, err := s.financeRepo.TabItems(companyID, from, to, []string{string(models.TabStatusClosed)})
	if err != nil {
		return err
	}

	entries, err := s.financeRepo.ExpenseItems(companyID, from, to, models.ExpenseTypeEntry, true)
	if err != nil {
		return err
	}

	exits, err := s.financeRepo.ExpenseItems(companyID, from, to, models.ExpenseTypeExit, true)
	if err != nil {
		return err
	}

	purchases, err := s.financeRepo.PurchaseItems(companyID, from, to, []string{string(models.PurchaseStatusCompleted)})
	if err != nil {
		return err
	}

	fees, err := s.financeRepo.FeeItems(companyID, from, to)
	if err != nil {
		return err
	}

	report.Actual = models.ActualBucket{
		Bookings:       categorize(bookings),
		Tabs:           categorize(tabs),
		ExpenseEntries: categorize(entries),
		ExpenseExits:   categorize(exits),
		Purchases:      categorize(purchases),
		Fees:           categorize(fees),
	}
	report.Actual.TotalRevenue = report.Actual.Bookings.Total.
		Add(report.Actual.Tabs.Total).
		Add(report.Actual.ExpenseEntries.Total)
	report.Actual.TotalExpenses = report.Actual.ExpenseExits.Total.
		Add(report.Actual.Purchases.Total).
		Add(report.Actual.Fees.Total)
	report.Actual.TotalBalance = report.Actual.TotalRevenue.Sub(report.Actual.TotalExpenses)

	return nil
}

// fillPossible aggregates money not yet realized: pending bookings, open tabs
// and unpaid expenses
func (s *FinanceService) fillPossible(report *models.FinancialReport, companyID string, from, to time.Time) error {
	bookings, err := s.financeRepo.BookingItems(companyID, from, to, []string{string(models.BookingStatusPending)})
	if err != nil {
		return err
	}

	tabs, err := s.financeRepo.TabItems(companyID, from, to, []string{string(models.TabStatusOpen)})
	if err != nil {
		return err
	}

	entries, err := s.financeRepo.ExpenseItems(companyID, from, to, models.ExpenseTypeEntry, false)
	if err != nil {
		return err
	}

	exits, err := s.financeRepo.ExpenseItems(companyID, from, to, models.ExpenseTypeExit, false)
	if err != nil {
		return err
	}

	report.Possible = models.PossibleBucket{
		Bookings:       categorize(bookings),
		Tabs:           categorize(tabs),
		ExpenseEntries: categorize(entries),
		ExpenseExits:   categorize(exits),
	}
	report.Possible.TotalRevenue = report.Possible.Bookings.Total.
		Add(report.Possible.Tabs.Total).
		Add(report.Possible.ExpenseEntries.Total)
	report.Possible.TotalExpenses = report.Possible.ExpenseExits.Total

	return nil
}

// fillCanceled aggregates money voided inside the range
func (s *FinanceService) fillCanceled(report *models.FinancialReport, companyID string, from, to time.Time) error {
	bookings, err := s.financeRepo.BookingItems(companyID, from, to, []string{string(models.BookingStatusCanceled)})
	if err != nil {
		return err
	}

	tabs, err := s.financeRepo.TabItems(companyID, from, to, []string{string(models.TabStatusCanceled)})
	if err != nil {
		return err
	}

	purchases, err := s.financeRepo.PurchaseItems(companyID, from, to, []string{string(models.PurchaseStatusCanceled)})
	if err != nil {
		return err
	}

	report.Canceled = models.CanceledBucket{
		Bookings:  categorize(bookings),
		Tabs:      categorize(tabs),
		Purchases: categorize(purchases),
	}
	report.Canceled.Total = report.Canceled.Bookings.Total.
		Add(report.Canceled.Tabs.Total).
		Add(report.Canceled.Purchases.Total)

	return nil
}

// categorize wraps a list of items with its total and count
func categorize(items []models.FinanceItem) models.FinanceCategory {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Value)
	}
	return models.FinanceCategory{Items: items, Total: total, Count: len(items)}
}
