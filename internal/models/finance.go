package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TabStatus represents the state of a point-of-sale tab (comanda)
type TabStatus string

const (
	TabStatusOpen     TabStatus = "open"
	TabStatusClosed   TabStatus = "closed"
	TabStatusCanceled TabStatus = "canceled"
)

// Tab is a point-of-sale ledger owned by a company. The booking core only
// reads tabs for financial reporting.
type Tab struct {
	ID        string          `json:"id" db:"id"`
	CompanyID string          `json:"company_id" db:"company_id"`
	Code      string          `json:"code" db:"code"`
	Total     decimal.Decimal `json:"total" db:"total"`
	Status    TabStatus       `json:"status" db:"status"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	ClosedAt  *time.Time      `json:"closed_at,omitempty" db:"closed_at"`
}

// ExpenseType splits expenses into money-in and money-out entries
type ExpenseType string

const (
	ExpenseTypeEntry ExpenseType = "entry"
	ExpenseTypeExit  ExpenseType = "exit"
)

// Expense is a company cash-flow entry, either revenue (entry) or cost (exit)
type Expense struct {
	ID          string          `json:"id" db:"id"`
	CompanyID   string          `json:"company_id" db:"company_id"`
	Description string          `json:"description" db:"description"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Type        ExpenseType     `json:"type" db:"type"`
	Paid        bool            `json:"paid" db:"paid"`
	DueDate     time.Time       `json:"due_date" db:"due_date"`
	PaidAt      *time.Time      `json:"paid_at,omitempty" db:"paid_at"`
}

// PurchaseStatus represents the state of a stock purchase
type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusCompleted PurchaseStatus = "completed"
	PurchaseStatusCanceled  PurchaseStatus = "canceled"
)

// Purchase is a stock purchase from a supplier, read for reporting only
type Purchase struct {
	ID          string          `json:"id" db:"id"`
	CompanyID   string          `json:"company_id" db:"company_id"`
	Supplier    *string         `json:"supplier,omitempty" db:"supplier"`
	Total       decimal.Decimal `json:"total" db:"total"`
	Status      PurchaseStatus  `json:"status" db:"status"`
	PurchasedAt time.Time       `json:"purchased_at" db:"purchased_at"`
}

// FinanceItem is one itemized line of a financial report category
type FinanceItem struct {
	Reference string          `json:"reference"`
	Name      string          `json:"name"`
	Value     decimal.Decimal `json:"value"`
	Date      time.Time       `json:"date"`
	Status    string          `json:"status"`
}

// FinanceCategory groups a category's items with its total
type FinanceCategory struct {
	Items []FinanceItem   `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// ActualBucket aggregates realized revenue and expenses
type ActualBucket struct {
	Bookings       FinanceCategory `json:"bookings"`
	Tabs           FinanceCategory `json:"tabs"`
	ExpenseEntries FinanceCategory `json:"expense_entries"`
	ExpenseExits   FinanceCategory `json:"expense_exits"`
	Purchases      FinanceCategory `json:"purchases"`
	Fees           FinanceCategory `json:"fees"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalExpenses  decimal.Decimal `json:"total_expenses"`
	TotalBalance   decimal.Decimal `json:"total_balance"`
}

// PossibleBucket aggregates amounts not yet realized (pending status)
type PossibleBucket struct {
	Bookings       FinanceCategory `json:"bookings"`
	Tabs           FinanceCategory `json:"tabs"`
	ExpenseEntries FinanceCategory `json:"expense_entries"`
	ExpenseExits   FinanceCategory `json:"expense_exits"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalExpenses  decimal.Decimal `json:"total_expenses"`
}

// CanceledBucket aggregates amounts voided inside the report range
type CanceledBucket struct {
	Bookings  FinanceCategory `json:"bookings"`
	Tabs      FinanceCategory `json:"tabs"`
	Purchases FinanceCategory `json:"purchases"`
	Total     decimal.Decimal `json:"total"`
}

// FinancialReport is the per-company, per-date-range aggregate. It is computed
// on demand and never persisted.
type FinancialReport struct {
	CompanyID string         `json:"company_id"`
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Actual    ActualBucket   `json:"actual"`
	Possible  PossibleBucket `json:"possible"`
	Canceled  CanceledBucket `json:"canceled"`
}
