package database

import (
	"database/sql"
	"fmt"

	"github.com/courtbase/field-booking-backend/internal/models"
	"github.com/google/uuid"
)

// CompanyRepository handles database operations for companies and related lookups
type CompanyRepository struct {
	db DB
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(db DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// GetByID retrieves a company by ID
func (r *CompanyRepository) GetByID(companyID string) (*models.Company, error) {
	query := `
		SELECT id, name, status, transfer_free, created_at, updated_at
		FROM companies
		WHERE id = $1
	`

	company := &models.Company{}
	err := r.db.QueryRow(query, companyID).Scan(
		&company.ID, &company.Name, &company.Status, &company.TransferFree,
		&company.CreatedAt, &company.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("company not found")
		}
		return nil, fmt.Errorf("failed to fetch company: %w", err)
	}

	return company, nil
}

// GetUserByID retrieves a renter by ID
func (r *CompanyRepository) GetUserByID(userID string) (*models.User, error) {
	query := `
		SELECT id, name, phone, email, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user, err := r.scanUser(r.db.QueryRow(query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user, nil
}

// GetUserByPhone retrieves a renter by phone number.
// Returns nil without error when no user carries the number.
func (r *CompanyRepository) GetUserByPhone(phone string) (*models.User, error) {
	query := `
		SELECT id, name, phone, email, created_at, updated_at
		FROM users
		WHERE phone = $1
	`

	user, err := r.scanUser(r.db.QueryRow(query, phone))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user, nil
}

// CreateUserFromPhone registers a minimal renter record for a phone-only lookup
func (r *CompanyRepository) CreateUserFromPhone(phone string) (*models.User, error) {
	query := `
		INSERT INTO users (id, name, phone)
		VALUES ($1, '', $2)
		RETURNING id, name, phone, email, created_at, updated_at
	`

	user, err := r.scanUser(r.db.QueryRow(query, uuid.New().String(), phone))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetPaymentForm retrieves a payment form by ID
func (r *CompanyRepository) GetPaymentForm(paymentFormID string) (*models.PaymentForm, error) {
	query := `
		SELECT id, company_id, name, is_active, created_at
		FROM payment_forms
		WHERE id = $1
	`

	form := &models.PaymentForm{}
	err := r.db.QueryRow(query, paymentFormID).Scan(
		&form.ID, &form.CompanyID, &form.Name, &form.IsActive, &form.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("payment form not found")
		}
		return nil, fmt.Errorf("failed to fetch payment form: %w", err)
	}

	return form, nil
}

func (r *CompanyRepository) scanUser(row scanner) (*models.User, error) {
	user := &models.User{}
	var email sql.NullString

	err := row.Scan(&user.ID, &user.Name, &user.Phone, &email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if email.Valid {
		user.Email = &email.String
	}

	return user, nil
}
