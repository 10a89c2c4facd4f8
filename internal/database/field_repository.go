package database

import (
	"database/sql"
	"fmt"

	"github.com/courtbase/field-booking-backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FieldRepository handles database operations for the fields table
type FieldRepository struct {
	db DB
}

// NewFieldRepository creates a new FieldRepository
func NewFieldRepository(db DB) *FieldRepository {
	return &FieldRepository{db: db}
}

// Create creates a new field
func (r *FieldRepository) Create(field *models.Field) error {
	query := `
		INSERT INTO fields (
			id, company_id, name, price_per_hour, extra_hour_price,
			allows_extra_hour, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	if field.ID == "" {
		field.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		field.ID, field.CompanyID, field.Name, field.PricePerHour, field.ExtraHourPrice,
		field.AllowsExtraHour, field.IsActive,
	).Scan(&field.CreatedAt, &field.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create field: %w", err)
	}

	return nil
}

// GetByID retrieves a field by ID
func (r *FieldRepository) GetByID(fieldID string) (*models.Field, error) {
	query := `
		SELECT id, company_id, name, price_per_hour, extra_hour_price,
			   allows_extra_hour, is_active, created_at, updated_at
		FROM fields
		WHERE id = $1
	`

	field, err := r.scanField(r.db.QueryRow(query, fieldID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("field not found")
		}
		return nil, fmt.Errorf("failed to fetch field: %w", err)
	}
	return field, nil
}

// ListByCompany retrieves all fields owned by a company
func (r *FieldRepository) ListByCompany(companyID string) ([]models.Field, error) {
	query := `
		SELECT id, company_id, name, price_per_hour, extra_hour_price,
			   allows_extra_hour, is_active, created_at, updated_at
		FROM fields
		WHERE company_id = $1
		ORDER BY name
	`

	rows, err := r.db.Query(query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}
	defer rows.Close()

	fields := []models.Field{}
	for rows.Next() {
		field, err := r.scanField(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan field: %w", err)
		}
		fields = append(fields, *field)
	}

	return fields, rows.Err()
}

// Update updates the mutable attributes of a field
func (r *FieldRepository) Update(field *models.Field) error {
	query := `
		UPDATE fields
		SET name = $2, price_per_hour = $3, extra_hour_price = $4,
			allows_extra_hour = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		field.ID, field.Name, field.PricePerHour, field.ExtraHourPrice,
		field.AllowsExtraHour, field.IsActive,
	).Scan(&field.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("field not found")
		}
		return fmt.Errorf("failed to update field: %w", err)
	}

	return nil
}

// scanField scans a single field row
func (r *FieldRepository) scanField(row scanner) (*models.Field, error) {
	field := &models.Field{}
	var extraHourPrice decimal.NullDecimal

	err := row.Scan(
		&field.ID, &field.CompanyID, &field.Name, &field.PricePerHour, &extraHourPrice,
		&field.AllowsExtraHour, &field.IsActive, &field.CreatedAt, &field.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if extraHourPrice.Valid {
		field.ExtraHourPrice = &extraHourPrice.Decimal
	}

	return field, nil
}
