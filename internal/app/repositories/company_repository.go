package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/dmoran/orienta/internal/app/models"
	"github.com/dmoran/orienta/internal/db"
	"github.com/dmoran/orienta/internal/pkg/apperrors"
)

const companyColumns = `id, profile_id, name, tax_id, sector, description, website, status, decided_by, decided_at, rejection_reason, created_at, updated_at`

// CompanyRepository handles database operations for companies
type CompanyRepository struct {
	db *db.PostgresDB
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(database *db.PostgresDB) *CompanyRepository {
	return &CompanyRepository{db: database}
}

func scanCompany(row pgx.Row) (*models.Company, error) {
	var c models.Company
	err := row.Scan(
		&c.ID, &c.ProfileID, &c.Name, &c.TaxID, &c.Sector, &c.Description, &c.Website, &c.Status,
		&c.DecidedBy, &c.DecidedAt, &c.RejectionReason, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("error scanning company: %w", err)
	}
	return &c, nil
}

// CreateTx inserts a company within an existing transaction, alongside the
// profile it extends.
func (r *CompanyRepository) CreateTx(ctx context.Context, tx pgx.Tx, company *models.Company) error {
	query := `
		INSERT INTO companies (profile_id, name, tax_id, sector, description, website, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		company.ProfileID,
		company.Name,
		company.TaxID,
		company.Sector,
		company.Description,
		company.Website,
		company.Status,
	).Scan(&company.ID, &company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a company by ID
func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return scanCompany(r.db.Pool.QueryRow(ctx, query, id))
}

// GetByProfileID retrieves the company attached to a profile
func (r *CompanyRepository) GetByProfileID(ctx context.Context, profileID int64) (*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE profile_id = $1`
	return scanCompany(r.db.Pool.QueryRow(ctx, query, profileID))
}

// Update updates a company's editable fields
func (r *CompanyRepository) Update(ctx context.Context, company *models.Company) error {
	query := `
		UPDATE companies
		SET name = $2, tax_id = $3, sector = $4, description = $5, website = $6, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		company.ID,
		company.Name,
		company.TaxID,
		company.Sector,
		company.Description,
		company.Website,
	)
	if err != nil {
		return fmt.Errorf("error updating company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCompanyNotFound
	}

	return nil
}

// SetStatus records an approval decision. Transitions are deliberately
// permissive; any company may be re-decided later (e.g. suspended after
// approval, re-approved after rejection).
func (r *CompanyRepository) SetStatus(ctx context.Context, id int64, status models.CompanyStatus, deciderID int64, rejectionReason *string) (*models.Company, error) {
	query := `
		UPDATE companies
		SET status = $2, decided_by = $3, decided_at = NOW(), rejection_reason = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + companyColumns

	return scanCompany(r.db.Pool.QueryRow(ctx, query, id, status, deciderID, rejectionReason))
}

// List retrieves companies with optional filters, paginated
func (r *CompanyRepository) List(ctx context.Context, status *models.CompanyStatus, search *string, offset uint64, limit int) ([]*models.Company, int64, error) {
	applyFilters := func(b squirrel.SelectBuilder) squirrel.SelectBuilder {
		if status != nil {
			b = b.Where("status = ?", *status)
		}
		if search != nil && *search != "" {
			b = b.Where("name ILIKE ?", "%"+*search+"%")
		}
		return b
	}

	countSQL, countArgs, err := applyFilters(
		squirrel.Select("COUNT(*)").From("companies").PlaceholderFormat(squirrel.Dollar),
	).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error executing count query: %w", err)
	}

	sql, args, err := applyFilters(
		squirrel.Select(
			"id", "profile_id", "name", "tax_id", "sector", "description", "website", "status",
			"decided_by", "decided_at", "rejection_reason", "created_at", "updated_at",
		).From("companies").PlaceholderFormat(squirrel.Dollar),
	).
		OrderBy("created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		var c models.Company
		err := rows.Scan(
			&c.ID, &c.ProfileID, &c.Name, &c.TaxID, &c.Sector, &c.Description, &c.Website, &c.Status,
			&c.DecidedBy, &c.DecidedAt, &c.RejectionReason, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		companies = append(companies, &c)
	}

	return companies, total, rows.Err()
}
