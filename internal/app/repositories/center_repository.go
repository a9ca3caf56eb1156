package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dmoran/orienta/internal/app/models"
	"github.com/dmoran/orienta/internal/db"
	"github.com/dmoran/orienta/internal/pkg/apperrors"
)

// CenterRepository handles database operations for centers
type CenterRepository struct {
	db *db.PostgresDB
}

// NewCenterRepository creates a new center repository
func NewCenterRepository(database *db.PostgresDB) *CenterRepository {
	return &CenterRepository{db: database}
}

// Create creates a new center
func (r *CenterRepository) Create(ctx context.Context, center *models.Center) error {
	query := `
		INSERT INTO centers (name, code, type, city, province, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		center.Name,
		center.Code,
		center.Type,
		center.City,
		center.Province,
		center.IsActive,
	).Scan(&center.ID, &center.CreatedAt, &center.UpdatedAt)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a center by ID
func (r *CenterRepository) GetByID(ctx context.Context, id int64) (*models.Center, error) {
	query := `
		SELECT id, name, code, type, city, province, is_active, created_at, updated_at
		FROM centers
		WHERE id = $1
	`

	var c models.Center
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Code, &c.Type, &c.City, &c.Province, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving center: %w", err)
	}

	return &c, nil
}

// Count returns the number of centers. The seeder uses it to decide
// whether default data is needed.
func (r *CenterRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM centers`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting centers: %w", err)
	}
	return count, nil
}
