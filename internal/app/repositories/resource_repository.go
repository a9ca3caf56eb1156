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

const resourceColumns = `id, center_id, company_id, created_by, title, description, type, url, audience, status, view_count, rejection_reason, published_at, created_at, updated_at`

// ResourceRepository handles database operations for orientation resources
type ResourceRepository struct {
	db *db.PostgresDB
}

// NewResourceRepository creates a new resource repository
func NewResourceRepository(database *db.PostgresDB) *ResourceRepository {
	return &ResourceRepository{db: database}
}

func scanResource(row pgx.Row) (*models.Resource, error) {
	var res models.Resource
	err := row.Scan(
		&res.ID, &res.CenterID, &res.CompanyID, &res.CreatedBy, &res.Title, &res.Description, &res.Type,
		&res.URL, &res.Audience, &res.Status, &res.ViewCount, &res.RejectionReason, &res.PublishedAt,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrContentNotFound
		}
		return nil, fmt.Errorf("error scanning resource: %w", err)
	}
	return &res, nil
}

// Create creates a new resource
func (r *ResourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	query := `
		INSERT INTO resources (center_id, company_id, created_by, title, description, type, url, audience, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		resource.CenterID,
		resource.CompanyID,
		resource.CreatedBy,
		resource.Title,
		resource.Description,
		resource.Type,
		resource.URL,
		resource.Audience,
		resource.Status,
	).Scan(&resource.ID, &resource.CreatedAt, &resource.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating resource: %w", err)
	}

	return nil
}

// GetByID retrieves a resource by ID
func (r *ResourceRepository) GetByID(ctx context.Context, id int64) (*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = $1`
	return scanResource(r.db.Pool.QueryRow(ctx, query, id))
}

// Update updates a resource's editable fields
func (r *ResourceRepository) Update(ctx context.Context, resource *models.Resource) error {
	query := `
		UPDATE resources
		SET title = $2, description = $3, url = $4, audience = $5, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		resource.ID,
		resource.Title,
		resource.Description,
		resource.URL,
		resource.Audience,
	)
	if err != nil {
		return fmt.Errorf("error updating resource: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrContentNotFound
	}

	return nil
}

// UpdateStatus transitions a resource from one of the allowed source
// states. Zero rows affected means the resource was not in an allowed
// state. Reaching published sets published_at once; it survives later
// transitions.
func (r *ResourceRepository) UpdateStatus(ctx context.Context, id int64, from []models.ResourceStatus, to models.ResourceStatus, rejectionReason *string) (bool, error) {
	query := squirrel.Update("resources").
		Set("status", to).
		Set("rejection_reason", rejectionReason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ?", id).
		Where(squirrel.Eq{"status": from}).
		PlaceholderFormat(squirrel.Dollar)

	if to == models.ResourcePublished {
		query = query.Set("published_at", squirrel.Expr("COALESCE(published_at, NOW())"))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("error updating resource status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// IncrementViewCount bumps the resource view counter
func (r *ResourceRepository) IncrementViewCount(ctx context.Context, id int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE resources SET view_count = view_count + 1 WHERE id = $1`, id)
	return err
}

// List retrieves published resources for the given audiences, or every
// state of a center's catalogue when includeUnpublished is set (staff
// view). The filter's CreatedBy narrows to one author's submissions.
func (r *ResourceRepository) List(ctx context.Context, centerID *int64, audiences []models.ResourceAudience, includeUnpublished bool, filter *models.ResourceFilter, offset uint64, limit int) ([]*models.Resource, int64, error) {
	applyFilters := func(b squirrel.SelectBuilder) squirrel.SelectBuilder {
		if centerID != nil {
			b = b.Where(squirrel.Or{
				squirrel.Eq{"center_id": *centerID},
				squirrel.Eq{"center_id": nil},
			})
		}
		if len(audiences) > 0 {
			b = b.Where(squirrel.Eq{"audience": audiences})
		}
		if !includeUnpublished {
			b = b.Where("status = ?", models.ResourcePublished)
		}
		if filter != nil {
			if filter.Type != nil {
				b = b.Where("type = ?", *filter.Type)
			}
			if filter.Status != nil {
				b = b.Where("status = ?", *filter.Status)
			}
			if filter.CreatedBy != nil {
				b = b.Where("created_by = ?", *filter.CreatedBy)
			}
			if filter.Search != nil && *filter.Search != "" {
				b = b.Where("title ILIKE ?", "%"+*filter.Search+"%")
			}
		}
		return b
	}

	countSQL, countArgs, err := applyFilters(
		squirrel.Select("COUNT(*)").From("resources").PlaceholderFormat(squirrel.Dollar),
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
			"id", "center_id", "company_id", "created_by", "title", "description", "type", "url",
			"audience", "status", "view_count", "rejection_reason", "published_at", "created_at", "updated_at",
		).From("resources").PlaceholderFormat(squirrel.Dollar),
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

	var resources []*models.Resource
	for rows.Next() {
		var res models.Resource
		err := rows.Scan(
			&res.ID, &res.CenterID, &res.CompanyID, &res.CreatedBy, &res.Title, &res.Description, &res.Type,
			&res.URL, &res.Audience, &res.Status, &res.ViewCount, &res.RejectionReason, &res.PublishedAt,
			&res.CreatedAt, &res.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		resources = append(resources, &res)
	}

	return resources, total, rows.Err()
}
