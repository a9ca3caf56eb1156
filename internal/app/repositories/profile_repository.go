package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmoran/orienta/internal/app/models"
	"github.com/dmoran/orienta/internal/db"
	"github.com/dmoran/orienta/internal/pkg/apperrors"
)

const profileColumns = `id, email, password, role, center_id, first_name, last_name, phone, is_active, created_at, updated_at, last_login_at`

// ProfileRepository handles database operations for profiles
type ProfileRepository struct {
	db *db.PostgresDB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(database *db.PostgresDB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.Password,
		&p.Role,
		&p.CenterID,
		&p.FirstName,
		&p.LastName,
		&p.Phone,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error scanning profile: %w", err)
	}
	return &p, nil
}

// CreateTx inserts a profile within an existing transaction. Registration
// creates the profile together with its role extension and the invitation
// consumption, so the plain variant does not exist.
func (r *ProfileRepository) CreateTx(ctx context.Context, tx pgx.Tx, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (email, password, role, center_id, first_name, last_name, phone, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		profile.Email,
		profile.Password,
		profile.Role,
		profile.CenterID,
		profile.FirstName,
		profile.LastName,
		profile.Phone,
		profile.IsActive,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a profile by ID
func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(r.db.Pool.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a profile by email
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`
	return scanProfile(r.db.Pool.QueryRow(ctx, query, email))
}

// GetByEmailAndRole retrieves a profile by email restricted to a role
func (r *ProfileRepository) GetByEmailAndRole(ctx context.Context, email string, role models.RoleType) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1 AND role = $2`
	return scanProfile(r.db.Pool.QueryRow(ctx, query, email, role))
}

// EmailExists checks whether a profile with the email already exists
func (r *ProfileRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM profiles WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email existence: %w", err)
	}
	return exists, nil
}

// UpdateLastLogin records a successful login timestamp
func (r *ProfileRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE profiles SET last_login_at = $2, updated_at = NOW() WHERE id = $1`, id, at)
	return err
}
