package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dmoran/orienta/internal/app/models"
	"github.com/dmoran/orienta/internal/db"
	"github.com/dmoran/orienta/internal/pkg/apperrors"
	"github.com/dmoran/orienta/internal/pkg/dberrors"
)

// InvitationCodeConstraint is the unique index on invitation codes. A 23505
// here means a generated code collided and the caller should retry.
const InvitationCodeConstraint = "invitations_code_key"

// ErrCodeCollision signals that a freshly generated code already exists
var ErrCodeCollision = errors.New("invitation code collision")

const invitationColumns = `id, code, center_id, role, email, created_by, used_by, used_at, expires_at, is_revoked, created_at`

// InvitationRepository handles database operations for invitation codes
type InvitationRepository struct {
	db *db.PostgresDB
}

// NewInvitationRepository creates a new invitation repository
func NewInvitationRepository(database *db.PostgresDB) *InvitationRepository {
	return &InvitationRepository{db: database}
}

func scanInvitation(row pgx.Row) (*models.Invitation, error) {
	var inv models.Invitation
	err := row.Scan(
		&inv.ID, &inv.Code, &inv.CenterID, &inv.Role, &inv.Email, &inv.CreatedBy,
		&inv.UsedBy, &inv.UsedAt, &inv.ExpiresAt, &inv.IsRevoked, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("error scanning invitation: %w", err)
	}
	return &inv, nil
}

// Create inserts an invitation. Returns ErrCodeCollision when the code is
// already taken so the service can generate a new one.
func (r *InvitationRepository) Create(ctx context.Context, inv *models.Invitation) error {
	query := `
		INSERT INTO invitations (code, center_id, role, email, created_by, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		inv.Code,
		inv.CenterID,
		inv.Role,
		inv.Email,
		inv.CreatedBy,
		inv.ExpiresAt,
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, InvitationCodeConstraint) {
			return ErrCodeCollision
		}
		return fmt.Errorf("error creating invitation: %w", err)
	}

	return nil
}

// GetByCode retrieves an invitation by its code
func (r *InvitationRepository) GetByCode(ctx context.Context, code string) (*models.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE code = $1`
	return scanInvitation(r.db.Pool.QueryRow(ctx, query, code))
}

// GetByID retrieves an invitation by ID
func (r *InvitationRepository) GetByID(ctx context.Context, id int64) (*models.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`
	return scanInvitation(r.db.Pool.QueryRow(ctx, query, id))
}

// MarkUsedTx consumes an invitation within the registration transaction.
// The WHERE clause re-checks usability so two concurrent registrations
// cannot both redeem the same code.
func (r *InvitationRepository) MarkUsedTx(ctx context.Context, tx pgx.Tx, id, usedBy int64) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE invitations
		SET used_by = $2, used_at = NOW()
		WHERE id = $1 AND used_by IS NULL AND is_revoked = FALSE AND expires_at > NOW()
	`, id, usedBy)
	if err != nil {
		return false, fmt.Errorf("error consuming invitation: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Revoke marks an unused invitation revoked
func (r *InvitationRepository) Revoke(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE invitations
		SET is_revoked = TRUE
		WHERE id = $1 AND used_by IS NULL AND is_revoked = FALSE
	`, id)
	if err != nil {
		return false, fmt.Errorf("error revoking invitation: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ListByCenter retrieves invitations of a center, newest first, paginated
func (r *InvitationRepository) ListByCenter(ctx context.Context, centerID int64, offset uint64, limit int) ([]*models.Invitation, int64, error) {
	var total int64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM invitations WHERE center_id = $1`, centerID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing count query: %w", err)
	}

	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE center_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.Pool.Query(ctx, query, centerID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var invitations []*models.Invitation
	for rows.Next() {
		var inv models.Invitation
		err := rows.Scan(
			&inv.ID, &inv.Code, &inv.CenterID, &inv.Role, &inv.Email, &inv.CreatedBy,
			&inv.UsedBy, &inv.UsedAt, &inv.ExpiresAt, &inv.IsRevoked, &inv.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		invitations = append(invitations, &inv)
	}

	return invitations, total, rows.Err()
}
