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

// ActiveLinkConstraint is the partial unique index that allows at most one
// non-rejected link per (guardian, student) pair. A 23505 on it is the
// authoritative duplicate signal; the pre-insert read is advisory only.
const ActiveLinkConstraint = "guardian_links_active_link_key"

// GuardianLinkRepository handles database operations for guardian links
type GuardianLinkRepository struct {
	db *db.PostgresDB
}

// NewGuardianLinkRepository creates a new guardian link repository
func NewGuardianLinkRepository(database *db.PostgresDB) *GuardianLinkRepository {
	return &GuardianLinkRepository{db: database}
}

// Create inserts a pending link. Returns apperrors.ErrDuplicateRequest when
// the active-link constraint rejects the row.
func (r *GuardianLinkRepository) Create(ctx context.Context, link *models.GuardianLink) error {
	query := `
		INSERT INTO guardian_links (guardian_id, student_id, relationship, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		link.GuardianID,
		link.StudentID,
		link.Relationship,
		link.Status,
	).Scan(&link.ID, &link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, ActiveLinkConstraint) {
			return apperrors.ErrDuplicateRequest
		}
		return fmt.Errorf("error creating guardian link: %w", err)
	}

	return nil
}

// GetByID retrieves a link by ID
func (r *GuardianLinkRepository) GetByID(ctx context.Context, id int64) (*models.GuardianLink, error) {
	query := `
		SELECT id, guardian_id, student_id, relationship, status, decided_by, decided_at, rejection_reason,
		       created_at, updated_at
		FROM guardian_links
		WHERE id = $1
	`

	var l models.GuardianLink
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.GuardianID, &l.StudentID, &l.Relationship, &l.Status,
		&l.DecidedBy, &l.DecidedAt, &l.RejectionReason, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLinkNotFound
		}
		return nil, fmt.Errorf("error retrieving guardian link: %w", err)
	}

	return &l, nil
}

// FindActive retrieves the non-rejected link for a (guardian, student) pair,
// or nil when none exists.
func (r *GuardianLinkRepository) FindActive(ctx context.Context, guardianID, studentID int64) (*models.GuardianLink, error) {
	query := `
		SELECT id, guardian_id, student_id, relationship, status, decided_by, decided_at, rejection_reason,
		       created_at, updated_at
		FROM guardian_links
		WHERE guardian_id = $1 AND student_id = $2 AND status <> 'rejected'
	`

	var l models.GuardianLink
	err := r.db.Pool.QueryRow(ctx, query, guardianID, studentID).Scan(
		&l.ID, &l.GuardianID, &l.StudentID, &l.Relationship, &l.Status,
		&l.DecidedBy, &l.DecidedAt, &l.RejectionReason, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving guardian link: %w", err)
	}

	return &l, nil
}

// Decide moves a pending link to approved or rejected. The WHERE clause on
// status makes the transition race-free: zero rows affected means the link
// was already decided (or never existed).
func (r *GuardianLinkRepository) Decide(ctx context.Context, id int64, status models.GuardianLinkStatus, deciderID int64, rejectionReason *string) (bool, error) {
	query := `
		UPDATE guardian_links
		SET status = $2, decided_by = $3, decided_at = NOW(), rejection_reason = $4, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := r.db.Pool.Exec(ctx, query, id, status, deciderID, rejectionReason)
	if err != nil {
		return false, fmt.Errorf("error deciding guardian link: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ListPendingByCenter retrieves pending links whose student belongs to the
// center, oldest first, with guardian and student details for the inbox view.
func (r *GuardianLinkRepository) ListPendingByCenter(ctx context.Context, centerID int64) ([]*models.GuardianLink, error) {
	query := `
		SELECT l.id, l.guardian_id, l.student_id, l.relationship, l.status, l.decided_by, l.decided_at,
		       l.rejection_reason, l.created_at, l.updated_at,
		       g.id, g.email, g.role, g.first_name, g.last_name,
		       s.id, s.profile_id, s.center_id, s.course_year, s.group_name,
		       sp.first_name, sp.last_name, sp.email
		FROM guardian_links l
		JOIN profiles g ON g.id = l.guardian_id
		JOIN students s ON s.id = l.student_id
		JOIN profiles sp ON sp.id = s.profile_id
		WHERE l.status = 'pending' AND s.center_id = $1
		ORDER BY l.created_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, centerID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var links []*models.GuardianLink
	for rows.Next() {
		var l models.GuardianLink
		var g models.Profile
		var s models.Student
		var sp models.Profile
		err := rows.Scan(
			&l.ID, &l.GuardianID, &l.StudentID, &l.Relationship, &l.Status, &l.DecidedBy, &l.DecidedAt,
			&l.RejectionReason, &l.CreatedAt, &l.UpdatedAt,
			&g.ID, &g.Email, &g.Role, &g.FirstName, &g.LastName,
			&s.ID, &s.ProfileID, &s.CenterID, &s.CourseYear, &s.GroupName,
			&sp.FirstName, &sp.LastName, &sp.Email,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		sp.ID = s.ProfileID
		s.Profile = &sp
		l.Guardian = &g
		l.Student = &s
		links = append(links, &l)
	}

	return links, rows.Err()
}

// ListByGuardian retrieves all links of a guardian, newest first
func (r *GuardianLinkRepository) ListByGuardian(ctx context.Context, guardianID int64) ([]*models.GuardianLink, error) {
	query := `
		SELECT l.id, l.guardian_id, l.student_id, l.relationship, l.status, l.decided_by, l.decided_at,
		       l.rejection_reason, l.created_at, l.updated_at,
		       s.id, s.profile_id, s.center_id, s.course_year, s.group_name,
		       sp.first_name, sp.last_name, sp.email
		FROM guardian_links l
		JOIN students s ON s.id = l.student_id
		JOIN profiles sp ON sp.id = s.profile_id
		WHERE l.guardian_id = $1
		ORDER BY l.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, guardianID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var links []*models.GuardianLink
	for rows.Next() {
		var l models.GuardianLink
		var s models.Student
		var sp models.Profile
		err := rows.Scan(
			&l.ID, &l.GuardianID, &l.StudentID, &l.Relationship, &l.Status, &l.DecidedBy, &l.DecidedAt,
			&l.RejectionReason, &l.CreatedAt, &l.UpdatedAt,
			&s.ID, &s.ProfileID, &s.CenterID, &s.CourseYear, &s.GroupName,
			&sp.FirstName, &sp.LastName, &sp.Email,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		sp.ID = s.ProfileID
		s.Profile = &sp
		l.Student = &s
		links = append(links, &l)
	}

	return links, rows.Err()
}

// ListApprovedStudentIDs retrieves the IDs of students the guardian holds an
// approved link to. This is the guardian visibility set.
func (r *GuardianLinkRepository) ListApprovedStudentIDs(ctx context.Context, guardianID int64) ([]int64, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT student_id FROM guardian_links WHERE guardian_id = $1 AND status = 'approved'`, guardianID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListChildren retrieves the approved-link students of a guardian with
// profile details for the children view.
func (r *GuardianLinkRepository) ListChildren(ctx context.Context, guardianID int64) ([]*models.Student, error) {
	query := `
		SELECT s.id, s.profile_id, s.center_id, s.tutor_id, s.course_year, s.group_name, s.academic_year,
		       s.created_at, s.updated_at,
		       sp.first_name, sp.last_name, sp.email
		FROM guardian_links l
		JOIN students s ON s.id = l.student_id
		JOIN profiles sp ON sp.id = s.profile_id
		WHERE l.guardian_id = $1 AND l.status = 'approved'
		ORDER BY sp.first_name ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, guardianID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		var s models.Student
		var sp models.Profile
		err := rows.Scan(
			&s.ID, &s.ProfileID, &s.CenterID, &s.TutorID, &s.CourseYear, &s.GroupName, &s.AcademicYear,
			&s.CreatedAt, &s.UpdatedAt,
			&sp.FirstName, &sp.LastName, &sp.Email,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		sp.ID = s.ProfileID
		s.Profile = &sp
		students = append(students, &s)
	}

	return students, rows.Err()
}
