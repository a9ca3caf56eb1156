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

// StudentRepository handles database operations for student records
type StudentRepository struct {
	db *db.PostgresDB
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(database *db.PostgresDB) *StudentRepository {
	return &StudentRepository{db: database}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(
		&s.ID,
		&s.ProfileID,
		&s.CenterID,
		&s.TutorID,
		&s.CourseYear,
		&s.GroupName,
		&s.AcademicYear,
		&s.Interests,
		&s.PreferredPath,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error scanning student: %w", err)
	}
	return &s, nil
}

// CreateTx inserts a student record within an existing transaction
func (r *StudentRepository) CreateTx(ctx context.Context, tx pgx.Tx, student *models.Student) error {
	query := `
		INSERT INTO students (profile_id, center_id, tutor_id, course_year, group_name, academic_year, interests, preferred_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		student.ProfileID,
		student.CenterID,
		student.TutorID,
		student.CourseYear,
		student.GroupName,
		student.AcademicYear,
		student.Interests,
		student.PreferredPath,
	).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `
		SELECT id, profile_id, center_id, tutor_id, course_year, group_name, academic_year, interests, preferred_path, created_at, updated_at
		FROM students
		WHERE id = $1
	`
	return scanStudent(r.db.Pool.QueryRow(ctx, query, id))
}

// GetByProfileID retrieves the student record attached to a profile
func (r *StudentRepository) GetByProfileID(ctx context.Context, profileID int64) (*models.Student, error) {
	query := `
		SELECT id, profile_id, center_id, tutor_id, course_year, group_name, academic_year, interests, preferred_path, created_at, updated_at
		FROM students
		WHERE profile_id = $1
	`
	return scanStudent(r.db.Pool.QueryRow(ctx, query, profileID))
}

// GetWithProfile retrieves a student together with its profile
func (r *StudentRepository) GetWithProfile(ctx context.Context, id int64) (*models.Student, error) {
	query := `
		SELECT s.id, s.profile_id, s.center_id, s.tutor_id, s.course_year, s.group_name, s.academic_year,
		       s.interests, s.preferred_path, s.created_at, s.updated_at,
		       p.id, p.email, p.role, p.center_id, p.first_name, p.last_name, p.phone, p.is_active,
		       p.created_at, p.updated_at
		FROM students s
		JOIN profiles p ON p.id = s.profile_id
		WHERE s.id = $1
	`

	var s models.Student
	var p models.Profile
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.ProfileID, &s.CenterID, &s.TutorID, &s.CourseYear, &s.GroupName, &s.AcademicYear,
		&s.Interests, &s.PreferredPath, &s.CreatedAt, &s.UpdatedAt,
		&p.ID, &p.Email, &p.Role, &p.CenterID, &p.FirstName, &p.LastName, &p.Phone, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	s.Profile = &p
	return &s, nil
}

// ListIDsByCenter retrieves all student IDs of a center
func (r *StudentRepository) ListIDsByCenter(ctx context.Context, centerID int64) ([]int64, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id FROM students WHERE center_id = $1`, centerID)
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

// ListByCenter retrieves students of a center with their profiles, paginated
func (r *StudentRepository) ListByCenter(ctx context.Context, centerID int64, offset uint64, limit int) ([]*models.Student, int64, error) {
	countQuery := squirrel.Select("COUNT(*)").
		From("students").
		Where("center_id = ?", centerID).
		PlaceholderFormat(squirrel.Dollar)

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error executing count query: %w", err)
	}

	query := squirrel.Select(
		"s.id", "s.profile_id", "s.center_id", "s.tutor_id", "s.course_year", "s.group_name", "s.academic_year",
		"s.interests", "s.preferred_path", "s.created_at", "s.updated_at",
		"p.first_name", "p.last_name", "p.email",
	).
		From("students s").
		Join("profiles p ON p.id = s.profile_id").
		Where("s.center_id = ?", centerID).
		OrderBy("p.last_name ASC", "p.first_name ASC").
		Offset(offset).
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		var s models.Student
		var p models.Profile
		err := rows.Scan(
			&s.ID, &s.ProfileID, &s.CenterID, &s.TutorID, &s.CourseYear, &s.GroupName, &s.AcademicYear,
			&s.Interests, &s.PreferredPath, &s.CreatedAt, &s.UpdatedAt,
			&p.FirstName, &p.LastName, &p.Email,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		p.ID = s.ProfileID
		s.Profile = &p
		students = append(students, &s)
	}

	return students, total, rows.Err()
}
