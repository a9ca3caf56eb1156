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
	"github.com/dmoran/orienta/internal/pkg/dberrors"
)

// EventRegistrationConstraint is the unique index allowing one live
// registration per (event, student) pair.
const EventRegistrationConstraint = "event_registrations_active_key"

const eventColumns = `id, center_id, company_id, created_by, title, description, type, status, location, capacity, target_grades, starts_at, ends_at, rejection_reason, created_at, updated_at`

// EventRepository handles database operations for events and registrations
type EventRepository struct {
	db *db.PostgresDB
}

// NewEventRepository creates a new event repository
func NewEventRepository(database *db.PostgresDB) *EventRepository {
	return &EventRepository{db: database}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(
		&e.ID, &e.CenterID, &e.CompanyID, &e.CreatedBy, &e.Title, &e.Description, &e.Type, &e.Status,
		&e.Location, &e.Capacity, &e.TargetGrades, &e.StartsAt, &e.EndsAt, &e.RejectionReason, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error scanning event: %w", err)
	}
	return &e, nil
}

// Create creates a new event
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (center_id, company_id, created_by, title, description, type, status, location, capacity, target_grades, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		event.CenterID,
		event.CompanyID,
		event.CreatedBy,
		event.Title,
		event.Description,
		event.Type,
		event.Status,
		event.Location,
		event.Capacity,
		event.TargetGrades,
		event.StartsAt,
		event.EndsAt,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating event: %w", err)
	}

	return nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEvent(r.db.Pool.QueryRow(ctx, query, id))
}

// UpdateStatus transitions an event from one of the allowed source states.
// Zero rows affected means the event was not in an allowed state.
func (r *EventRepository) UpdateStatus(ctx context.Context, id int64, from []models.EventStatus, to models.EventStatus, rejectionReason *string) (bool, error) {
	query := squirrel.Update("events").
		Set("status", to).
		Set("rejection_reason", rejectionReason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ?", id).
		Where(squirrel.Eq{"status": from}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("error updating event status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// List retrieves events with optional filters, paginated
func (r *EventRepository) List(ctx context.Context, centerID *int64, filter *models.EventFilter, offset uint64, limit int) ([]*models.Event, int64, error) {
	base := squirrel.Select(
		"id", "center_id", "company_id", "created_by", "title", "description", "type", "status",
		"location", "capacity", "target_grades", "starts_at", "ends_at", "rejection_reason", "created_at", "updated_at",
	).From("events").PlaceholderFormat(squirrel.Dollar)

	countBase := squirrel.Select("COUNT(*)").From("events").PlaceholderFormat(squirrel.Dollar)

	applyFilters := func(b squirrel.SelectBuilder) squirrel.SelectBuilder {
		if centerID != nil {
			b = b.Where("center_id = ?", *centerID)
		}
		if filter != nil {
			if filter.Type != nil {
				b = b.Where("type = ?", *filter.Type)
			}
			if filter.Status != nil {
				b = b.Where("status = ?", *filter.Status)
			}
			if filter.CompanyID != nil {
				b = b.Where("company_id = ?", *filter.CompanyID)
			}
			if filter.CreatedBy != nil {
				b = b.Where("created_by = ?", *filter.CreatedBy)
			}
			if filter.Upcoming {
				b = b.Where("starts_at > NOW()")
			}
		}
		return b
	}

	countSQL, countArgs, err := applyFilters(countBase).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error executing count query: %w", err)
	}

	sql, args, err := applyFilters(base).
		OrderBy("starts_at ASC").
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

	var events []*models.Event
	for rows.Next() {
		var e models.Event
		err := rows.Scan(
			&e.ID, &e.CenterID, &e.CompanyID, &e.CreatedBy, &e.Title, &e.Description, &e.Type, &e.Status,
			&e.Location, &e.Capacity, &e.TargetGrades, &e.StartsAt, &e.EndsAt, &e.RejectionReason, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		events = append(events, &e)
	}

	return events, total, rows.Err()
}

// CountConfirmed returns the number of confirmed registrations for an event
func (r *EventRepository) CountConfirmed(ctx context.Context, eventID int64) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM event_registrations WHERE event_id = $1 AND status = 'confirmed'`,
		eventID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting registrations: %w", err)
	}
	return count, nil
}

// GetRegistration retrieves a student's registration for an event
func (r *EventRepository) GetRegistration(ctx context.Context, eventID, studentID int64) (*models.EventRegistration, error) {
	query := `
		SELECT id, event_id, student_id, status, waitlist_position, registered_at, updated_at
		FROM event_registrations
		WHERE event_id = $1 AND student_id = $2 AND status <> 'cancelled'
	`

	var reg models.EventRegistration
	err := r.db.Pool.QueryRow(ctx, query, eventID, studentID).Scan(
		&reg.ID, &reg.EventID, &reg.StudentID, &reg.Status, &reg.WaitlistPosition,
		&reg.RegisteredAt, &reg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("error retrieving registration: %w", err)
	}

	return &reg, nil
}

// Register inserts a confirmed registration after a capacity check, all
// inside one transaction. The event row is locked so concurrent
// registrations for the same event serialize on the count.
func (r *EventRepository) Register(ctx context.Context, eventID, studentID int64) (*models.EventRegistration, error) {
	var reg *models.EventRegistration
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		event, err := scanEvent(tx.QueryRow(ctx,
			`SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, eventID))
		if err != nil {
			return err
		}
		if event.Status != models.EventPublished {
			return apperrors.ErrEventNotOpen
		}

		var confirmed int
		err = tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM event_registrations WHERE event_id = $1 AND status = 'confirmed'`,
			eventID,
		).Scan(&confirmed)
		if err != nil {
			return fmt.Errorf("error counting registrations: %w", err)
		}

		if !event.HasCapacity(confirmed) {
			return apperrors.ErrEventFull
		}

		var newReg models.EventRegistration
		err = tx.QueryRow(ctx, `
			INSERT INTO event_registrations (event_id, student_id, status)
			VALUES ($1, $2, 'confirmed')
			RETURNING id, event_id, student_id, status, waitlist_position, registered_at, updated_at
		`, eventID, studentID).Scan(
			&newReg.ID, &newReg.EventID, &newReg.StudentID, &newReg.Status, &newReg.WaitlistPosition,
			&newReg.RegisteredAt, &newReg.UpdatedAt,
		)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, EventRegistrationConstraint) {
				return apperrors.ErrAlreadyRegistered
			}
			return fmt.Errorf("error creating registration: %w", err)
		}

		reg = &newReg
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reg, nil
}

// JoinWaitlist inserts a waitlisted registration at the next position
func (r *EventRepository) JoinWaitlist(ctx context.Context, eventID, studentID int64) (*models.EventRegistration, error) {
	var reg *models.EventRegistration
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `SELECT 1 FROM events WHERE id = $1 FOR UPDATE`, eventID)
		if err != nil {
			return fmt.Errorf("error locking event: %w", err)
		}

		var newReg models.EventRegistration
		err = tx.QueryRow(ctx, `
			INSERT INTO event_registrations (event_id, student_id, status, waitlist_position)
			VALUES ($1, $2, 'waitlisted',
			        (SELECT COALESCE(MAX(waitlist_position), 0) + 1
			         FROM event_registrations
			         WHERE event_id = $1 AND status = 'waitlisted'))
			RETURNING id, event_id, student_id, status, waitlist_position, registered_at, updated_at
		`, eventID, studentID).Scan(
			&newReg.ID, &newReg.EventID, &newReg.StudentID, &newReg.Status, &newReg.WaitlistPosition,
			&newReg.RegisteredAt, &newReg.UpdatedAt,
		)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, EventRegistrationConstraint) {
				return apperrors.ErrAlreadyRegistered
			}
			return fmt.Errorf("error creating waitlist entry: %w", err)
		}

		reg = &newReg
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reg, nil
}

// CancelRegistration cancels a registration. When a confirmed spot frees up,
// the oldest waitlisted registration (lowest position) is promoted to
// confirmed in the same transaction. Returns the promoted registration, if any.
func (r *EventRepository) CancelRegistration(ctx context.Context, eventID, studentID int64) (*models.EventRegistration, error) {
	var promoted *models.EventRegistration
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `SELECT 1 FROM events WHERE id = $1 FOR UPDATE`, eventID)
		if err != nil {
			return fmt.Errorf("error locking event: %w", err)
		}

		var regID int64
		var wasStatus models.RegistrationStatus
		err = tx.QueryRow(ctx, `
			SELECT id, status FROM event_registrations
			WHERE event_id = $1 AND student_id = $2 AND status IN ('confirmed', 'waitlisted')
		`, eventID, studentID).Scan(&regID, &wasStatus)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrRegistrationNotFound
			}
			return fmt.Errorf("error retrieving registration: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE event_registrations
			SET status = 'cancelled', waitlist_position = NULL, updated_at = NOW()
			WHERE id = $1
		`, regID)
		if err != nil {
			return fmt.Errorf("error cancelling registration: %w", err)
		}

		if wasStatus != models.RegistrationConfirmed {
			return nil
		}

		var p models.EventRegistration
		err = tx.QueryRow(ctx, `
			UPDATE event_registrations
			SET status = 'confirmed', waitlist_position = NULL, updated_at = NOW()
			WHERE id = (
				SELECT id FROM event_registrations
				WHERE event_id = $1 AND status = 'waitlisted'
				ORDER BY waitlist_position ASC
				LIMIT 1
			)
			RETURNING id, event_id, student_id, status, waitlist_position, registered_at, updated_at
		`, eventID).Scan(
			&p.ID, &p.EventID, &p.StudentID, &p.Status, &p.WaitlistPosition,
			&p.RegisteredAt, &p.UpdatedAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("error promoting waitlist entry: %w", err)
		}

		promoted = &p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return promoted, nil
}

// MarkAttendance records post-event attendance for a confirmed registration
func (r *EventRepository) MarkAttendance(ctx context.Context, eventID, studentID int64, status models.RegistrationStatus) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE event_registrations
		SET status = $3, updated_at = NOW()
		WHERE event_id = $1 AND student_id = $2 AND status = 'confirmed'
	`, eventID, studentID, status)
	if err != nil {
		return false, fmt.Errorf("error marking attendance: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ListRegistrations retrieves all live registrations of an event, confirmed
// first, then waitlisted by position.
func (r *EventRepository) ListRegistrations(ctx context.Context, eventID int64) ([]*models.EventRegistration, error) {
	query := `
		SELECT id, event_id, student_id, status, waitlist_position, registered_at, updated_at
		FROM event_registrations
		WHERE event_id = $1 AND status <> 'cancelled'
		ORDER BY status = 'waitlisted', waitlist_position ASC NULLS FIRST, registered_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var regs []*models.EventRegistration
	for rows.Next() {
		var reg models.EventRegistration
		err := rows.Scan(
			&reg.ID, &reg.EventID, &reg.StudentID, &reg.Status, &reg.WaitlistPosition,
			&reg.RegisteredAt, &reg.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		regs = append(regs, &reg)
	}

	return regs, rows.Err()
}

// ListRegistrationsByStudent retrieves a student's live registrations
func (r *EventRepository) ListRegistrationsByStudent(ctx context.Context, studentID int64) ([]*models.EventRegistration, error) {
	query := `
		SELECT id, event_id, student_id, status, waitlist_position, registered_at, updated_at
		FROM event_registrations
		WHERE student_id = $1 AND status <> 'cancelled'
		ORDER BY registered_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var regs []*models.EventRegistration
	for rows.Next() {
		var reg models.EventRegistration
		err := rows.Scan(
			&reg.ID, &reg.EventID, &reg.StudentID, &reg.Status, &reg.WaitlistPosition,
			&reg.RegisteredAt, &reg.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		regs = append(regs, &reg)
	}

	return regs, rows.Err()
}
