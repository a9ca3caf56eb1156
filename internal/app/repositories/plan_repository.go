package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/dmoran/orienta/internal/app/models"
	"github.com/dmoran/orienta/internal/db"
	"github.com/dmoran/orienta/internal/pkg/apperrors"
)

// PlanRepository handles database operations for plans, plan items and tasks
type PlanRepository struct {
	db *db.PostgresDB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(database *db.PostgresDB) *PlanRepository {
	return &PlanRepository{db: database}
}

// CreateWithItems inserts a plan and its ordered items in one transaction.
// Either everything lands or nothing does.
func (r *PlanRepository) CreateWithItems(ctx context.Context, plan *models.Plan, items []models.PlanItem) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		planQuery := `
			INSERT INTO plans (student_id, created_by, title, description, status, progress, start_date, end_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at, updated_at
		`

		err := tx.QueryRow(ctx, planQuery,
			plan.StudentID,
			plan.CreatedBy,
			plan.Title,
			plan.Description,
			plan.Status,
			plan.Progress,
			plan.StartDate,
			plan.EndDate,
		).Scan(&plan.ID, &plan.CreatedAt, &plan.UpdatedAt)
		if err != nil {
			return fmt.Errorf("error creating plan: %w", err)
		}

		itemQuery := `
			INSERT INTO plan_items (plan_id, title, description, status, sort_order, due_date)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`

		for i := range items {
			items[i].PlanID = plan.ID
			items[i].SortOrder = i + 1
			err := tx.QueryRow(ctx, itemQuery,
				items[i].PlanID,
				items[i].Title,
				items[i].Description,
				items[i].Status,
				items[i].SortOrder,
				items[i].DueDate,
			).Scan(&items[i].ID, &items[i].CreatedAt, &items[i].UpdatedAt)
			if err != nil {
				return fmt.Errorf("error creating plan item: %w", err)
			}
		}

		plan.Items = items
		return nil
	})
}

func scanPlan(row pgx.Row) (*models.Plan, error) {
	var p models.Plan
	err := row.Scan(
		&p.ID, &p.StudentID, &p.CreatedBy, &p.Title, &p.Description, &p.Status, &p.Progress,
		&p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPlanNotFound
		}
		return nil, fmt.Errorf("error scanning plan: %w", err)
	}
	return &p, nil
}

const planColumns = `id, student_id, created_by, title, description, status, progress, start_date, end_date, created_at, updated_at`

// GetByID retrieves a plan without its items
func (r *PlanRepository) GetByID(ctx context.Context, id int64) (*models.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = $1`
	return scanPlan(r.db.Pool.QueryRow(ctx, query, id))
}

// GetDetail retrieves a plan with its items and tasks
func (r *PlanRepository) GetDetail(ctx context.Context, id int64) (*models.Plan, error) {
	plan, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, r.db.Pool, id)
	if err != nil {
		return nil, err
	}

	taskQuery := `
		SELECT t.id, t.plan_item_id, t.title, t.task_type, t.status, t.linked_resource_id, t.linked_event_id,
		       t.completed_by, t.completed_at, t.sort_order, t.created_at, t.updated_at
		FROM plan_tasks t
		JOIN plan_items i ON i.id = t.plan_item_id
		WHERE i.plan_id = $1
		ORDER BY t.plan_item_id ASC, t.sort_order ASC
	`

	rows, err := r.db.Pool.Query(ctx, taskQuery, id)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	tasksByItem := make(map[int64][]models.PlanTask)
	for rows.Next() {
		var t models.PlanTask
		err := rows.Scan(
			&t.ID, &t.PlanItemID, &t.Title, &t.TaskType, &t.Status, &t.LinkedResourceID, &t.LinkedEventID,
			&t.CompletedBy, &t.CompletedAt, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		tasksByItem[t.PlanItemID] = append(tasksByItem[t.PlanItemID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		items[i].Tasks = tasksByItem[items[i].ID]
	}
	plan.Items = items

	return plan, nil
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PlanRepository) listItems(ctx context.Context, q queryer, planID int64) ([]models.PlanItem, error) {
	query := `
		SELECT id, plan_id, title, description, status, sort_order, due_date, created_at, updated_at
		FROM plan_items
		WHERE plan_id = $1
		ORDER BY sort_order ASC
	`

	rows, err := q.Query(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var items []models.PlanItem
	for rows.Next() {
		var i models.PlanItem
		err := rows.Scan(
			&i.ID, &i.PlanID, &i.Title, &i.Description, &i.Status, &i.SortOrder, &i.DueDate,
			&i.CreatedAt, &i.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		items = append(items, i)
	}

	return items, rows.Err()
}

// GetItem retrieves a plan item by ID
func (r *PlanRepository) GetItem(ctx context.Context, itemID int64) (*models.PlanItem, error) {
	query := `
		SELECT id, plan_id, title, description, status, sort_order, due_date, created_at, updated_at
		FROM plan_items
		WHERE id = $1
	`

	var i models.PlanItem
	err := r.db.Pool.QueryRow(ctx, query, itemID).Scan(
		&i.ID, &i.PlanID, &i.Title, &i.Description, &i.Status, &i.SortOrder, &i.DueDate,
		&i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPlanItemNotFound
		}
		return nil, fmt.Errorf("error retrieving plan item: %w", err)
	}

	return &i, nil
}

// GetTask retrieves a plan task by ID
func (r *PlanRepository) GetTask(ctx context.Context, taskID int64) (*models.PlanTask, error) {
	query := `
		SELECT id, plan_item_id, title, task_type, status, linked_resource_id, linked_event_id,
		       completed_by, completed_at, sort_order, created_at, updated_at
		FROM plan_tasks
		WHERE id = $1
	`

	var t models.PlanTask
	err := r.db.Pool.QueryRow(ctx, query, taskID).Scan(
		&t.ID, &t.PlanItemID, &t.Title, &t.TaskType, &t.Status, &t.LinkedResourceID, &t.LinkedEventID,
		&t.CompletedBy, &t.CompletedAt, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPlanTaskNotFound
		}
		return nil, fmt.Errorf("error retrieving plan task: %w", err)
	}

	return &t, nil
}

// SetItemStatus updates an item status and recalculates the parent plan's
// progress from all its items, in one transaction. The returned plan carries
// the new progress value.
func (r *PlanRepository) SetItemStatus(ctx context.Context, itemID int64, status models.PlanItemStatus) (*models.Plan, error) {
	var plan *models.Plan
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var planID int64
		err := tx.QueryRow(ctx,
			`UPDATE plan_items SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING plan_id`,
			itemID, status,
		).Scan(&planID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrPlanItemNotFound
			}
			return fmt.Errorf("error updating plan item: %w", err)
		}

		items, err := r.listItems(ctx, tx, planID)
		if err != nil {
			return err
		}

		progress := models.PlanProgress(items)

		var p models.Plan
		err = tx.QueryRow(ctx,
			`UPDATE plans SET progress = $2, updated_at = NOW() WHERE id = $1 RETURNING `+planColumns,
			planID, progress,
		).Scan(
			&p.ID, &p.StudentID, &p.CreatedBy, &p.Title, &p.Description, &p.Status, &p.Progress,
			&p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("error updating plan progress: %w", err)
		}

		p.Items = items
		plan = &p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return plan, nil
}

// SetTaskStatus moves a leaf task through its state machine. Completion
// metadata follows the completed status and is cleared on any other state.
// Tasks never feed the plan progress percentage, so no recalculation
// happens here.
func (r *PlanRepository) SetTaskStatus(ctx context.Context, taskID int64, status models.PlanTaskStatus, completedBy int64, at time.Time) (*models.PlanTask, error) {
	query := `
		UPDATE plan_tasks
		SET status = $2,
		    completed_by = CASE WHEN $2 = 'completed' THEN $3 ELSE NULL END,
		    completed_at = CASE WHEN $2 = 'completed' THEN $4 ELSE NULL END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id, plan_item_id, title, task_type, status, linked_resource_id, linked_event_id,
		          completed_by, completed_at, sort_order, created_at, updated_at
	`

	var t models.PlanTask
	err := r.db.Pool.QueryRow(ctx, query, taskID, status, completedBy, at).Scan(
		&t.ID, &t.PlanItemID, &t.Title, &t.TaskType, &t.Status, &t.LinkedResourceID, &t.LinkedEventID,
		&t.CompletedBy, &t.CompletedAt, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPlanTaskNotFound
		}
		return nil, fmt.Errorf("error updating plan task: %w", err)
	}

	return &t, nil
}

// AddItem appends an item to a plan and recalculates the plan progress,
// since the denominator grew.
func (r *PlanRepository) AddItem(ctx context.Context, item *models.PlanItem) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO plan_items (plan_id, title, description, status, sort_order, due_date)
			VALUES ($1, $2, $3, $4,
			        (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM plan_items WHERE plan_id = $1),
			        $5)
			RETURNING id, sort_order, created_at, updated_at
		`

		err := tx.QueryRow(ctx, query,
			item.PlanID,
			item.Title,
			item.Description,
			item.Status,
			item.DueDate,
		).Scan(&item.ID, &item.SortOrder, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return fmt.Errorf("error creating plan item: %w", err)
		}

		items, err := r.listItems(ctx, tx, item.PlanID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE plans SET progress = $2, updated_at = NOW() WHERE id = $1`,
			item.PlanID, models.PlanProgress(items),
		)
		if err != nil {
			return fmt.Errorf("error updating plan progress: %w", err)
		}

		return nil
	})
}

// AddTask appends a task under a plan item
func (r *PlanRepository) AddTask(ctx context.Context, task *models.PlanTask) error {
	query := `
		INSERT INTO plan_tasks (plan_item_id, title, task_type, status, linked_resource_id, linked_event_id, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6,
		        (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM plan_tasks WHERE plan_item_id = $1))
		RETURNING id, sort_order, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		task.PlanItemID,
		task.Title,
		task.TaskType,
		task.Status,
		task.LinkedResourceID,
		task.LinkedEventID,
	).Scan(&task.ID, &task.SortOrder, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating plan task: %w", err)
	}

	return nil
}

// List retrieves plans filtered by student set and status, newest first.
// A nil studentIDs means no student filter (admin view).
func (r *PlanRepository) List(ctx context.Context, studentIDs []int64, status *models.PlanStatus, offset uint64, limit int) ([]*models.Plan, int64, error) {
	base := squirrel.Select(
		"id", "student_id", "created_by", "title", "description", "status", "progress",
		"start_date", "end_date", "created_at", "updated_at",
	).From("plans").PlaceholderFormat(squirrel.Dollar)

	countBase := squirrel.Select("COUNT(*)").From("plans").PlaceholderFormat(squirrel.Dollar)

	if studentIDs != nil {
		base = base.Where(squirrel.Eq{"student_id": studentIDs})
		countBase = countBase.Where(squirrel.Eq{"student_id": studentIDs})
	}
	if status != nil {
		base = base.Where("status = ?", *status)
		countBase = countBase.Where("status = ?", *status)
	}

	countSQL, countArgs, err := countBase.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error executing count query: %w", err)
	}

	sql, args, err := base.OrderBy("created_at DESC").Offset(offset).Limit(uint64(limit)).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var plans []*models.Plan
	for rows.Next() {
		var p models.Plan
		err := rows.Scan(
			&p.ID, &p.StudentID, &p.CreatedBy, &p.Title, &p.Description, &p.Status, &p.Progress,
			&p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		plans = append(plans, &p)
	}

	return plans, total, rows.Err()
}
