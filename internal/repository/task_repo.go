package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"task_tracker/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, user_id, title, COALESCE(description, ''), status, started_at, ended_at, duration_seconds, created_at, updated_at`

// TaskRepository is the Postgres-backed task store. The one-running-task-per-
// owner invariant is enforced here twice: the conditional UPDATE in
// MarkRunning and the partial unique index in the schema.
type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.StartedAt,
		&t.EndedAt,
		&t.DurationSeconds,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	t.SyncRunning()
	return &t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	row := r.db.QueryRow(ctx,
		`INSERT INTO tasks (user_id, title, description)
		 VALUES ($1, $2, $3)
		 RETURNING `+taskColumns,
		t.UserID, t.Title, t.Description,
	)
	created, err := scanTask(row)
	if err != nil {
		return err
	}
	*t = *created
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, ownerID, taskID int64) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`,
		taskID, ownerID,
	)
	return scanTask(row)
}

func (r *TaskRepository) List(ctx context.Context, ownerID int64, f domain.TaskFilter) ([]*domain.Task, int64, error) {
	where := `WHERE user_id = $1`
	args := []any{ownerID}

	if f.Status != "" {
		args = append(args, f.Status)
		where += ` AND status = $` + strconv.Itoa(len(args))
	}
	if f.Title != "" {
		args = append(args, "%"+f.Title+"%")
		where += ` AND title ILIKE $` + strconv.Itoa(len(args))
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 10
	}

	query := fmt.Sprintf(`SELECT `+taskColumns+` FROM tasks %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		where, limit, (page-1)*limit)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *TaskRepository) UpdateDetails(ctx context.Context, ownerID, taskID int64, title, description string) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE tasks SET title = $3, description = $4, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+taskColumns,
		taskID, ownerID, title, description,
	)
	return scanTask(row)
}

func (r *TaskRepository) Delete(ctx context.Context, ownerID, taskID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		taskID, ownerID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) FindRunning(ctx context.Context, ownerID int64) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 AND status = 'running'`,
		ownerID,
	)
	return scanTask(row)
}

func (r *TaskRepository) MarkRunning(ctx context.Context, ownerID, taskID int64, now time.Time) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE tasks
		 SET status = 'running', started_at = $3, updated_at = $3
		 WHERE id = $1 AND user_id = $2
		   AND status IN ('pending', 'paused')
		   AND NOT EXISTS (
			SELECT 1 FROM tasks t2 WHERE t2.user_id = $2 AND t2.status = 'running'
		   )
		 RETURNING `+taskColumns,
		taskID, ownerID, now,
	)
	return scanTask(row)
}

func (r *TaskRepository) MarkStopped(ctx context.Context, ownerID, taskID int64, status domain.TaskStatus, sessionSeconds int64, endedAt *time.Time, now time.Time) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE tasks
		 SET status = $3,
		     duration_seconds = duration_seconds + $4,
		     ended_at = COALESCE($5, ended_at),
		     updated_at = $6
		 WHERE id = $1 AND user_id = $2 AND status = 'running'
		 RETURNING `+taskColumns,
		taskID, ownerID, status, sessionSeconds, endedAt, now,
	)
	return scanTask(row)
}

func (r *TaskRepository) ListWindow(ctx context.Context, ownerID int64, from, to time.Time) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
		 ORDER BY created_at DESC`,
		ownerID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTasks(rows)
}

func (r *TaskRepository) Summarize(ctx context.Context, ownerID int64, from, to time.Time) (domain.Summary, error) {
	var s domain.Summary
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE status = 'completed'),
		        COUNT(*) FILTER (WHERE status IN ('running', 'paused')),
		        COUNT(*) FILTER (WHERE status = 'pending'),
		        COALESCE(SUM(duration_seconds), 0)
		 FROM tasks
		 WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3`,
		ownerID, from, to,
	).Scan(&s.TotalTasks, &s.CompletedTasks, &s.InProgressTasks, &s.PendingTasks, &s.TotalTimeSpent)
	if err != nil {
		return domain.Summary{}, err
	}
	return s, nil
}

func collectTasks(rows pgx.Rows) ([]*domain.Task, error) {
	var res []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}
