package repository

import (
	"context"
	"fmt"

	"alto_bot/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type Task struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Link        string `db:"link"`
	Reward      int64  `db:"reward"`
	Duration    int    `db:"duration"`
}

func (r *Repository) ListTasks(ctx context.Context) ([]model.Task, error) {
	query, args, err := squirrel.
		Select("id", "name", "description", "link", "reward", "duration").
		From("tasks").
		OrderBy("id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build tasks select query: %w", err)
	}

	var rows []Task
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}

	tasks := make([]model.Task, len(rows))
	for i, t := range rows {
		tasks[i] = model.Task{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Link:        t.Link,
			Reward:      t.Reward,
			Duration:    t.Duration,
		}
	}

	return tasks, nil
}

// CreateTask assigns the next id (highest existing id + 1) and stores the task.
func (r *Repository) CreateTask(ctx context.Context, task *model.Task) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "LOCK TABLE tasks IN SHARE ROW EXCLUSIVE MODE"); err != nil {
			return fmt.Errorf("failed to lock tasks: %w", err)
		}

		maxQuery, maxArgs, err := squirrel.
			Select("COALESCE(MAX(id), 0)").
			From("tasks").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build task id query: %w", err)
		}

		var maxID int64
		if err := tx.GetContext(ctx, &maxID, maxQuery, maxArgs...); err != nil {
			return fmt.Errorf("failed to get max task id: %w", err)
		}

		task.ID = maxID + 1

		query, args, err := squirrel.
			Insert("tasks").
			SetMap(map[string]interface{}{
				"id":          task.ID,
				"name":        task.Name,
				"description": task.Description,
				"link":        task.Link,
				"reward":      task.Reward,
				"duration":    task.Duration,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build task insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to insert task: %w", err)
		}

		return nil
	})
}

func (r *Repository) DeleteTask(ctx context.Context, id int64) error {
	query, args, err := squirrel.
		Delete("tasks").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
