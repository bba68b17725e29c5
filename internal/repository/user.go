package repository

import (
	"context"
	"fmt"
	"time"

	"alto_bot/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/goccy/go-json"
	"github.com/lib/pq"
)

type User struct {
	ID                  string        `db:"id"`
	Balance             int64         `db:"balance"`
	IsBlocked           bool          `db:"is_blocked"`
	IsAdmin             bool          `db:"is_admin"`
	LastLoginDay        string        `db:"last_login_day"`
	ClaimedDailyBonus   bool          `db:"claimed_daily_bonus"`
	CompletedTasksToday pq.Int64Array `db:"completed_tasks_today"`
	Session             []byte        `db:"session"`
	CreatedAt           time.Time     `db:"created_at"`
}

func (r *Repository) ListUsers(ctx context.Context) ([]*model.User, error) {
	query, args, err := squirrel.
		Select("*").
		From("users").
		OrderBy("created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build users select query: %w", err)
	}

	var rows []User
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	users := make([]*model.User, 0, len(rows))
	for _, row := range rows {
		user, err := row.toModel()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

func (r *Repository) SaveUser(ctx context.Context, user *model.User) error {
	session, err := json.Marshal(user.Session)
	if err != nil {
		return fmt.Errorf("failed to encode session of user %s: %w", user.ID, err)
	}

	completed := user.CompletedTasksToday
	if completed == nil {
		completed = []int64{}
	}

	query, args, err := squirrel.
		Insert("users").
		SetMap(map[string]interface{}{
			"id":                    user.ID,
			"balance":               user.Balance,
			"is_blocked":            user.IsBlocked,
			"is_admin":              user.IsAdmin,
			"last_login_day":        user.LastLoginDay,
			"claimed_daily_bonus":   user.ClaimedDailyBonus,
			"completed_tasks_today": pq.Array(completed),
			"session":               session,
			"created_at":            user.CreatedAt,
		}).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			balance = EXCLUDED.balance,
			is_blocked = EXCLUDED.is_blocked,
			is_admin = EXCLUDED.is_admin,
			last_login_day = EXCLUDED.last_login_day,
			claimed_daily_bonus = EXCLUDED.claimed_daily_bonus,
			completed_tasks_today = EXCLUDED.completed_tasks_today,
			session = EXCLUDED.session`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build user upsert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save user %s: %w", user.ID, err)
	}

	return nil
}

func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	query, args, err := squirrel.
		Delete("users").
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

func (u User) toModel() (*model.User, error) {
	user := &model.User{
		ID:                  u.ID,
		Balance:             u.Balance,
		IsBlocked:           u.IsBlocked,
		IsAdmin:             u.IsAdmin,
		LastLoginDay:        u.LastLoginDay,
		ClaimedDailyBonus:   u.ClaimedDailyBonus,
		CompletedTasksToday: []int64(u.CompletedTasksToday),
		CreatedAt:           u.CreatedAt,
	}
	if user.CompletedTasksToday == nil {
		user.CompletedTasksToday = []int64{}
	}

	if len(u.Session) > 0 {
		if err := json.Unmarshal(u.Session, &user.Session); err != nil {
			return nil, fmt.Errorf("failed to decode session of user %s: %w", u.ID, err)
		}
	}
	if user.Session.Mode == "" {
		user.Session.Mode = model.ModeMain
	}

	return user, nil
}
