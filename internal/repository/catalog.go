package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"alto_bot/internal/model"

	"github.com/Masterminds/squirrel"
)

type botConfig struct {
	AdminPassword string `db:"admin_password"`
	BonusMin      int64  `db:"bonus_min"`
	BonusMax      int64  `db:"bonus_max"`
}

// GetConfig returns the stored config, or the defaults when none was saved yet.
func (r *Repository) GetConfig(ctx context.Context) (*model.Config, error) {
	query, args, err := squirrel.
		Select("admin_password", "bonus_min", "bonus_max").
		From("bot_config").
		Where(squirrel.Eq{"id": 1}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var cfg botConfig
	err = r.db.GetContext(ctx, &cfg, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	return &model.Config{
		AdminPassword: cfg.AdminPassword,
		DailyBonus: model.BonusRange{
			Min: cfg.BonusMin,
			Max: cfg.BonusMax,
		},
	}, nil
}

func (r *Repository) UpdateConfig(ctx context.Context, cfg *model.Config) error {
	query, args, err := squirrel.
		Insert("bot_config").
		SetMap(map[string]interface{}{
			"id":             1,
			"admin_password": cfg.AdminPassword,
			"bonus_min":      cfg.DailyBonus.Min,
			"bonus_max":      cfg.DailyBonus.Max,
		}).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			admin_password = EXCLUDED.admin_password,
			bonus_min = EXCLUDED.bonus_min,
			bonus_max = EXCLUDED.bonus_max`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build config upsert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

func (r *Repository) ListShopItems(ctx context.Context) ([]model.ShopItem, error) {
	query, args, err := squirrel.
		Select("id", "url").
		From("shop_items").
		OrderBy("id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ID  int64  `db:"id"`
		URL string `db:"url"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get shop items: %w", err)
	}

	items := make([]model.ShopItem, len(rows))
	for i, row := range rows {
		items[i] = model.ShopItem{ID: row.ID, URL: row.URL}
	}

	return items, nil
}

func (r *Repository) ListRiddles(ctx context.Context) ([]model.Riddle, error) {
	query, args, err := squirrel.
		Select("question", "answer").
		From("riddles").
		OrderBy("id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Question string `db:"question"`
		Answer   string `db:"answer"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get riddles: %w", err)
	}

	riddles := make([]model.Riddle, len(rows))
	for i, row := range rows {
		riddles[i] = model.Riddle{Question: row.Question, Answer: row.Answer}
	}

	return riddles, nil
}
