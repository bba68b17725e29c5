package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"alto_bot/internal/model"
	"alto_bot/internal/repository"
	"alto_bot/pkg/logger"

	"go.uber.org/zap"
)

// Catalog holds the shared collections: tasks, shop items, riddles and config.
// They are loaded once and every admin write goes to the store before memory.
type Catalog struct {
	repo CatalogRepository

	mu      sync.RWMutex
	tasks   []model.Task
	shop    []model.ShopItem
	riddles []model.Riddle
	config  model.Config
}

func NewCatalog(repo CatalogRepository) *Catalog {
	return &Catalog{
		repo:   repo,
		config: *model.DefaultConfig(),
	}
}

func (c *Catalog) Load(ctx context.Context) error {
	tasks, err := c.repo.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	shop, err := c.repo.ListShopItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to load shop items: %w", err)
	}
	riddles, err := c.repo.ListRiddles(ctx)
	if err != nil {
		return fmt.Errorf("failed to load riddles: %w", err)
	}
	cfg, err := c.repo.GetConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	c.mu.Lock()
	c.tasks = tasks
	c.shop = shop
	c.riddles = riddles
	c.config = *cfg
	c.mu.Unlock()

	logger.Logger().Info("catalog loaded",
		zap.Int("tasks", len(tasks)),
		zap.Int("shop_items", len(shop)),
		zap.Int("riddles", len(riddles)))
	return nil
}

func (c *Catalog) Tasks() []model.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.tasks)
}

func (c *Catalog) Task(id int64) (model.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (c *Catalog) AddTask(ctx context.Context, task model.Task) (model.Task, error) {
	if task.Reward <= 0 || task.Duration <= 0 || task.Name == "" || task.Link == "" || task.Description == "" {
		return model.Task{}, ErrInvalidTask
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.repo.CreateTask(ctx, &task); err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	c.tasks = append(c.tasks, task)

	return task, nil
}

func (c *Catalog) DeleteTask(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := slices.IndexFunc(c.tasks, func(t model.Task) bool { return t.ID == id })
	if idx < 0 {
		return ErrTaskNotFound
	}

	if err := c.repo.DeleteTask(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	c.tasks = slices.Delete(c.tasks, idx, idx+1)

	return nil
}

func (c *Catalog) ShopItems() []model.ShopItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.shop)
}

func (c *Catalog) Riddles() []model.Riddle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.riddles)
}

func (c *Catalog) Config() model.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *Catalog) SetBonus(ctx context.Context, min, max int64) error {
	if min < 0 || min > max {
		return ErrInvalidBonusRange
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cfg := c.config
	cfg.DailyBonus = model.BonusRange{Min: min, Max: max}
	if err := c.repo.UpdateConfig(ctx, &cfg); err != nil {
		return fmt.Errorf("failed to update config: %w", err)
	}
	c.config = cfg

	return nil
}
