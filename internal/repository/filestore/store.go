// Package filestore keeps the bot records as JSON documents in one directory:
// users.json (id -> user), tasks.json, config.json, shop.json and riddles.json.
// Every write replaces the whole document atomically.
package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"

	"alto_bot/internal/model"
	"alto_bot/internal/repository"
)

const (
	UsersFile   = "users.json"
	TasksFile   = "tasks.json"
	ConfigFile  = "config.json"
	ShopFile    = "shop.json"
	RiddlesFile = "riddles.json"
)

type Store struct {
	dir string

	mu     sync.Mutex
	loaded bool
	users  map[string]*model.User
	tasks  []model.Task
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}
	return &Store{
		dir:   dir,
		users: make(map[string]*model.User),
	}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *Store) loadLocked() error {
	if s.loaded {
		return nil
	}

	users := make(map[string]*model.User)
	if _, err := readJSON(s.path(UsersFile), &users); err != nil {
		return err
	}
	for id, u := range users {
		if u == nil {
			delete(users, id)
			continue
		}
		u.ID = id
		if u.Session.Mode == "" {
			u.Session.Mode = model.ModeMain
		}
		if u.CompletedTasksToday == nil {
			u.CompletedTasksToday = []int64{}
		}
	}

	var tasks []model.Task
	if _, err := readJSON(s.path(TasksFile), &tasks); err != nil {
		return err
	}

	s.users = users
	s.tasks = tasks
	s.loaded = true
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u.Clone())
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].ID < users[j].ID
	})

	return users, nil
}

func (s *Store) SaveUser(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}

	prev, existed := s.users[user.ID]
	s.users[user.ID] = user.Clone()
	if err := writeJSON(s.path(UsersFile), s.users); err != nil {
		if existed {
			s.users[user.ID] = prev
		} else {
			delete(s.users, user.ID)
		}
		return fmt.Errorf("failed to save user %s: %w", user.ID, err)
	}

	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}

	prev, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	if err := writeJSON(s.path(UsersFile), s.users); err != nil {
		s.users[id] = prev
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}

	return nil
}

func (s *Store) ListTasks(ctx context.Context) ([]model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, err
	}

	return slices.Clone(s.tasks), nil
}

// CreateTask assigns the next id (highest existing id + 1) and appends the task.
func (s *Store) CreateTask(ctx context.Context, task *model.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}

	var maxID int64
	for _, t := range s.tasks {
		maxID = max(maxID, t.ID)
	}
	task.ID = maxID + 1

	tasks := append(slices.Clone(s.tasks), *task)
	if err := writeJSON(s.path(TasksFile), tasks); err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	s.tasks = tasks

	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}

	idx := slices.IndexFunc(s.tasks, func(t model.Task) bool { return t.ID == id })
	if idx < 0 {
		return repository.ErrNotFound
	}

	tasks := slices.Delete(slices.Clone(s.tasks), idx, idx+1)
	if err := writeJSON(s.path(TasksFile), tasks); err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}
	s.tasks = tasks

	return nil
}

// GetConfig returns the stored config, or the defaults when config.json is absent.
func (s *Store) GetConfig(ctx context.Context) (*model.Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := model.DefaultConfig()
	if _, err := readJSON(s.path(ConfigFile), cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (s *Store) UpdateConfig(ctx context.Context, cfg *model.Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeJSON(s.path(ConfigFile), cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

func (s *Store) ListShopItems(ctx context.Context) ([]model.ShopItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var items []model.ShopItem
	if _, err := readJSON(s.path(ShopFile), &items); err != nil {
		return nil, err
	}

	return items, nil
}

func (s *Store) ListRiddles(ctx context.Context) ([]model.Riddle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var riddles []model.Riddle
	if _, err := readJSON(s.path(RiddlesFile), &riddles); err != nil {
		return nil, err
	}

	return riddles, nil
}
