package service

import (
	"context"
	"errors"

	"alto_bot/internal/model"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrTaskNotFound      = errors.New("task not found")
	ErrWrongPassword     = errors.New("wrong admin password")
	ErrSessionBusy       = errors.New("session is busy")
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrInvalidTask       = errors.New("invalid task")
	ErrInvalidBonusRange = errors.New("invalid bonus range")
)

type UserRepository interface {
	ListUsers(ctx context.Context) ([]*model.User, error)
	SaveUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id string) error
}

type CatalogRepository interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, task *model.Task) error
	DeleteTask(ctx context.Context, id int64) error
	GetConfig(ctx context.Context) (*model.Config, error)
	UpdateConfig(ctx context.Context, cfg *model.Config) error
	ListShopItems(ctx context.Context) ([]model.ShopItem, error)
	ListRiddles(ctx context.Context) ([]model.Riddle, error)
}

// Store is the record store backing the bot: a directory of JSON documents or Postgres.
type Store interface {
	UserRepository
	CatalogRepository
}

// Responder is the generative text collaborator. It keeps the history of every
// conversation itself; the bot only supplies a stable conversation id.
type Responder interface {
	Complete(ctx context.Context, conversationID, text string) (string, error)
	Reset(conversationID string)
}

type WithdrawalNotifier interface {
	NotifyWithdrawal(ctx context.Context, req model.WithdrawalRequest)
}

type AdminServiceI interface {
	ListUsers() []*model.User
	GetUser(id string) (*model.User, error)
	SetBlocked(ctx context.Context, id string, blocked bool) error
	DeleteUser(ctx context.Context, id string) error
	ListTasks() []model.Task
	AddTask(ctx context.Context, task model.Task) (model.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	Bonus() model.BonusRange
	SetBonus(ctx context.Context, min, max int64) error
}
