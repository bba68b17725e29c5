package mocks

import (
	"context"

	"alto_bot/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) ListUsers() []*model.User {
	args := m.Called()
	return args.Get(0).([]*model.User)
}

func (m *MockAdminService) GetUser(id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAdminService) SetBlocked(ctx context.Context, id string, blocked bool) error {
	args := m.Called(ctx, id, blocked)
	return args.Error(0)
}

func (m *MockAdminService) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAdminService) ListTasks() []model.Task {
	args := m.Called()
	return args.Get(0).([]model.Task)
}

func (m *MockAdminService) AddTask(ctx context.Context, task model.Task) (model.Task, error) {
	args := m.Called(ctx, task)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockAdminService) DeleteTask(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAdminService) Bonus() model.BonusRange {
	args := m.Called()
	return args.Get(0).(model.BonusRange)
}

func (m *MockAdminService) SetBonus(ctx context.Context, min, max int64) error {
	args := m.Called(ctx, min, max)
	return args.Error(0)
}
