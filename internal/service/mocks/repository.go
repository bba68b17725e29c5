package mocks

import (
	"context"

	"alto_bot/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListTasks(ctx context.Context) ([]model.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockCatalogRepository) CreateTask(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockCatalogRepository) DeleteTask(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetConfig(ctx context.Context) (*model.Config, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Config), args.Error(1)
}

func (m *MockCatalogRepository) UpdateConfig(ctx context.Context, cfg *model.Config) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockCatalogRepository) ListShopItems(ctx context.Context) ([]model.ShopItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ShopItem), args.Error(1)
}

func (m *MockCatalogRepository) ListRiddles(ctx context.Context) ([]model.Riddle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Riddle), args.Error(1)
}

type MockResponder struct {
	mock.Mock
}

func (m *MockResponder) Complete(ctx context.Context, conversationID, text string) (string, error) {
	args := m.Called(ctx, conversationID, text)
	return args.String(0), args.Error(1)
}

func (m *MockResponder) Reset(conversationID string) {
	m.Called(conversationID)
}

type MockWithdrawalNotifier struct {
	mock.Mock
}

func (m *MockWithdrawalNotifier) NotifyWithdrawal(ctx context.Context, req model.WithdrawalRequest) {
	m.Called(ctx, req)
}
