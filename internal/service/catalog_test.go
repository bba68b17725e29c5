package service

import (
	"context"
	"errors"
	"testing"

	"alto_bot/internal/model"
	"alto_bot/internal/repository"
	"alto_bot/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func loadedCatalog(t *testing.T, tasks []model.Task) (*Catalog, *mocks.MockCatalogRepository) {
	t.Helper()
	mockRepo := &mocks.MockCatalogRepository{}
	mockRepo.On("ListTasks", mock.Anything).Return(tasks, nil)
	mockRepo.On("ListShopItems", mock.Anything).Return([]model.ShopItem{{ID: 1, URL: "https://shop.example/1"}}, nil)
	mockRepo.On("ListRiddles", mock.Anything).Return([]model.Riddle{{Question: "Q", Answer: "A"}}, nil)
	mockRepo.On("GetConfig", mock.Anything).Return(model.DefaultConfig(), nil)

	catalog := NewCatalog(mockRepo)
	require.NoError(t, catalog.Load(context.Background()))
	return catalog, mockRepo
}

func TestCatalog_Load(t *testing.T) {
	catalog, _ := loadedCatalog(t, []model.Task{{ID: 1, Name: "Follow", Reward: 100, Duration: 5}})

	assert.Len(t, catalog.Tasks(), 1)
	assert.Len(t, catalog.ShopItems(), 1)
	assert.Len(t, catalog.Riddles(), 1)
	assert.Equal(t, model.BonusRange{Min: 100, Max: 500}, catalog.Config().DailyBonus)

	task, ok := catalog.Task(1)
	assert.True(t, ok)
	assert.Equal(t, "Follow", task.Name)

	_, ok = catalog.Task(2)
	assert.False(t, ok)
}

func TestCatalog_LoadFails(t *testing.T) {
	mockRepo := &mocks.MockCatalogRepository{}
	mockRepo.On("ListTasks", mock.Anything).Return(nil, errors.New("connection refused"))

	err := NewCatalog(mockRepo).Load(context.Background())
	assert.ErrorContains(t, err, "failed to load tasks")
}

func TestCatalog_AddTask(t *testing.T) {
	valid := model.Task{Name: "Follow", Description: "Follow the account", Link: "https://x.example", Reward: 150, Duration: 5}

	tests := []struct {
		name          string
		task          model.Task
		mockSetup     func(*mocks.MockCatalogRepository)
		expectedError error
		expectedTasks int
	}{
		{
			name: "Created",
			task: valid,
			mockSetup: func(m *mocks.MockCatalogRepository) {
				m.On("CreateTask", mock.Anything, mock.Anything).
					Run(func(args mock.Arguments) { args.Get(1).(*model.Task).ID = 7 }).
					Return(nil)
			},
			expectedTasks: 1,
		},
		{
			name:          "Zero reward",
			task:          model.Task{Name: "Follow", Description: "d", Link: "l", Reward: 0, Duration: 5},
			mockSetup:     func(m *mocks.MockCatalogRepository) {},
			expectedError: ErrInvalidTask,
		},
		{
			name:          "Zero duration",
			task:          model.Task{Name: "Follow", Description: "d", Link: "l", Reward: 10, Duration: 0},
			mockSetup:     func(m *mocks.MockCatalogRepository) {},
			expectedError: ErrInvalidTask,
		},
		{
			name: "Store failure keeps memory unchanged",
			task: valid,
			mockSetup: func(m *mocks.MockCatalogRepository) {
				m.On("CreateTask", mock.Anything, mock.Anything).Return(errors.New("disk full"))
			},
			expectedError: errors.New("disk full"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, mockRepo := loadedCatalog(t, nil)
			tt.mockSetup(mockRepo)

			task, err := catalog.AddTask(context.Background(), tt.task)

			if tt.expectedError != nil {
				assert.Error(t, err)
				if errors.Is(tt.expectedError, ErrInvalidTask) {
					assert.ErrorIs(t, err, ErrInvalidTask)
					mockRepo.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(7), task.ID)
			}
			assert.Len(t, catalog.Tasks(), tt.expectedTasks)
		})
	}
}

func TestCatalog_DeleteTask(t *testing.T) {
	catalog, mockRepo := loadedCatalog(t, []model.Task{{ID: 1}, {ID: 2}})
	mockRepo.On("DeleteTask", mock.Anything, int64(1)).Return(nil)
	mockRepo.On("DeleteTask", mock.Anything, int64(2)).Return(repository.ErrNotFound)

	require.NoError(t, catalog.DeleteTask(context.Background(), 1))
	assert.ErrorIs(t, catalog.DeleteTask(context.Background(), 1), ErrTaskNotFound)
	assert.ErrorIs(t, catalog.DeleteTask(context.Background(), 2), ErrTaskNotFound)

	tasks := catalog.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(2), tasks[0].ID)
}

func TestCatalog_SetBonus(t *testing.T) {
	tests := []struct {
		name          string
		min, max      int64
		expectedError error
		expected      model.BonusRange
	}{
		{name: "Valid range", min: 10, max: 20, expected: model.BonusRange{Min: 10, Max: 20}},
		{name: "Single value", min: 50, max: 50, expected: model.BonusRange{Min: 50, Max: 50}},
		{name: "Inverted", min: 20, max: 10, expectedError: ErrInvalidBonusRange, expected: model.BonusRange{Min: 100, Max: 500}},
		{name: "Negative", min: -1, max: 10, expectedError: ErrInvalidBonusRange, expected: model.BonusRange{Min: 100, Max: 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, mockRepo := loadedCatalog(t, nil)
			mockRepo.On("UpdateConfig", mock.Anything, mock.Anything).Return(nil)

			err := catalog.SetBonus(context.Background(), tt.min, tt.max)

			assert.ErrorIs(t, err, tt.expectedError)
			assert.Equal(t, tt.expected, catalog.Config().DailyBonus)
			assert.Equal(t, model.DefaultAdminPassword, catalog.Config().AdminPassword)
		})
	}
}
