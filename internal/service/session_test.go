package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"alto_bot/internal/model"
	"alto_bot/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var sessionNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func TestSessionStore_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	mockRepo := &mocks.MockUserRepository{}
	store := NewSessionStore(mockRepo, time.Second)

	mockRepo.On("SaveUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.ID == "42" && u.Balance == 0 && u.Session.Mode == model.ModeMain
	})).Return(nil).Once()

	user, created, err := store.GetOrCreate(ctx, "42", sessionNow, "2026-10-19")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "2026-10-19", user.LastLoginDay)

	again, created, err := store.GetOrCreate(ctx, "42", sessionNow, "2026-10-19")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, user, again)

	mockRepo.AssertExpectations(t)
}

func TestSessionStore_GetOrCreateSaveFails(t *testing.T) {
	mockRepo := &mocks.MockUserRepository{}
	store := NewSessionStore(mockRepo, time.Second)

	mockRepo.On("SaveUser", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, _, err := store.GetOrCreate(context.Background(), "42", sessionNow, "2026-10-19")
	assert.Error(t, err)

	_, ok := store.Lookup("42")
	assert.False(t, ok)
}

func TestSessionStore_Lock(t *testing.T) {
	store := NewSessionStore(&mocks.MockUserRepository{}, 20*time.Millisecond)
	ctx := context.Background()

	lockedCtx, release, err := store.Lock(ctx, "42")
	require.NoError(t, err)

	t.Run("Re-entrant with the held context", func(t *testing.T) {
		_, inner, err := store.Lock(lockedCtx, "42")
		require.NoError(t, err)
		inner()
	})

	t.Run("Busy for another caller", func(t *testing.T) {
		_, _, err := store.Lock(ctx, "42")
		assert.ErrorIs(t, err, ErrSessionBusy)
	})

	t.Run("Other users are independent", func(t *testing.T) {
		_, other, err := store.Lock(ctx, "43")
		require.NoError(t, err)
		other()
	})

	release()

	_, again, err := store.Lock(ctx, "42")
	require.NoError(t, err)
	again()
}

func TestSessionStore_Mutate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name            string
		mockSetup       func(*mocks.MockUserRepository)
		fn              func(*model.User) error
		expectedError   error
		expectedBalance int64
	}{
		{
			name: "Persisted",
			mockSetup: func(m *mocks.MockUserRepository) {
				m.On("SaveUser", mock.Anything, mock.Anything).Return(nil)
			},
			fn: func(u *model.User) error {
				u.Balance = 300
				return nil
			},
			expectedBalance: 300,
		},
		{
			name: "Rolled back on save error",
			mockSetup: func(m *mocks.MockUserRepository) {
				m.On("SaveUser", mock.Anything, mock.Anything).Return(errors.New("disk full"))
			},
			fn: func(u *model.User) error {
				u.Balance = 300
				return nil
			},
			expectedError:   errors.New("disk full"),
			expectedBalance: 100,
		},
		{
			name:      "Rolled back on callback error",
			mockSetup: func(m *mocks.MockUserRepository) {},
			fn: func(u *model.User) error {
				u.Balance = 300
				return ErrInvalidTask
			},
			expectedError:   ErrInvalidTask,
			expectedBalance: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockUserRepository{}
			user := model.NewUser("42", "2026-10-19", sessionNow)
			user.Balance = 100
			mockRepo.On("ListUsers", mock.Anything).Return([]*model.User{user}, nil)
			tt.mockSetup(mockRepo)

			store := NewSessionStore(mockRepo, time.Second)
			require.NoError(t, store.Load(ctx))

			err := store.Mutate(ctx, "42", tt.fn)

			if tt.expectedError != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			got, ok := store.Lookup("42")
			require.True(t, ok)
			assert.Equal(t, tt.expectedBalance, got.Balance)
		})
	}
}

func TestSessionStore_MutateUnknownUser(t *testing.T) {
	store := NewSessionStore(&mocks.MockUserRepository{}, time.Second)

	err := store.Mutate(context.Background(), "404", func(*model.User) error { return nil })
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSessionStore_DeleteAndCommit(t *testing.T) {
	ctx := context.Background()
	mockRepo := &mocks.MockUserRepository{}
	user := model.NewUser("42", "2026-10-19", sessionNow)
	mockRepo.On("ListUsers", mock.Anything).Return([]*model.User{user}, nil)
	mockRepo.On("DeleteUser", mock.Anything, "42").Return(nil).Once()

	store := NewSessionStore(mockRepo, time.Second)
	require.NoError(t, store.Load(ctx))

	require.NoError(t, store.Delete(ctx, "42"))
	assert.ErrorIs(t, store.Delete(ctx, "42"), ErrUserNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "43"), ErrUserNotFound)

	// A record removed mid-turn must not be written back.
	user.Balance = 999
	require.NoError(t, store.Commit(ctx, user))
	mockRepo.AssertNotCalled(t, "SaveUser", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestSessionStore_ListAndFlush(t *testing.T) {
	ctx := context.Background()
	mockRepo := &mocks.MockUserRepository{}
	older := model.NewUser("b", "2026-10-19", sessionNow.Add(-time.Hour))
	newer := model.NewUser("a", "2026-10-19", sessionNow)
	mockRepo.On("ListUsers", mock.Anything).Return([]*model.User{newer, older}, nil)
	mockRepo.On("SaveUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool { return u.ID == "a" })).Return(nil)
	mockRepo.On("SaveUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool { return u.ID == "b" })).Return(errors.New("disk full"))

	store := NewSessionStore(mockRepo, time.Second)
	require.NoError(t, store.Load(ctx))

	users := store.List()
	require.Len(t, users, 2)
	assert.Equal(t, "b", users[0].ID)
	assert.Equal(t, "a", users[1].ID)
	assert.NotSame(t, older, users[0])

	err := store.Flush(ctx)
	assert.ErrorContains(t, err, "disk full")
	mockRepo.AssertNumberOfCalls(t, "SaveUser", 2)
}

func TestSessionStore_ReadsSeeCommittedRecords(t *testing.T) {
	ctx := context.Background()
	mockRepo := &mocks.MockUserRepository{}
	user := model.NewUser("42", "2026-10-19", sessionNow)
	user.Balance = 100
	mockRepo.On("ListUsers", mock.Anything).Return([]*model.User{user}, nil)
	mockRepo.On("SaveUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool { return u.Balance == 100 })).Return(nil).Once()
	mockRepo.On("SaveUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool { return u.Balance == 300 })).Return(nil).Once()

	store := NewSessionStore(mockRepo, time.Second)
	require.NoError(t, store.Load(ctx))

	lockedCtx, release, err := store.Lock(ctx, "42")
	require.NoError(t, err)
	defer release()

	live, ok := store.Lookup("42")
	require.True(t, ok)
	live.Balance = 300
	live.Session.Mode = model.ModeCaptcha

	got, ok := store.Get("42")
	require.True(t, ok)
	assert.Equal(t, int64(100), got.Balance)
	assert.Equal(t, model.ModeMain, got.Session.Mode)
	assert.Equal(t, int64(100), store.List()[0].Balance)

	// Flush skips the turn in flight.
	require.NoError(t, store.Flush(ctx))

	require.NoError(t, store.Commit(lockedCtx, live))
	got, ok = store.Get("42")
	require.True(t, ok)
	assert.Equal(t, int64(300), got.Balance)
	assert.NotSame(t, live, got)

	_, ok = store.Get("404")
	assert.False(t, ok)
	mockRepo.AssertExpectations(t)
}
