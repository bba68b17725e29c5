package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"alto_bot/internal/model"
	"alto_bot/internal/repository"
	"alto_bot/pkg/logger"

	"go.uber.org/zap"
)

type heldLockKey string

// SessionStore keeps every user record in memory and writes through to the
// record store. A user's read-mutate-persist cycle runs under that user's lock.
// Readers that do not hold the lock (List, Get, Flush) see the last committed
// copy, never a record in the middle of a turn.
type SessionStore struct {
	repo        UserRepository
	lockTimeout time.Duration

	mu        sync.RWMutex
	users     map[string]*model.User
	committed map[string]*model.User
	locks     map[string]chan struct{}
}

func NewSessionStore(repo UserRepository, lockTimeout time.Duration) *SessionStore {
	return &SessionStore{
		repo:        repo,
		lockTimeout: lockTimeout,
		users:       make(map[string]*model.User),
		committed:   make(map[string]*model.User),
		locks:       make(map[string]chan struct{}),
	}
}

func (s *SessionStore) Load(ctx context.Context) error {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		s.users[u.ID] = u
		s.committed[u.ID] = u.Clone()
	}

	logger.Logger().Info("sessions loaded", zap.Int("users", len(users)))
	return nil
}

// Lock acquires the user's lock. The returned context marks the lock as held so
// nested calls for the same user (Mutate, Delete) do not wait on themselves.
func (s *SessionStore) Lock(ctx context.Context, userID string) (context.Context, func(), error) {
	if ctx.Value(heldLockKey(userID)) != nil {
		return ctx, func() {}, nil
	}

	s.mu.Lock()
	ch, ok := s.locks[userID]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[userID] = ch
	}
	s.mu.Unlock()

	waitCtx := ctx
	if s.lockTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, s.lockTimeout)
		defer cancel()
	}

	select {
	case ch <- struct{}{}:
	case <-waitCtx.Done():
		return ctx, nil, fmt.Errorf("%w: %s: %v", ErrSessionBusy, userID, waitCtx.Err())
	}

	return context.WithValue(ctx, heldLockKey(userID), true), func() { <-ch }, nil
}

// GetOrCreate returns the user's record, creating and persisting a default one
// on first contact. The caller must hold the user's lock.
func (s *SessionStore) GetOrCreate(ctx context.Context, userID string, now time.Time, day string) (*model.User, bool, error) {
	if user, ok := s.Lookup(userID); ok {
		return user, false, nil
	}

	user := model.NewUser(userID, day, now)
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return nil, false, fmt.Errorf("failed to create user %s: %w", userID, err)
	}

	s.mu.Lock()
	s.users[userID] = user
	s.committed[userID] = user.Clone()
	s.mu.Unlock()

	logger.Logger().Info("user created", zap.String("user_id", userID))
	return user, true, nil
}

// Lookup returns the live record. The caller must hold the user's lock before
// reading or changing it.
func (s *SessionStore) Lookup(userID string) (*model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	return user, ok
}

// Commit persists the record. A record deleted during the turn is not written back.
func (s *SessionStore) Commit(ctx context.Context, user *model.User) error {
	s.mu.RLock()
	current, ok := s.users[user.ID]
	s.mu.RUnlock()
	if !ok || current != user {
		return nil
	}

	if err := s.repo.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("failed to save user %s: %w", user.ID, err)
	}

	snapshot := user.Clone()
	s.mu.Lock()
	if s.users[user.ID] == user {
		s.committed[user.ID] = snapshot
	}
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the user's last committed record.
func (s *SessionStore) Get(userID string) (*model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.committed[userID]
	if !ok {
		return nil, false
	}
	return user.Clone(), true
}

// Restore rolls a live record back to a snapshot taken before the turn.
func (s *SessionStore) Restore(user, snapshot *model.User) {
	*user = *snapshot.Clone()
}

// Mutate applies fn to another user's record under that user's lock and
// persists the result. The record is rolled back when fn or the write fails.
func (s *SessionStore) Mutate(ctx context.Context, userID string, fn func(*model.User) error) error {
	ctx, release, err := s.Lock(ctx, userID)
	if err != nil {
		return err
	}
	defer release()

	user, ok := s.Lookup(userID)
	if !ok {
		return ErrUserNotFound
	}

	snapshot := user.Clone()
	if err := fn(user); err != nil {
		s.Restore(user, snapshot)
		return err
	}
	if err := s.Commit(ctx, user); err != nil {
		s.Restore(user, snapshot)
		return err
	}

	return nil
}

func (s *SessionStore) Delete(ctx context.Context, userID string) error {
	ctx, release, err := s.Lock(ctx, userID)
	if err != nil {
		return err
	}
	defer release()

	if _, ok := s.Lookup(userID); !ok {
		return ErrUserNotFound
	}

	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}

	s.mu.Lock()
	delete(s.users, userID)
	delete(s.committed, userID)
	s.mu.Unlock()

	logger.Logger().Info("user deleted", zap.String("user_id", userID))
	return nil
}

// List returns copies of all committed records, oldest first.
func (s *SessionStore) List() []*model.User {
	s.mu.RLock()
	users := make([]*model.User, 0, len(s.committed))
	for _, u := range s.committed {
		users = append(users, u.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].ID < users[j].ID
	})
	return users
}

// Flush writes every committed record back to the store. Called on shutdown;
// turns still in flight are left out.
func (s *SessionStore) Flush(ctx context.Context) error {
	var errs []error
	for _, u := range s.List() {
		if err := s.repo.SaveUser(ctx, u); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
