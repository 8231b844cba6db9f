package handler

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/job-application-tracker/internal/model"
	"github.com/iliyamo/job-application-tracker/internal/repository"
)

// memStore is an in-memory repository.UserStore for handler tests. It
// mirrors the two guarantees the MySQL implementation gets from the
// database: uniqueness is checked inside the same critical section as
// the insert, and ResetPasswordIfCodeValid validates and writes under
// one lock so a code can be consumed exactly once.
type memStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]*model.User
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, users: map[uint64]*model.User{}}
}

func (s *memStore) Create(_ context.Context, username, email, passwordHash string, role model.Role) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Username == username || (email != "" && u.Email == email) {
			return 0, repository.ErrUserExists
		}
	}
	id := s.nextID
	s.nextID++
	now := time.Now().UTC()
	s.users[id] = &model.User{
		ID: id, Username: username, Email: email,
		PasswordHash: passwordHash, Role: role,
		CreatedAt: now, UpdatedAt: now,
	}
	return id, nil
}

func (s *memStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(func(u *model.User) bool { return u.Username == username })
}

func (s *memStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	return s.find(func(u *model.User) bool { return u.Email != "" && u.Email == email })
}

func (s *memStore) GetByIdentity(_ context.Context, username, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	return s.find(func(u *model.User) bool { return u.Username == username && u.Email != "" && u.Email == email })
}

func (s *memStore) List(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *memStore) SetPasswordHash(_ context.Context, id uint64, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (s *memStore) SetRecoveryCode(_ context.Context, id uint64, codeHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		exp := expiresAt.UTC()
		u.RecoveryCodeHash = codeHash
		u.RecoveryCodeExpiresAt = &exp
	}
	return nil
}

func (s *memStore) ClearRecoveryCode(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.RecoveryCodeHash = ""
		u.RecoveryCodeExpiresAt = nil
	}
	return nil
}

func (s *memStore) ResetPasswordIfCodeValid(_ context.Context, id uint64, codeHash, newPasswordHash string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.RecoveryCodeHash == "" || u.RecoveryCodeExpiresAt == nil {
		return false, nil
	}
	if u.RecoveryCodeHash != codeHash || !now.Before(*u.RecoveryCodeExpiresAt) {
		return false, nil
	}
	u.PasswordHash = newPasswordHash
	u.RecoveryCodeHash = ""
	u.RecoveryCodeExpiresAt = nil
	return true, nil
}

func (s *memStore) find(match func(*model.User) bool) (model.User, error) {
	for _, u := range s.users {
		if match(u) {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}
