// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/bugtrack/internal/platform/apperr"
	"github.com/taibuivan/bugtrack/internal/platform/sec"
)

// memoryUsers is an in-memory [UserRepository].
type memoryUsers struct {
	mu    sync.Mutex
	users map[string]User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[string]User{}}
}

func (repository *memoryUsers) find(match func(User) bool) (*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	for _, user := range repository.users {
		if match(user) {
			found := user
			return &found, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *memoryUsers) FindByID(_ context.Context, id string) (*User, error) {
	return repository.find(func(user User) bool { return user.ID == id })
}

func (repository *memoryUsers) FindByEmail(_ context.Context, email string) (*User, error) {
	return repository.find(func(user User) bool { return strings.EqualFold(user.Email, email) })
}

func (repository *memoryUsers) FindByUsername(_ context.Context, username string) (*User, error) {
	return repository.find(func(user User) bool { return user.Username == username })
}

func (repository *memoryUsers) Create(_ context.Context, user *User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	for _, existing := range repository.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return apperr.AlreadyExists("Email is already registered")
		}
		if existing.Username == user.Username {
			return apperr.AlreadyExists("Username is already taken")
		}
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	repository.users[user.ID] = *user
	return nil
}

func (repository *memoryUsers) UpdateRole(_ context.Context, id string, role sec.Role) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	user, ok := repository.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	user.Role = role
	repository.users[id] = user
	return nil
}

func (repository *memoryUsers) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	user, ok := repository.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	user.LastLoginAt = &at
	repository.users[id] = user
	return nil
}

func (repository *memoryUsers) set(user User) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.users[user.ID] = user
}

// memoryRevocations is an in-memory [RevocationStore].
type memoryRevocations struct {
	mu      sync.Mutex
	records map[string]Revocation
}

func newMemoryRevocations() *memoryRevocations {
	return &memoryRevocations{records: map[string]Revocation{}}
}

func (store *memoryRevocations) Record(_ context.Context, revocation Revocation) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if _, exists := store.records[revocation.JTI]; exists {
		return false, nil
	}
	store.records[revocation.JTI] = revocation
	return true, nil
}

func (store *memoryRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	_, exists := store.records[jti]
	return exists, nil
}

func (store *memoryRevocations) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	var deleted int64
	for jti, record := range store.records {
		if record.ExpiresAt.Before(before) {
			delete(store.records, jti)
			deleted++
		}
	}
	return deleted, nil
}

func (store *memoryRevocations) count() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.records)
}
