package memstore

import (
	"context"
	"strings"
	"sync"

	"yaplog-backend/application/ports"
	"yaplog-backend/domain/identity"
	pkgerrors "yaplog-backend/pkg/errors"
)

// UserRepository is a thread-safe in-memory ports.UserRepository keyed by
// lowercased email.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*identity.User
}

// NewUserRepository creates an empty in-memory repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*identity.User)}
}

// Insert stores a new account, failing with a conflict on duplicate email.
func (r *UserRepository) Insert(_ context.Context, user *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email())
	if _, exists := r.users[key]; exists {
		return pkgerrors.NewConflictError("email is already registered")
	}
	r.users[key] = user
	return nil
}

// Update overwrites the stored account state.
func (r *UserRepository) Update(_ context.Context, user *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email())
	if _, exists := r.users[key]; !exists {
		return pkgerrors.NewNotFoundError("user")
	}
	r.users[key] = user
	return nil
}

// FindByEmail retrieves an account by its email address.
func (r *UserRepository) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("user")
	}
	return user, nil
}

// FindByVerificationToken resolves an account from a pending verification token.
func (r *UserRepository) FindByVerificationToken(_ context.Context, token string) (*identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if token == "" {
		return nil, pkgerrors.NewNotFoundError("user")
	}
	for _, user := range r.users {
		if user.VerificationToken() == token {
			return user, nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("user")
}

// FindByResetToken resolves an account from a pending password-reset token.
func (r *UserRepository) FindByResetToken(_ context.Context, token string) (*identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if token == "" {
		return nil, pkgerrors.NewNotFoundError("user")
	}
	for _, user := range r.users {
		if user.ResetToken() == token {
			return user, nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("user")
}

var _ ports.UserRepository = (*UserRepository)(nil)
