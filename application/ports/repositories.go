package ports

import (
	"context"

	"yaplog-backend/domain/identity"
	"yaplog-backend/domain/journal"
)

// MemoryRepository defines the interface for memory persistence.
// This is a port in hexagonal architecture - the domain doesn't know about
// the implementation.
type MemoryRepository interface {
	// Insert persists a new memory. Memories are append-only; there is no
	// content update path.
	Insert(ctx context.Context, memory *journal.Memory) error

	// FindByOwner retrieves all memories for an owner, ordered by
	// creation time descending.
	FindByOwner(ctx context.Context, ownerID string) ([]*journal.Memory, error)

	// FindUnprocessed retrieves up to limit memories that have no digest
	// yet. A limit of 0 or less means no cap.
	FindUnprocessed(ctx context.Context, limit int) ([]*journal.Memory, error)

	// ApplyDigest attaches derived fields to a memory and marks it
	// processed. The write must be conditional on the memory still being
	// unprocessed, so the transition happens at most once; a memory never
	// reappears in FindUnprocessed after a successful call.
	ApplyDigest(ctx context.Context, memory *journal.Memory, digest *journal.Digest) error
}

// UserRepository defines the interface for account persistence.
type UserRepository interface {
	// Insert persists a new user. Returns a conflict error when the email
	// is already registered.
	Insert(ctx context.Context, user *identity.User) error

	// FindByEmail retrieves a user by email address.
	FindByEmail(ctx context.Context, email string) (*identity.User, error)

	// FindByVerificationToken retrieves a user by pending verification token.
	FindByVerificationToken(ctx context.Context, token string) (*identity.User, error)

	// FindByResetToken retrieves a user by pending password-reset token.
	FindByResetToken(ctx context.Context, token string) (*identity.User, error)

	// Update persists changes to an existing user.
	Update(ctx context.Context, user *identity.User) error
}

// Mailer delivers account emails. Delivery is outside this service's
// scope; implementations may log instead of sending.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, email, name, token string) error
	SendPasswordResetEmail(ctx context.Context, email, token string) error
}
