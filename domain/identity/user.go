package identity

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	pkgerrors "yaplog-backend/pkg/errors"

	"github.com/google/uuid"
)

const (
	verificationTokenTTL = 24 * time.Hour
	resetTokenTTL        = 15 * time.Minute

	// resendCooldown throttles repeated verification mails per account.
	resendCooldown = 30 * time.Second
)

// User is an account holder. Token state for email verification and
// password reset lives here so expiry rules stay next to the data.
type User struct {
	id           string
	name         string
	email        string
	passwordHash string

	emailVerified       bool
	verificationToken   string
	verificationExpires time.Time
	lastVerificationAt  time.Time

	resetToken   string
	resetExpires time.Time

	createdAt time.Time
}

// NewUser creates an unverified account with an initial verification token.
func NewUser(name, email, passwordHash string, now time.Time) (*User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.NewValidationError("name cannot be empty")
	}
	if strings.TrimSpace(email) == "" {
		return nil, pkgerrors.NewValidationError("email cannot be empty")
	}
	if passwordHash == "" {
		return nil, pkgerrors.NewValidationError("password hash cannot be empty")
	}

	u := &User{
		id:           uuid.New().String(),
		name:         name,
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: passwordHash,
		createdAt:    now.UTC(),
	}
	u.issueVerificationToken(now)
	return u, nil
}

// ReconstructUser rebuilds a user from repository data.
func ReconstructUser(
	id, name, email, passwordHash string,
	emailVerified bool,
	verificationToken string, verificationExpires time.Time, lastVerificationAt time.Time,
	resetToken string, resetExpires time.Time,
	createdAt time.Time,
) (*User, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("id cannot be empty")
	}
	if email == "" {
		return nil, pkgerrors.NewValidationError("email cannot be empty")
	}

	return &User{
		id:                  id,
		name:                name,
		email:               email,
		passwordHash:        passwordHash,
		emailVerified:       emailVerified,
		verificationToken:   verificationToken,
		verificationExpires: verificationExpires,
		lastVerificationAt:  lastVerificationAt,
		resetToken:          resetToken,
		resetExpires:        resetExpires,
		createdAt:           createdAt,
	}, nil
}

func (u *User) ID() string           { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) EmailVerified() bool  { return u.emailVerified }
func (u *User) CreatedAt() time.Time { return u.createdAt }

// VerificationToken returns the pending verification token, empty when
// none is outstanding.
func (u *User) VerificationToken() string { return u.verificationToken }

// VerificationExpires returns the pending verification token's deadline.
func (u *User) VerificationExpires() time.Time { return u.verificationExpires }

// LastVerificationAt returns when a verification mail was last issued.
func (u *User) LastVerificationAt() time.Time { return u.lastVerificationAt }

// ResetToken returns the pending password-reset token, empty when none is
// outstanding.
func (u *User) ResetToken() string { return u.resetToken }

// ResetExpires returns the pending reset token's deadline.
func (u *User) ResetExpires() time.Time { return u.resetExpires }

// RefreshVerificationToken issues a new verification token, subject to the
// resend cooldown. Verified accounts do not get tokens.
func (u *User) RefreshVerificationToken(now time.Time) error {
	if u.emailVerified {
		return pkgerrors.NewConflictError("email is already verified")
	}
	if !u.lastVerificationAt.IsZero() && now.Sub(u.lastVerificationAt) < resendCooldown {
		return pkgerrors.NewRateLimitError("verification email was sent recently")
	}
	u.issueVerificationToken(now)
	return nil
}

// ConfirmEmail marks the account verified when the token matches and has
// not expired, and clears the token state.
func (u *User) ConfirmEmail(token string, now time.Time) error {
	if token == "" || u.verificationToken == "" || token != u.verificationToken {
		return pkgerrors.NewValidationError("invalid or expired token")
	}
	if now.After(u.verificationExpires) {
		return pkgerrors.NewValidationError("invalid or expired token")
	}
	u.emailVerified = true
	u.verificationToken = ""
	u.verificationExpires = time.Time{}
	return nil
}

// StartPasswordReset issues a short-lived reset token.
func (u *User) StartPasswordReset(now time.Time) string {
	u.resetToken = newToken()
	u.resetExpires = now.UTC().Add(resetTokenTTL)
	return u.resetToken
}

// CompletePasswordReset swaps in the new password hash when the token
// matches and has not expired, and clears the token state.
func (u *User) CompletePasswordReset(token, newHash string, now time.Time) error {
	if token == "" || u.resetToken == "" || token != u.resetToken {
		return pkgerrors.NewValidationError("invalid or expired token")
	}
	if now.After(u.resetExpires) {
		return pkgerrors.NewValidationError("invalid or expired token")
	}
	if newHash == "" {
		return pkgerrors.NewValidationError("password hash cannot be empty")
	}
	u.passwordHash = newHash
	u.resetToken = ""
	u.resetExpires = time.Time{}
	return nil
}

func (u *User) issueVerificationToken(now time.Time) {
	u.verificationToken = newToken()
	u.verificationExpires = now.UTC().Add(verificationTokenTTL)
	u.lastVerificationAt = now.UTC()
}

// newToken returns 32 random bytes hex-encoded.
func newToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(b)
}
