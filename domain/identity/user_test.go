package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "yaplog-backend/pkg/errors"
)

func TestNewUser(t *testing.T) {
	now := time.Date(2026, 2, 8, 10, 0, 0, 0, time.UTC)

	user, err := NewUser("Jordan", "  Jordan@Example.COM ", "hash", now)

	require.NoError(t, err)
	assert.Equal(t, "jordan@example.com", user.Email())
	assert.False(t, user.EmailVerified())
	assert.NotEmpty(t, user.VerificationToken())
	assert.Equal(t, now.Add(24*time.Hour), user.VerificationExpires())
}

func TestNewUser_RejectsMissingFields(t *testing.T) {
	now := time.Now()

	_, err := NewUser("", "a@b.com", "hash", now)
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = NewUser("Jordan", "", "hash", now)
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = NewUser("Jordan", "a@b.com", "", now)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestUser_ConfirmEmail(t *testing.T) {
	now := time.Date(2026, 2, 8, 10, 0, 0, 0, time.UTC)
	user, err := NewUser("Jordan", "jordan@example.com", "hash", now)
	require.NoError(t, err)

	token := user.VerificationToken()

	require.NoError(t, user.ConfirmEmail(token, now.Add(time.Hour)))
	assert.True(t, user.EmailVerified())
	assert.Empty(t, user.VerificationToken())

	// The token is single-use.
	err = user.ConfirmEmail(token, now.Add(time.Hour))
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestUser_ConfirmEmail_Expired(t *testing.T) {
	now := time.Date(2026, 2, 8, 10, 0, 0, 0, time.UTC)
	user, err := NewUser("Jordan", "jordan@example.com", "hash", now)
	require.NoError(t, err)

	err = user.ConfirmEmail(user.VerificationToken(), now.Add(25*time.Hour))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.False(t, user.EmailVerified())
}

func TestUser_ConfirmEmail_WrongToken(t *testing.T) {
	user, err := NewUser("Jordan", "jordan@example.com", "hash", time.Now())
	require.NoError(t, err)

	err = user.ConfirmEmail("bogus", time.Now())
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestUser_RefreshVerificationToken_Cooldown(t *testing.T) {
	now := time.Date(2026, 2, 8, 10, 0, 0, 0, time.UTC)
	user, err := NewUser("Jordan", "jordan@example.com", "hash", now)
	require.NoError(t, err)

	first := user.VerificationToken()

	err = user.RefreshVerificationToken(now.Add(10 * time.Second))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsRateLimit(err))
	assert.Equal(t, first, user.VerificationToken())

	require.NoError(t, user.RefreshVerificationToken(now.Add(31*time.Second)))
	assert.NotEqual(t, first, user.VerificationToken())
}

func TestUser_RefreshVerificationToken_AlreadyVerified(t *testing.T) {
	now := time.Date(2026, 2, 8, 10, 0, 0, 0, time.UTC)
	user, err := NewUser("Jordan", "jordan@example.com", "hash", now)
	require.NoError(t, err)
	require.NoError(t, user.ConfirmEmail(user.VerificationToken(), now))

	err = user.RefreshVerificationToken(now.Add(time.Minute))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
}

func TestUser_PasswordReset(t *testing.T) {
	now := time.Date(2026, 2, 8, 10, 0, 0, 0, time.UTC)
	user, err := NewUser("Jordan", "jordan@example.com", "hash", now)
	require.NoError(t, err)

	token := user.StartPasswordReset(now)
	require.NotEmpty(t, token)
	assert.Equal(t, now.Add(15*time.Minute), user.ResetExpires())

	require.NoError(t, user.CompletePasswordReset(token, "new-hash", now.Add(5*time.Minute)))
	assert.Equal(t, "new-hash", user.PasswordHash())
	assert.Empty(t, user.ResetToken())

	// The token is single-use.
	err = user.CompletePasswordReset(token, "another-hash", now.Add(6*time.Minute))
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestUser_PasswordReset_Expired(t *testing.T) {
	now := time.Date(2026, 2, 8, 10, 0, 0, 0, time.UTC)
	user, err := NewUser("Jordan", "jordan@example.com", "hash", now)
	require.NoError(t, err)

	token := user.StartPasswordReset(now)

	err = user.CompletePasswordReset(token, "new-hash", now.Add(16*time.Minute))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Equal(t, "hash", user.PasswordHash())
}
