package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"yaplog-backend/infrastructure/persistence/memstore"
	"yaplog-backend/pkg/auth"
	pkgerrors "yaplog-backend/pkg/errors"
)

// captureMailer records sent tokens instead of delivering anything.
type captureMailer struct {
	verificationTokens []string
	resetTokens        []string
}

func (m *captureMailer) SendVerificationEmail(_ context.Context, _, _, token string) error {
	m.verificationTokens = append(m.verificationTokens, token)
	return nil
}

func (m *captureMailer) SendPasswordResetEmail(_ context.Context, _, token string) error {
	m.resetTokens = append(m.resetTokens, token)
	return nil
}

func newTestService(t *testing.T) (*AccountService, *memstore.UserRepository, *captureMailer) {
	t.Helper()
	repo := memstore.NewUserRepository()
	mailer := &captureMailer{}
	tokens, err := auth.NewJWTGenerator(auth.JWTGeneratorConfig{
		SecretKey: "test-secret",
		Issuer:    "test",
	})
	require.NoError(t, err)
	return NewAccountService(repo, mailer, tokens, zap.NewNop()), repo, mailer
}

func TestAccountService_SignUpAndLogIn(t *testing.T) {
	ctx := context.Background()
	svc, repo, mailer := newTestService(t)

	require.NoError(t, svc.SignUp(ctx, "Jordan", "jordan@example.com", "password123"))
	require.Len(t, mailer.verificationTokens, 1)

	user, err := repo.FindByEmail(ctx, "jordan@example.com")
	require.NoError(t, err)
	assert.False(t, user.EmailVerified())
	// The raw password is never stored.
	assert.NotEqual(t, "password123", user.PasswordHash())

	token, err := svc.LogIn(ctx, "jordan@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestAccountService_SignUp_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	require.NoError(t, svc.SignUp(ctx, "Jordan", "jordan@example.com", "password123"))

	err := svc.SignUp(ctx, "Other", "jordan@example.com", "password456")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
}

func TestAccountService_LogIn_WrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	require.NoError(t, svc.SignUp(ctx, "Jordan", "jordan@example.com", "password123"))

	_, err := svc.LogIn(ctx, "jordan@example.com", "wrong-password")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsUnauthorized(err))
}

func TestAccountService_LogIn_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.LogIn(context.Background(), "nobody@example.com", "password123")
	require.Error(t, err)
	// Unknown address and wrong password are indistinguishable.
	assert.True(t, pkgerrors.IsUnauthorized(err))
}

func TestAccountService_VerifyEmail(t *testing.T) {
	ctx := context.Background()
	svc, repo, mailer := newTestService(t)
	require.NoError(t, svc.SignUp(ctx, "Jordan", "jordan@example.com", "password123"))

	require.NoError(t, svc.VerifyEmail(ctx, mailer.verificationTokens[0]))

	user, err := repo.FindByEmail(ctx, "jordan@example.com")
	require.NoError(t, err)
	assert.True(t, user.EmailVerified())
}

func TestAccountService_VerifyEmail_InvalidToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.VerifyEmail(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestAccountService_ResendVerification_SilentForUnknownEmail(t *testing.T) {
	svc, _, mailer := newTestService(t)

	require.NoError(t, svc.ResendVerification(context.Background(), "nobody@example.com"))
	assert.Empty(t, mailer.verificationTokens)
}

func TestAccountService_ResendVerification_SilentInsideCooldown(t *testing.T) {
	ctx := context.Background()
	svc, _, mailer := newTestService(t)
	require.NoError(t, svc.SignUp(ctx, "Jordan", "jordan@example.com", "password123"))

	// Signup just issued a token, so the resend lands inside the cooldown.
	require.NoError(t, svc.ResendVerification(ctx, "jordan@example.com"))
	assert.Len(t, mailer.verificationTokens, 1)
}

func TestAccountService_ForgotPassword_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestAccountService_PasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	svc, _, mailer := newTestService(t)
	require.NoError(t, svc.SignUp(ctx, "Jordan", "jordan@example.com", "password123"))

	require.NoError(t, svc.ForgotPassword(ctx, "jordan@example.com"))
	require.Len(t, mailer.resetTokens, 1)

	require.NoError(t, svc.ResetPassword(ctx, mailer.resetTokens[0], "new-password-9"))

	_, err := svc.LogIn(ctx, "jordan@example.com", "password123")
	require.Error(t, err)

	token, err := svc.LogIn(ctx, "jordan@example.com", "new-password-9")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestAccountService_ResetPassword_InvalidToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.ResetPassword(context.Background(), "bogus", "new-password-9")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}
