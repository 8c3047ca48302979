package services

import (
	"context"
	"time"

	"yaplog-backend/application/ports"
	"yaplog-backend/domain/identity"
	"yaplog-backend/pkg/auth"
	pkgerrors "yaplog-backend/pkg/errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the cost used for account passwords at signup.
const bcryptCost = 12

// AccountService implements the account flows: signup, login, email
// verification and password reset. Mail delivery failures never fail the
// flow that triggered them; the user can re-request a token later.
type AccountService struct {
	userRepo ports.UserRepository
	mailer   ports.Mailer
	tokens   *auth.JWTGenerator
	logger   *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	userRepo ports.UserRepository,
	mailer ports.Mailer,
	tokens *auth.JWTGenerator,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		mailer:   mailer,
		tokens:   tokens,
		logger:   logger,
	}
}

// SignUp registers a new unverified account and sends a verification mail.
// Returns a conflict error when the email is already registered.
func (s *AccountService) SignUp(ctx context.Context, name, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return pkgerrors.NewInternalError("failed to hash password").WithCause(err)
	}

	user, err := identity.NewUser(name, email, string(hash), time.Now())
	if err != nil {
		return err
	}

	if err := s.userRepo.Insert(ctx, user); err != nil {
		return err
	}

	if err := s.mailer.SendVerificationEmail(ctx, user.Email(), user.Name(), user.VerificationToken()); err != nil {
		// Account exists either way; the user can request a new mail.
		s.logger.Error("Failed to send verification email",
			zap.String("userID", user.ID()),
			zap.Error(err),
		)
	}

	return nil
}

// LogIn verifies credentials and issues a session token.
func (s *AccountService) LogIn(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return "", pkgerrors.NewUnauthorizedError("invalid email or password")
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash()), []byte(password)) != nil {
		return "", pkgerrors.NewUnauthorizedError("invalid email or password")
	}

	token, err := s.tokens.GenerateToken(user.ID(), user.Email(), user.Name())
	if err != nil {
		return "", pkgerrors.NewInternalError("failed to issue session token").WithCause(err)
	}

	return token, nil
}

// VerifyEmail confirms the account holding the given verification token.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.userRepo.FindByVerificationToken(ctx, token)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return pkgerrors.NewValidationError("invalid or expired token")
		}
		return err
	}

	if err := user.ConfirmEmail(token, time.Now()); err != nil {
		return err
	}

	return s.userRepo.Update(ctx, user)
}

// ResendVerification issues a fresh verification token, subject to a
// per-account cooldown. Unknown addresses, verified accounts and
// cooldown hits are all silent so the endpoint cannot be used to probe
// which emails exist.
func (s *AccountService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil
		}
		return err
	}

	if err := user.RefreshVerificationToken(time.Now()); err != nil {
		if pkgerrors.IsConflict(err) || pkgerrors.IsRateLimit(err) {
			return nil
		}
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.mailer.SendVerificationEmail(ctx, user.Email(), user.Name(), user.VerificationToken()); err != nil {
		s.logger.Error("Failed to send verification email",
			zap.String("userID", user.ID()),
			zap.Error(err),
		)
	}

	return nil
}

// ForgotPassword stores a short-lived reset token and mails it.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	token := user.StartPasswordReset(time.Now())
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordResetEmail(ctx, user.Email(), token); err != nil {
		s.logger.Error("Failed to send password reset email",
			zap.String("userID", user.ID()),
			zap.Error(err),
		)
	}

	return nil
}

// ResetPassword completes a reset started by ForgotPassword.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.userRepo.FindByResetToken(ctx, token)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return pkgerrors.NewValidationError("invalid or expired token")
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return pkgerrors.NewInternalError("failed to hash password").WithCause(err)
	}

	if err := user.CompletePasswordReset(token, string(hash), time.Now()); err != nil {
		return err
	}

	return s.userRepo.Update(ctx, user)
}
