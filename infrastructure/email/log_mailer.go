// Package email provides Mailer implementations. Delivery is pluggable;
// the default implementation writes mails to the log, which is enough for
// development and for environments where an external sender is not
// configured.
package email

import (
	"context"

	"yaplog-backend/application/ports"

	"go.uber.org/zap"
)

// LogMailer writes outgoing mail to the structured log instead of sending it.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a Mailer that logs instead of sending.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendVerificationEmail logs the verification token for the recipient.
func (m *LogMailer) SendVerificationEmail(_ context.Context, email, name, token string) error {
	m.logger.Info("verification email",
		zap.String("recipient", email),
		zap.String("name", name),
		zap.String("token", token),
	)
	return nil
}

// SendPasswordResetEmail logs the reset token for the recipient.
func (m *LogMailer) SendPasswordResetEmail(_ context.Context, email, token string) error {
	m.logger.Info("password reset email",
		zap.String("recipient", email),
		zap.String("token", token),
	)
	return nil
}

var _ ports.Mailer = (*LogMailer)(nil)
