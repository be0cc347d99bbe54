// File: internal/user/mailer.go
package user

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Mailer sends account-related mail. Delivery transport is pluggable;
// the default implementation only logs the message.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, toEmail, verifyURL string) error
}

// LogMailer writes outgoing mail to the application log instead of
// delivering it. Useful for development and test environments.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger.Named("mailer")}
}

func (m *LogMailer) SendVerificationEmail(_ context.Context, toEmail, verifyURL string) error {
	m.logger.Info("Verification email",
		zap.String("to", toEmail),
		zap.String("subject", "Verify your UniHome account"),
		zap.String("body", fmt.Sprintf("Welcome to UniHome! Confirm your email address by visiting: %s", verifyURL)),
	)
	return nil
}
