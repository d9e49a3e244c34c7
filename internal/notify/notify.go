// Package notify delivers account emails. Real delivery is an external
// collaborator; LogNotifier records that a message would have been sent.
package notify

import (
	"context"

	"github.com/rs/zerolog"
)

type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "notify").Logger()}
}

func (n *LogNotifier) SendVerificationEmail(_ context.Context, email, name, link string) error {
	n.log.Info().Str("to", email).Str("name", name).Str("link", link).Msg("verification email queued")
	return nil
}

// SendPasswordResetOTP never logs the code itself.
func (n *LogNotifier) SendPasswordResetOTP(_ context.Context, email, name, _ string) error {
	n.log.Info().Str("to", email).Str("name", name).Msg("password reset code queued")
	return nil
}
