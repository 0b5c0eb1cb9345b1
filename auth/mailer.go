package auth

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Mailer delivers the verification and recovery emails.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes emails to the log instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, body string) error {
	log.Info().Str("to", to).Str("subject", subject).Msg(body)
	return nil
}
