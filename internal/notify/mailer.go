package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Message is a single outbound email.
type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

// Mailer sends one email. Implementations should honour ctx cancellation.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// ResendMailer sends through the Resend HTTP API.
type ResendMailer struct {
	client *resend.Client
}

// NewResendMailer builds a mailer authenticated with apiKey.
func NewResendMailer(apiKey string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey)}
}

// Send implements Mailer.
func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	req := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	}
	if _, err := m.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

// LogMailer writes emails to the log instead of sending them. It is used
// when no provider key is configured, e.g. in local development.
type LogMailer struct {
	Logger zerolog.Logger
}

// Send implements Mailer.
func (m LogMailer) Send(_ context.Context, msg Message) error {
	m.Logger.Info().
		Str("from", msg.From).
		Str("to", strings.Join(msg.To, ",")).
		Str("subject", msg.Subject).
		Int("html_bytes", len(msg.HTML)).
		Msg("email not sent: no provider configured")
	return nil
}
