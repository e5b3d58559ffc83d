// Package notify delivers relationship events outside the HTTP API.
package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"
)

// EmailSender sends a single HTML e-mail.
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

type resendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender returns an EmailSender backed by the Resend API. from must
// be an address on a domain verified with Resend.
func NewResendSender(apiKey, from string) EmailSender {
	return &resendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (s *resendSender) Send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
