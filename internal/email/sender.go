// Package email sends broadcast messages through each company's own Gmail
// account, authenticated with the app password from its settings.
package email

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

const (
	gmailHost = "smtp.gmail.com"
	gmailPort = 587
)

// Message is a single outbound email.
type Message struct {
	// FromName is the display name, usually the company name.
	FromName string
	// FromEmail doubles as the SMTP username for Gmail app passwords.
	FromEmail string
	// AppPassword is the company's decrypted Gmail app password.
	AppPassword string
	To          string
	Subject     string
	Body        string
}

// Sender delivers a single email. Implementations are safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NoopSender drops all mail. Used in tests and when sending is disabled.
type NoopSender struct{}

// Send implements Sender.
func (NoopSender) Send(ctx context.Context, msg Message) error {
	return nil
}

// GmailSender implements Sender over the Gmail SMTP submission port with
// per-message credentials.
type GmailSender struct{}

// NewGmailSender creates a Gmail SMTP sender.
func NewGmailSender() *GmailSender {
	return &GmailSender{}
}

// Compile-time check that GmailSender implements Sender.
var _ Sender = (*GmailSender)(nil)

// Send delivers one message. Each call dials a fresh connection because the
// credentials differ per company.
func (s *GmailSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMsg()
	if err := m.FromFormat(msg.FromName, msg.FromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)

	client, err := gomail.NewClient(gmailHost,
		gomail.WithPort(gmailPort),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(msg.FromEmail),
		gomail.WithPassword(msg.AppPassword),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}
