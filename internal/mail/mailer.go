// Package mail delivers transactional email over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"

	"github.com/filmstack/filmstack/internal/config"
)

// Sender delivers a verification token to a user's mailbox.
type Sender interface {
	SendVerificationToken(ctx context.Context, to, token string) error
}

// Mailer sends email through an SMTP relay.
type Mailer struct {
	client *gomail.Client
	from   string
}

// NewMailer creates a Mailer from the SMTP settings in the config.
func NewMailer(cfg *config.Config) (*Mailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.SMTPPort),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}

	if cfg.SMTPUsername != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.SMTPUsername),
			gomail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := gomail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &Mailer{client: client, from: cfg.MailFrom}, nil
}

// SendVerificationToken emails the short-lived email-verification token.
func (m *Mailer) SendVerificationToken(ctx context.Context, to, token string) error {
	msg := gomail.NewMsg()

	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}

	msg.Subject("Confirm your email address")
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(
		"Use the token below to confirm your email address.\n\n%s\n\nThe token expires in 15 minutes. If you did not request this, ignore this message.\n",
		token,
	))

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send verification mail: %w", err)
	}

	return nil
}

// LogSender is a Sender for environments without an SMTP relay.
// It logs the delivery instead of sending it. Development only.
type LogSender struct {
	Logger *slog.Logger
}

// SendVerificationToken logs the token instead of delivering it.
func (s *LogSender) SendVerificationToken(ctx context.Context, to, token string) error {
	s.Logger.Info("mail transport not configured, logging verification token",
		slog.String("to", to),
		slog.String("token", token),
	)
	return nil
}
