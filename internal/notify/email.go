// Package notify delivers the clinic's outbound email. Delivery is
// fire-and-forget: a failed send is logged and never surfaces as a booking
// failure.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is a plain-text email bound for the clinic's fixed inbox.
// ReplyTo carries the requester's address so staff can respond directly.
type Message struct {
	Subject string
	Body    string
	ReplyTo string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SendGridSender delivers via the SendGrid API.
type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
	to     *mail.Email
	log    zerolog.Logger
}

type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
	ToEmail   string
}

func NewSendGridSender(cfg SendGridConfig, log zerolog.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.FromEmail),
		to:     mail.NewEmail("", cfg.ToEmail),
		log:    log,
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	m := mail.NewSingleEmail(s.from, msg.Subject, s.to, msg.Body, msg.Body)
	if msg.ReplyTo != "" {
		m.SetReplyTo(mail.NewEmail("", msg.ReplyTo))
	}

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("notify: sendgrid send failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("notify: sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

// LogSender is used when no API key is configured; it only logs.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info().Str("subject", msg.Subject).Str("reply_to", msg.ReplyTo).
		Msg("email sending disabled, dropping message")
	return nil
}
