// Package mailer sends transactional email through SendGrid.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"learnly/config"
	"learnly/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// ErrDisabled is returned when no SendGrid key is configured.
var ErrDisabled = errors.New("mailer: disabled")

type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Default is the process-wide mailer used by controllers and jobs.
var Default Mailer = Disabled{}

// Init installs a SendGrid mailer when an API key is configured.
func Init(cfg *config.Config) {
	if cfg.SendgridAPIKey == "" {
		Default = Disabled{}
		return
	}
	Default = NewSendGrid(cfg.SendgridAPIKey, cfg.EmailSender, cfg.EmailSenderName)
}

type SendGrid struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendGrid(apiKey, fromEmail, fromName string) *SendGrid {
	return &SendGrid{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	if msg.ToEmail == "" {
		return errors.New("mailer: recipient required")
	}
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	email := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)

	resp, err := s.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}

	logger.Log.Info("email sent", "to_email", msg.ToEmail, "subject", msg.Subject)
	return nil
}

type Disabled struct{}

func (Disabled) Send(context.Context, Message) error {
	return ErrDisabled
}
