// Package mail contains the notification transports.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

// SMTP sends plain text emails.
type SMTP struct {
	Host     string
	Port     int
	Username string // no authentication if empty
	Password string
	From     string
}

func (s *SMTP) newMsg(to, subject, body string) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(s.From); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(subject)
	m.SetBodyString(gomail.TypeTextPlain, body)
	return m, nil
}

func (s *SMTP) client() (*gomail.Client, error) {
	var opts = []gomail.Option{
		gomail.WithPort(s.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if s.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.Username),
			gomail.WithPassword(s.Password),
		)
	}
	return gomail.NewClient(s.Host, opts...)
}

// Send dials the server for each message. Notifications are rare, so there is no connection pool.
func (s *SMTP) Send(ctx context.Context, to, subject, body string) error {
	m, err := s.newMsg(to, subject, body)
	if err != nil {
		return err
	}
	c, err := s.client()
	if err != nil {
		return err
	}
	return c.DialAndSendWithContext(ctx, m)
}

// Log writes notifications to a logger instead of sending them. It is used when no mail server is configured.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Send(ctx context.Context, to, subject, body string) error {
	l.Logger.InfoContext(ctx, "notification", "to", to, "subject", subject, "body", body)
	return nil
}
