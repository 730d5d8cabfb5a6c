package mailer

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"groupplan/internal/config"
)

// Mailer is the outbound email boundary. Delivery mechanics are out of
// the domain's hands; callers only get a success indicator.
type Mailer interface {
	Send(to, subject, text, html string) error
	SendPasswordResetEmail(to, tempPassword string) error
}

// SMTPMailer delivers through a configured SMTP relay via gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.SMTPFrom,
	}
}

func (m *SMTPMailer) Send(to, subject, text, html string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", text)
	if html != "" {
		msg.AddAlternative("text/html", html)
	}
	return m.dialer.DialAndSend(msg)
}

func (m *SMTPMailer) SendPasswordResetEmail(to, tempPassword string) error {
	text := fmt.Sprintf(
		"Your password was reset.\n\nTemporary password: %s\n\nPlease log in and change it immediately.",
		tempPassword,
	)
	html := fmt.Sprintf(
		"<p>Your password was reset.</p><p>Temporary password: <strong>%s</strong></p><p>Please log in and change it immediately.</p>",
		tempPassword,
	)
	return m.Send(to, "Your temporary password", text, html)
}

// LogMailer stands in when SMTP is not configured; it logs instead of
// sending, so development environments work without a relay.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(to, subject, text, html string) error {
	m.log.Info("mail suppressed (no SMTP configured)",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}

func (m *LogMailer) SendPasswordResetEmail(to, tempPassword string) error {
	return m.Send(to, "Your temporary password", "", "")
}

// FromConfig picks the SMTP mailer when a host is configured and the
// logging fallback otherwise.
func FromConfig(cfg *config.Config, log *zap.Logger) Mailer {
	if cfg.SMTPHost == "" {
		return NewLogMailer(log)
	}
	return NewSMTPMailer(cfg)
}
