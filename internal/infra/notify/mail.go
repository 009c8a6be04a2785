package notify

import (
	"context"

	"github.com/vietddude/nodewatch/internal/core/config"
	"gopkg.in/mail.v2"
)

// Dialer sends prepared messages; *mail.Dialer satisfies it.
type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

// Mail sends alerts over SMTP.
type Mail struct {
	from    string
	to      []string
	subject string
	dialer  Dialer
}

func NewMail(cfg config.MailConfig) *Mail {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &Mail{
		from:    from,
		to:      cfg.To,
		subject: cfg.Subject,
		dialer:  mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (m *Mail) Name() string { return "mail" }

func (m *Mail) Report(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to...)
	msg.SetHeader("Subject", m.subject)
	msg.SetBody("text/plain", message)

	return m.dialer.DialAndSend(msg)
}
