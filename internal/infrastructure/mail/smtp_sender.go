package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/craftplace/settlement-service/internal/config"
	"github.com/jordan-wright/email"
)

// SMTPSender implements domain.MailerPort over plain SMTP. Sends are
// fire-and-forget from the reactors' point of view: a failed send is logged
// by the caller and never blocks settlement.
type SMTPSender struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewSMTPSender(cfg config.SMTPService) *SMTPSender {
	return &SMTPSender{
		host: cfg.Host,
		port: cfg.Port,
		user: cfg.User,
		pass: cfg.Pass,
		from: cfg.From,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.user, s.pass, s.host)

	e := email.NewEmail()
	e.From = s.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if err := e.Send(addr, auth); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
