package mailer

import (
	"errors"
	"os"

	"github.com/odilorg/invoiceflow-saas-sub000/utils"

	"gopkg.in/gomail.v2"
)

// Sender delivers one rendered reminder email.
type Sender interface {
	Send(to, subject, body string) error
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSenderFromEnv builds a sender from SMTP_HOST/PORT/USER/PASSWORD/FROM.
// Returns an error when SMTP_HOST is unset so callers can run without a
// mailer (e.g. local development).
func NewSMTPSenderFromEnv() (*SMTPSender, error) {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil, errors.New("SMTP_HOST not set")
	}
	port := utils.ParseIntDefault(os.Getenv("SMTP_PORT"), 587)
	user := os.Getenv("SMTP_USER")
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = user
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, user, os.Getenv("SMTP_PASSWORD")),
		from:   from,
	}, nil
}

func (s *SMTPSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}
