package mailer

import (
	"errors"

	"gopkg.in/gomail.v2"

	"csmanager_backend/internals/configs"
)

var ErrNotConfigured = errors.New("mailer: SMTP_HOST is not configured")

// Send delivers a plaintext mail from the fixed from-address.
func Send(to, subject, body string) error {
	if configs.SMTPHost == "" {
		return ErrNotConfigured
	}

	m := gomail.NewMessage()
	m.SetHeader("From", configs.MailFrom)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(configs.SMTPHost, configs.SMTPPort, configs.SMTPUser, configs.SMTPPassword)
	return d.DialAndSend(m)
}
