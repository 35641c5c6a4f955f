package mailer

import (
	"fmt"
	"log"
	"strings"

	"crm-backend/internal/config"

	"gopkg.in/gomail.v2"
)

// Mailer verschickt ausgehende Mails. Der Versand ist best effort: der
// Aufrufer entscheidet, ob ein Fehler den Ablauf stoppen darf.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer verschickt über das konfigurierte SMTP-Konto.
type SMTPMailer struct {
	cfg *config.Config
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.cfg.MailUser == "" || m.cfg.MailHost == "" {
		return fmt.Errorf("MAIL_USER nicht gesetzt, Versand deaktiviert")
	}
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("leerer Empfänger")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.MailSender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.cfg.MailHost, m.cfg.MailPort, m.cfg.MailUser, m.cfg.MailPass)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("mail senden: %w", err)
	}
	return nil
}

// LogMailer schreibt Mails nur ins Log. Wird in Tests und als Fallback
// verwendet, wenn kein SMTP-Konto konfiguriert ist.
type LogMailer struct{}

func (LogMailer) Send(to, subject, body string) error {
	log.Printf("[MAIL] an=%s betreff=%q\n%s", to, subject, body)
	return nil
}
