package notify

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// SMTPConfig carries mail transport settings. An empty host switches the
// mailer to simulated sends.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends plain-text email over SMTP with PLAIN auth.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer creates a mailer from explicit config.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers one message. The context is accepted for interface symmetry;
// net/smtp has no cancellation hook.
func (m *SMTPMailer) Send(_ context.Context, to, subject, body string) error {
	if m.cfg.Host == "" {
		log.Printf("email simulated (smtp not configured) to=%s subject=%q", to, subject)
		return nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", to, err)
	}
	log.Printf("email sent to %s", to)
	return nil
}
