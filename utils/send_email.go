package utils

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends HTML mail through an SMTP server with PLAIN auth.
type Mailer struct {
	Host     string
	Port     int
	From     string
	Password string
}

// Enabled reports whether SMTP credentials were configured.
func (m *Mailer) Enabled() bool {
	return m != nil && m.Host != "" && m.From != ""
}

func (m *Mailer) SendEmail(to, subject, body string) error {
	if !m.Enabled() {
		return nil
	}

	var msg strings.Builder
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	fmt.Fprintf(&msg, "From: %s\r\n", m.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("\r\n" + body)

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	err := smtp.SendMail(
		addr,
		smtp.PlainAuth("", m.From, m.Password, m.Host),
		m.From,
		[]string{to},
		[]byte(msg.String()),
	)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
