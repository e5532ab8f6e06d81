package mailer

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/martinmanurung/cinevault/internal/platform/config"
	"github.com/rs/zerolog/log"
)

// Mailer sends notification mail over plain SMTP with opportunistic
// STARTTLS. With no host configured it becomes a no-op, which keeps
// local development from needing a relay.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		host:     cfg.Host,
		port:     cfg.Port,
		user:     cfg.User,
		password: cfg.Password,
		from:     cfg.From,
	}
}

func (m *Mailer) Enabled() bool {
	return m.host != ""
}

// Send delivers a single HTML mail to the recipient.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	if !m.Enabled() {
		log.Warn().Str("to", to).Str("subject", subject).Msg("SMTP not configured, dropping mail")
		return nil
	}

	headers := []string{
		fmt.Sprintf("From: %s", m.from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="utf-8"`,
	}

	body := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody + "\r\n"

	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	// STARTTLS
	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{ServerName: m.host}
		if err := client.StartTLS(tlsConfig); err != nil {
			log.Warn().Err(err).Msg("smtp starttls failed, continuing without")
		}
	}

	// Auth
	if m.user != "" {
		auth := smtp.PlainAuth("", m.user, m.password, m.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(body)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}

	return client.Quit()
}
