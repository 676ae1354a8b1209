// Package mailer emails finished error reports to a configured recipient
// list. It is a downstream consumer of report text and does network I/O
// only; a delivery failure never touches the report that was already logged.
package mailer

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/smtp"
	"os"
	"os/user"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
)

// Mailer sends error reports over SMTP with implicit TLS. Configuration is
// validated once at construction so a missing credential surfaces long
// before the first exception is handled.
type Mailer struct {
	config Config
}

// NewMailer validates the config eagerly and fails fast on anything
// incomplete.
func NewMailer(config Config) (*Mailer, error) {
	if config.From == "" {
		return nil, errors.New("mailer: EMAIL_FROM not set")
	}
	if config.Password == "" {
		return nil, errors.New("mailer: EMAIL_PASSWORD not set")
	}
	if len(config.To) == 0 {
		return nil, errors.New("mailer: EMAIL_TO not set")
	}
	if config.SMTPAddress == "" {
		return nil, errors.New("mailer: EMAIL_SMTP_ADDRESS not set")
	}
	return &Mailer{config: config}, nil
}

// HandleReport adapts Send to the catcher's report handler contract.
// Delivery failures are logged and swallowed.
func (m *Mailer) HandleReport(exc error, reportText string) {
	if err := m.Send(exc, reportText); err != nil {
		logger.WithError(err).Error("Error sending error report e-mail.")
	}
}

// Send delivers the report by email.
func (m *Mailer) Send(exc error, reportText string) error {
	body := m.emailBody(exc, reportText)

	addr := fmt.Sprintf("%s:%d", m.config.SMTPAddress, m.config.SMTPPort)
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.config.SMTPAddress})
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}

	client, err := smtp.NewClient(conn, m.config.SMTPAddress)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to start SMTP session: %w", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", m.config.From, m.config.Password, m.config.SMTPAddress)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth failed: %w", err)
	}

	if err := client.Mail(m.config.From); err != nil {
		return fmt.Errorf("MAIL FROM rejected: %w", err)
	}
	for _, to := range m.config.To {
		if err := client.Rcpt(to); err != nil {
			return fmt.Errorf("RCPT TO %s rejected: %w", to, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA rejected: %w", err)
	}
	if _, err := w.Write([]byte(body)); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish email body: %w", err)
	}

	return client.Quit()
}

// emailBody assembles headers and body. Subject carries the failure message
// plus enough host context to tell installations apart.
func (m *Mailer) emailBody(exc error, reportText string) string {
	timestamp := time.Now().Format("15-04-05")
	hostname, _ := os.Hostname()
	login := userLogin()

	subject := fmt.Sprintf("[Unexpected Exception]: %v %s %s %s", exc, login, hostname, timestamp)
	return fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.config.From, strings.Join(m.config.To, ", "), subject, reportText)
}

func userLogin() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
