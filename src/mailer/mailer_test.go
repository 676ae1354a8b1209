package mailer

import (
	"errors"
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		From:        "reports@example.com",
		Password:    "secret",
		To:          []string{"oncall@example.com", "lead@example.com"},
		SMTPAddress: "smtp.example.com",
		SMTPPort:    465,
	}
}

// Configuration problems must surface at construction time, not on the
// first handled exception.
func TestNewMailerValidatesEagerly(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing from", func(c *Config) { c.From = "" }, "EMAIL_FROM not set"},
		{"missing password", func(c *Config) { c.Password = "" }, "EMAIL_PASSWORD not set"},
		{"missing recipients", func(c *Config) { c.To = nil }, "EMAIL_TO not set"},
		{"missing server", func(c *Config) { c.SMTPAddress = "" }, "EMAIL_SMTP_ADDRESS not set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			_, err := NewMailer(cfg)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewMailerValidConfig(t *testing.T) {
	if _, err := NewMailer(validConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEmailBody(t *testing.T) {
	m, err := NewMailer(validConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := m.emailBody(errors.New("division by zero"), "REPORT TEXT")

	if !strings.HasPrefix(body, "From: reports@example.com\r\n") {
		t.Fatalf("missing From header:\n%s", body)
	}
	if !strings.Contains(body, "To: oncall@example.com, lead@example.com\r\n") {
		t.Fatalf("missing To header:\n%s", body)
	}
	if !strings.Contains(body, "Subject: [Unexpected Exception]: division by zero") {
		t.Fatalf("missing subject:\n%s", body)
	}
	if !strings.HasSuffix(body, "\r\n\r\nREPORT TEXT") {
		t.Fatalf("report text must be the body:\n%s", body)
	}
}
