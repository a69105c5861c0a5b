package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

// SMTPConfig holds the relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	BaseURL  string
}

// SMTPMailer sends through a plain SMTP relay with PLAIN auth.
type SMTPMailer struct {
	cfg    SMTPConfig
	auth   smtp.Auth
	logger *slog.Logger

	// send is smtp.SendMail; tests swap it out.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg SMTPConfig, logger *slog.Logger) *SMTPMailer {
	var a smtp.Auth
	if cfg.Username != "" {
		a = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPMailer{cfg: cfg, auth: a, logger: logger, send: smtp.SendMail}
}

func (m *SMTPMailer) Send(ctx context.Context, to string, kind Kind, payload Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := Render(m.cfg.BaseURL, to, kind, payload)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	if err := m.send(addr, m.auth, m.cfg.From, []string{to}, m.encode(msg)); err != nil {
		return fmt.Errorf("mail: sending %s to %s: %w", kind, to, err)
	}

	m.logger.Info("mail sent", slog.String("kind", string(kind)), slog.String("to", to))
	return nil
}

// encode writes the RFC 5322 headers followed by the HTML body.
func (m *SMTPMailer) encode(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}

// LogMailer renders messages and logs them instead of sending. It is used
// when no SMTP host is configured.
type LogMailer struct {
	baseURL string
	logger  *slog.Logger
}

func NewLogMailer(baseURL string, logger *slog.Logger) *LogMailer {
	return &LogMailer{baseURL: baseURL, logger: logger}
}

func (m *LogMailer) Send(_ context.Context, to string, kind Kind, payload Payload) error {
	msg, err := Render(m.baseURL, to, kind, payload)
	if err != nil {
		return err
	}
	m.logger.Info("mail not sent, no SMTP host configured",
		slog.String("kind", string(kind)),
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("code", payload.Code),
	)
	return nil
}
