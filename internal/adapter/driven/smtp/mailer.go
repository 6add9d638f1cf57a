// Package smtp implements the Mailer port over plain SMTP.
package smtp

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"github.com/chatgate/chatgate/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Mailer = (*Mailer)(nil)

// Mailer delivers issued API keys by email. Delivery is best effort: the
// issuance flow logs and swallows mailer errors.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string

	// send is swapped out in tests; production uses smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer creates a Mailer for the given SMTP server. username may be
// empty for servers that accept unauthenticated submission.
func NewMailer(host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		send:     smtp.SendMail,
	}
}

// SendAPIKey emails a freshly issued API key to its account owner. net/smtp
// does not take a context; ctx is honored only for early cancellation.
func (m *Mailer) SendAPIKey(ctx context.Context, toEmail, apiKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))
	msg := buildMessage(m.from, toEmail, apiKey)

	if err := m.send(addr, auth, m.from, []string{toEmail}, msg); err != nil {
		return fmt.Errorf("send api key mail to %q: %w", toEmail, err)
	}
	return nil
}

// buildMessage renders the RFC 5322 message carrying the API key.
func buildMessage(from, to, apiKey string) []byte {
	return []byte("From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: Your chatgate API key\r\n" +
		"\r\n" +
		"Thanks for subscribing!\r\n" +
		"\r\n" +
		"Your API key is: " + apiKey + "\r\n" +
		"\r\n" +
		"Send it in the X-API-KEY header of your /api/chat requests.\r\n")
}
