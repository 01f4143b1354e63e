// internal/mailer/mailer.go
//
// One-shot SMTP delivery with classified outcomes.
//
// Context
// -------
// Send delivers exactly one message to exactly one destination and makes
// at most one delivery attempt: no retry, no pooling, one scoped relay
// session per call.  Callers that need fan-out loop over a recipient list
// and call Send per address; a failure for one address never affects
// another call.
//
// Outcome taxonomy
// ----------------
//   - ErrNotConfigured   – required relay settings missing.  A deployment
//     problem; returned before any network activity.
//   - *ValidationError   – destination fails address syntax.  Also caught
//     before any network activity.
//   - *SendError         – the relay refused the connection, the auth, or
//     the message.  Carries the transport diagnostic verbatim.
//   - nil                – the relay acknowledged the message.
//
// Transport security
// ------------------
// `security` selects the session style: "starttls" and "none" go through
// smtp.SendMail (which upgrades opportunistically when the relay
// advertises STARTTLS); "tls" opens an implicit-TLS session and drives
// the SMTP conversation explicitly.
package mailer

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/stationops/truckchecks/internal/metrics"
)

// Config holds the relay settings.  Every field is required; Security must
// be one of "none", "starttls", or "tls".
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Security string
	FromName string // display name on the From header
}

// ErrNotConfigured signals missing relay settings.  Distinct from a send
// failure so operators fix deployment, not code.
var ErrNotConfigured = errors.New("mail transport is not configured")

// ValidationError reports a destination that fails address syntax.  It is
// raised before any network attempt.
type ValidationError struct {
	Address string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid destination address %q", e.Address)
}

// SendError carries the relay's diagnostic for a rejected attempt.
type SendError struct {
	Diagnostic string
}

func (e *SendError) Error() string { return "send rejected: " + e.Diagnostic }

// SMTPSendFunc is the function used for "none"/"starttls" sessions.
// Override in tests.
var SMTPSendFunc = smtp.SendMail

// tlsSendFunc is the implicit-TLS seam; overridden the same way.
var tlsSendFunc = sendImplicitTLS

// valid reports whether every required relay field is present.
func (c Config) valid() bool {
	switch c.Security {
	case "none", "starttls", "tls":
	default:
		return false
	}
	return c.Host != "" && c.Port > 0 && c.Username != "" && c.Password != ""
}

// fromAddress derives the envelope/From address: the configured username
// when it is itself a syntactically valid address, else a synthesized
// no-reply box on the relay host.
func (c Config) fromAddress() string {
	if _, err := mail.ParseAddress(c.Username); err == nil {
		return c.Username
	}
	return "no-reply@" + c.Host
}

// Send delivers subject/htmlBody/plainBody to one destination.  See the
// package comment for the outcome taxonomy.
func Send(cfg Config, dest, subject, htmlBody, plainBody string) error {
	if !cfg.valid() {
		return ErrNotConfigured
	}
	if _, err := mail.ParseAddress(dest); err != nil {
		return &ValidationError{Address: dest}
	}

	from := cfg.fromAddress()
	msg := buildMessage(cfg.FromName, from, dest, subject, htmlBody, plainBody)
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)

	var err error
	if cfg.Security == "tls" {
		err = tlsSendFunc(addr, cfg.Host, auth, from, dest, msg)
	} else {
		err = SMTPSendFunc(addr, auth, from, []string{dest}, msg)
	}
	if err != nil {
		metrics.MailSendErrorsTotal.Inc()
		return &SendError{Diagnostic: err.Error()}
	}

	metrics.MailSentTotal.Inc()
	return nil
}

// buildMessage assembles a multipart/alternative MIME message with the
// plain part first so clients that cannot render HTML fall back cleanly.
func buildMessage(fromName, from, to, subject, htmlBody, plainBody string) []byte {
	const boundary = "tc-alt-boundary"

	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s <%s>\r\n", fromName, from)
	fmt.Fprintf(&sb, "To: %s\r\n", to)
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&sb, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	sb.WriteString("\r\n")

	fmt.Fprintf(&sb, "--%s\r\n", boundary)
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(plainBody)
	sb.WriteString("\r\n")

	fmt.Fprintf(&sb, "--%s\r\n", boundary)
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(htmlBody)
	sb.WriteString("\r\n")

	fmt.Fprintf(&sb, "--%s--\r\n", boundary)
	return []byte(sb.String())
}

// sendImplicitTLS drives one SMTP session over an already-encrypted
// connection (ports like 465 where the relay does not STARTTLS).
func sendImplicitTLS(addr, host string, auth smtp.Auth, from, to string, msg []byte) error {
	conn, err := tls.DialWithDialer(&net.Dialer{Timeout: 10 * time.Second}, "tcp", addr,
		&tls.Config{ServerName: host})
	if err != nil {
		return err
	}

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return err
	}
	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
