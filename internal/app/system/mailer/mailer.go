// internal/app/system/mailer/mailer.go
package mailer

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Email is one message with a text and an HTML alternative.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender is what handlers depend on.
type Sender interface {
	Send(e Email) error
}

// Config holds SMTP settings. An empty Host disables delivery.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
}

// Mailer delivers Email over SMTP.
type Mailer struct {
	cfg  Config
	log  *zap.Logger
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

var ErrNoRecipient = errors.New("mailer: no recipient")

// New returns a Mailer for cfg.
func New(cfg Config, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: logger, send: smtp.SendMail}
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool { return m != nil && m.cfg.Host != "" }

// Send delivers e. With no SMTP host configured the message is logged and
// dropped.
func (m *Mailer) Send(e Email) error {
	if strings.TrimSpace(e.To) == "" {
		return ErrNoRecipient
	}
	if !m.Enabled() {
		if m != nil && m.log != nil {
			m.log.Info("mail delivery disabled, message dropped",
				zap.String("to", e.To), zap.String("subject", e.Subject))
		}
		return nil
	}

	msg, err := m.build(e)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	if err := m.send(addr, auth, m.cfg.From, []string{e.To}, msg); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", e.To, err)
	}
	return nil
}

func (m *Mailer) build(e Email) ([]byte, error) {
	boundary := "patrohub-" + uuid.NewString()
	from := m.cfg.From
	if m.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", m.cfg.FromName), m.cfg.From)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", e.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", e.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	for _, part := range []struct{ ctype, body string }{
		{"text/plain", e.TextBody},
		{"text/html", e.HTMLBody},
	} {
		if part.body == "" {
			continue
		}
		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		fmt.Fprintf(&buf, "Content-Type: %s; charset=utf-8\r\n", part.ctype)
		buf.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")
		qp := quotedprintable.NewWriter(&buf)
		if _, err := qp.Write([]byte(part.body)); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
		buf.WriteString("\r\n")
	}
	fmt.Fprintf(&buf, "--%s--\r\n", boundary)
	return buf.Bytes(), nil
}
