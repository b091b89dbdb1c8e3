// Package notify emails rendered certificates.
package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/nordicmaskin/kma/config"
	"github.com/wneessen/go-mail"
)

const (
	defaultPort       = 587
	defaultSenderName = "KMA App"
	contentTypePDF    = mail.ContentType("application/pdf")
)

// Mailer sends one message per call over its own SMTP session:
// connect, STARTTLS, authenticate, send, close. Sessions are not pooled.
type Mailer struct {
	host        string
	port        int
	username    string
	password    string
	senderEmail string
	senderName  string
}

// NewMailer constructs a Mailer from config, applying the defaults for
// port, sender address and sender name.
func NewMailer(cfg config.SMTPConfig) (*Mailer, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("smtp host is required")
	}

	m := &Mailer{
		host:        cfg.Host,
		port:        cfg.Port,
		username:    cfg.User,
		password:    cfg.Password,
		senderEmail: cfg.SenderEmail,
		senderName:  cfg.SenderName,
	}
	if m.port == 0 {
		m.port = defaultPort
	}
	if strings.TrimSpace(m.senderEmail) == "" {
		m.senderEmail = m.username
	}
	if strings.TrimSpace(m.senderName) == "" {
		m.senderName = defaultSenderName
	}
	return m, nil
}

// Send mails body and one PDF attachment to recipients. The recipient
// list must not be empty; callers skip the send instead.
func (m *Mailer) Send(ctx context.Context, recipients []string, subject, body string, attachment []byte, filename string) error {
	msg, err := m.BuildMessage(recipients, subject, body, attachment, filename)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
	)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// BuildMessage assembles the message without sending it.
func (m *Mailer) BuildMessage(recipients []string, subject, body string, attachment []byte, filename string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.senderName, m.senderEmail); err != nil {
		return nil, err
	}
	if err := msg.To(recipients...); err != nil {
		return nil, err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	msg.AttachReadSeeker(filename, bytes.NewReader(attachment), mail.WithFileContentType(contentTypePDF))
	return msg, nil
}
