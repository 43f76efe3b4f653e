package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/recruitdesk/apiserver/config"
	"github.com/wneessen/go-mail"
)

// Message kinds, used as a metrics label.
const (
	KindOfferAccepted = "offer_accepted"
	KindOfferRejected = "offer_rejected"
	KindPasswordReset = "password_reset"
)

// Attachment is a file sent alongside a message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is a single outbound email.
type Message struct {
	Kind        string
	To          string
	ReplyTo     string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Mailer delivers messages to recipients.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends mail through an authenticated SMTP relay.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	tls      mail.TLSPolicy
}

func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("smtp host is required")
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, errors.New("smtp from address is required")
	}
	return &SMTPMailer{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
		tls:      tlsPolicy(cfg.TLSPolicy),
	}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	email, err := buildMessage(m.from, msg)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(m.port),
		mail.WithTLSPortPolicy(m.tls),
	}
	if m.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.username),
			mail.WithPassword(m.password),
		)
	}

	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, email); err != nil {
		return fmt.Errorf("send %s mail: %w", msg.Kind, err)
	}
	return nil
}

func tlsPolicy(name string) mail.TLSPolicy {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none":
		return mail.NoTLS
	case "opportunistic":
		return mail.TLSOpportunistic
	default:
		return mail.TLSMandatory
	}
}

func buildMessage(from string, msg Message) (*mail.Msg, error) {
	if strings.TrimSpace(msg.To) == "" {
		return nil, errors.New("recipient is required")
	}

	email := mail.NewMsg()
	if err := email.From(from); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := email.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := email.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to address: %w", err)
		}
	}
	email.Subject(msg.Subject)

	switch {
	case msg.Text != "" && msg.HTML != "":
		email.SetBodyString(mail.TypeTextPlain, msg.Text)
		email.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		email.SetBodyString(mail.TypeTextHTML, msg.HTML)
	default:
		email.SetBodyString(mail.TypeTextPlain, msg.Text)
	}

	for _, att := range msg.Attachments {
		var opts []mail.FileOption
		if att.ContentType != "" {
			opts = append(opts, mail.WithFileContentType(mail.ContentType(att.ContentType)))
		}
		if err := email.AttachReader(att.Filename, bytes.NewReader(att.Data), opts...); err != nil {
			return nil, fmt.Errorf("attach %s: %w", att.Filename, err)
		}
	}
	return email, nil
}

// ObserverFunc is told the outcome of every send.
type ObserverFunc func(kind string, err error)

type observedMailer struct {
	next    Mailer
	observe ObserverFunc
}

// WithObserver wraps a mailer so each send outcome is reported to observe.
func WithObserver(next Mailer, observe ObserverFunc) Mailer {
	if observe == nil {
		return next
	}
	return &observedMailer{next: next, observe: observe}
}

func (m *observedMailer) Send(ctx context.Context, msg Message) error {
	err := m.next.Send(ctx, msg)
	m.observe(msg.Kind, err)
	return err
}

// DisabledMailer rejects every message. It stands in when SMTP is not configured.
type DisabledMailer struct{}

func (DisabledMailer) Send(context.Context, Message) error {
	return errors.New("email delivery is not configured")
}
