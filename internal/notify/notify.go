// Package notify delivers gift exchange assignments to participants.
package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/google/logger"

	"secretsanta/internal/models"
)

// DefaultSubject is used when no subject template is configured.
// "{name}" is replaced with the giver's name.
const DefaultSubject = "Secret Santa Assignment For {name}"

var (
	// ErrUnassigned is returned when a participant has no recipient yet.
	ErrUnassigned = errors.New("participant has no recipient")
	// ErrHeaderInjection is returned when an address would break the mail headers.
	ErrHeaderInjection = errors.New("line break in mail header")
)

// Dispatcher sends a participant their assignment.
type Dispatcher interface {
	Send(ctx context.Context, giver *models.Participant) error
}

// Message is a composed assignment notification.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Compose builds the notification for giver. The body is HTML.
func Compose(giver *models.Participant, subject string) (Message, error) {
	if giver.Recipient == nil {
		return Message{}, fmt.Errorf("%w: %s", ErrUnassigned, giver.Name)
	}
	if subject == "" {
		subject = DefaultSubject
	}
	body := fmt.Sprintf("%s's assignment is: %s <br><br>%s",
		html.EscapeString(giver.Name),
		html.EscapeString(giver.Recipient.Name),
		html.EscapeString(giver.Recipient.Message))
	return Message{
		To:      giver.Email,
		Subject: strings.ReplaceAll(subject, "{name}", giver.Name),
		Body:    body,
	}, nil
}

// DispatchAll sends every participant their assignment. Nothing is sent
// unless every participant has a recipient. Failed sends do not stop the
// remaining ones; all failures are returned together.
func DispatchAll(ctx context.Context, d Dispatcher, people []*models.Participant) error {
	for _, p := range people {
		if p.Recipient == nil {
			return fmt.Errorf("%w: %s", ErrUnassigned, p.Name)
		}
	}

	var errs []error
	for _, p := range people {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.Send(ctx, p); err != nil {
			logger.Errorf("Failed to notify %s <%s>: %v", p.Name, p.Email, err)
			errs = append(errs, fmt.Errorf("notify %s: %w", p.Name, err))
			continue
		}
		logger.Infof("Notified %s <%s>", p.Name, p.Email)
	}
	return errors.Join(errs...)
}

// SMTPDispatcher sends assignments by email. The connection is upgraded
// with STARTTLS when the server offers it.
type SMTPDispatcher struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Subject  string

	// send is smtp.SendMail outside of tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPDispatcher creates an SMTPDispatcher.
func NewSMTPDispatcher(host string, port int, username, password, from, subject string) *SMTPDispatcher {
	return &SMTPDispatcher{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		Subject:  subject,
		send:     smtp.SendMail,
	}
}

func (d *SMTPDispatcher) Send(ctx context.Context, giver *models.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := Compose(giver, d.Subject)
	if err != nil {
		return err
	}
	if msg.To == "" {
		return fmt.Errorf("no email address for %s", giver.Name)
	}
	if strings.ContainsAny(msg.To, "\r\n") || strings.ContainsAny(d.From, "\r\n") {
		return fmt.Errorf("%w: address of %s", ErrHeaderInjection, giver.Name)
	}

	var auth smtp.Auth
	if d.Username != "" {
		auth = smtp.PlainAuth("", d.Username, d.Password, d.Host)
	}
	addr := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	return d.send(addr, auth, d.From, []string{msg.To}, d.render(msg))
}

func (d *SMTPDispatcher) render(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", d.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	// Names may be non-ASCII or carry line breaks; an encoded-word keeps both inside the header.
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// WriterDispatcher writes composed messages to W instead of sending them.
type WriterDispatcher struct {
	W       io.Writer
	Subject string
}

func (d *WriterDispatcher) Send(_ context.Context, giver *models.Participant) error {
	msg, err := Compose(giver, d.Subject)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(d.W, "To: %s\nSubject: %s\n\n%s\n\n", msg.To, msg.Subject, msg.Body)
	return err
}
