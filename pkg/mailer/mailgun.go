package mailer

import (
	"context"
	"errors"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Sender delivers a rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

var ErrNoRecipient = errors.New("mailer: no recipient")

// Mailgun sends through the Mailgun HTTP API.
type Mailgun struct {
	From    string
	Timeout time.Duration
	client  *mg.MailgunImpl
}

// NewMailgun builds a sender for domain. apiBase selects the region
// (e.g. https://api.eu.mailgun.net/v3) and may be empty.
func NewMailgun(domain, apiKey, from, apiBase string) *Mailgun {
	client := mg.NewMailgun(domain, apiKey)
	if apiBase != "" {
		client.SetAPIBase(apiBase)
	}
	return &Mailgun{From: from, Timeout: 10 * time.Second, client: client}
}

func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	if to == "" {
		return ErrNoRecipient
	}
	msg := m.client.NewMessage(m.From, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, m.Timeout)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return err
}
