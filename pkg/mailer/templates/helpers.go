package templates

import (
	"strings"
	"time"

	"github.com/oksasatya/recipe-api/config"
)

type Option func(*EmailData)

// WithTime stamps the email with t in UTC.
func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		d.TimeAt = t.UTC()
		d.Time = d.TimeAt.Format("02 January 2006, 15:04")
	}
}

// newEmailData fills the branding fields from cfg. A user without a name is
// greeted by the local part of their address.
func newEmailData(cfg *config.Config, typ, name, email string, opts ...Option) EmailData {
	if strings.TrimSpace(name) == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,
		CompanyName:    cfg.CompanyName,
		AppName:        cfg.AppName,
		AppURL:         strings.TrimRight(cfg.AppURL, "/"),
		SupportURL:     cfg.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(cfg *config.Config, name, email string, opts ...Option) EmailData {
	return newEmailData(cfg, Welcome, name, email, opts...)
}
