package entity

import "time"

// Session is the server-side record behind an issued token pair.
// A token is only honoured while its session id matches the stored one.
type Session struct {
	UserID    string
	SessionID string
	Email     string
	Name      string
	CreatedAt time.Time
}
