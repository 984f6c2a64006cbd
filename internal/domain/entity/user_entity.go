package entity

import (
	"errors"
	"strings"
	"time"
)

var ErrEmailRequired = errors.New("email is required")

// User is the aggregate root for the identity domain
// Passwords are stored as bcrypt hashes in Password field
type User struct {
	ID          string
	Email       string
	Password    string
	Name        string
	IsActive    bool
	IsStaff     bool
	IsSuperuser bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewUser builds an active user with a lower-cased email.
// passwordHash must already be hashed.
func NewUser(email, passwordHash, name string) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	return &User{
		Email:    email,
		Password: passwordHash,
		Name:     strings.TrimSpace(name),
		IsActive: true,
	}, nil
}

// NewSuperuser is NewUser with staff and superuser flags set.
func NewSuperuser(email, passwordHash, name string) (*User, error) {
	u, err := NewUser(email, passwordHash, name)
	if err != nil {
		return nil, err
	}
	u.IsStaff = true
	u.IsSuperuser = true
	return u, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
