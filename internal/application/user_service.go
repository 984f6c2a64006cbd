package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipe-api/config"
	"github.com/oksasatya/recipe-api/internal/domain/entity"
	repo "github.com/oksasatya/recipe-api/internal/domain/repository"
	"github.com/oksasatya/recipe-api/pkg/helpers"
	"github.com/oksasatya/recipe-api/pkg/mailer"
	mailtpl "github.com/oksasatya/recipe-api/pkg/mailer/templates"
)

type UserService struct {
	Repo     repo.UserRepository
	Sessions repo.SessionRepository
	JWT      *helpers.JWTManager
	Mail     EmailPublisher
	Cfg      *config.Config
	Logger   *logrus.Logger
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func NewUserService(users repo.UserRepository, sessions repo.SessionRepository, jwt *helpers.JWTManager, mail EmailPublisher, cfg *config.Config, logger *logrus.Logger) *UserService {
	return &UserService{Repo: users, Sessions: sessions, JWT: jwt, Mail: mail, Cfg: cfg, Logger: logger}
}

// CreateUser registers an active user with a lower-cased email and queues a welcome email.
func (s *UserService) CreateUser(ctx context.Context, email, password, name string) (*entity.User, error) {
	u, err := s.create(ctx, email, password, name, entity.NewUser)
	if err != nil {
		return nil, err
	}
	s.sendWelcome(ctx, u)
	return u, nil
}

// CreateSuperuser registers a staff superuser. No email is sent.
func (s *UserService) CreateSuperuser(ctx context.Context, email, password, name string) (*entity.User, error) {
	return s.create(ctx, email, password, name, entity.NewSuperuser)
}

func (s *UserService) create(ctx context.Context, email, password, name string, build func(email, hash, name string) (*entity.User, error)) (*entity.User, error) {
	if entity.NormalizeEmail(email) == "" {
		return nil, invalid("email", "is required")
	}
	if err := helpers.ValidatePassword(password); err != nil {
		return nil, passwordError()
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u, err := build(email, hash, name)
	if errors.Is(err, entity.ErrEmailRequired) {
		return nil, invalid("email", "is required")
	}
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil || u == nil || !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates and opens a fresh session, replacing any previous one.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// IssueTokens generates access/refresh tokens bound to a new session id and stores the session.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}
	if s.Sessions != nil {
		sess := entity.Session{UserID: u.ID, SessionID: sid, Email: u.Email, Name: u.Name, CreatedAt: time.Now()}
		if err := s.Sessions.Save(ctx, sess, s.sessionTTL()); err != nil {
			return TokenPair{}, fmt.Errorf("save session: %w", err)
		}
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh rotates the session: the old token pair stops working.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil || !u.IsActive {
		return TokenPair{}, ErrInvalidCredentials
	}
	if s.Sessions != nil {
		sess, err := s.Sessions.Get(ctx, u.ID)
		if err != nil || sess.SessionID != claims.SessionID {
			return TokenPair{}, ErrInvalidCredentials
		}
	}
	return s.IssueTokens(ctx, u)
}

func (s *UserService) Logout(ctx context.Context, userID string) error {
	if s.Sessions == nil {
		return nil
	}
	return s.Sessions.Delete(ctx, userID)
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	return u, err
}

// UpdateProfileInput holds optional changes; nil fields are left alone.
type UpdateProfileInput struct {
	Email    *string
	Password *string
	Name     *string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := entity.NormalizeEmail(*in.Email)
		if email == "" {
			return nil, invalid("email", "is required")
		}
		u.Email = email
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Password != nil {
		if err := helpers.ValidatePassword(*in.Password); err != nil {
			return nil, passwordError()
		}
		hash, err := helpers.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		u.Password = hash
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.refreshSession(ctx, u)
	return u, nil
}

// refreshSession copies profile changes into the live session, keeping its id.
func (s *UserService) refreshSession(ctx context.Context, u *entity.User) {
	if s.Sessions == nil {
		return
	}
	sess, err := s.Sessions.Get(ctx, u.ID)
	if err != nil {
		return
	}
	sess.Email, sess.Name = u.Email, u.Name
	if err := s.Sessions.Save(ctx, *sess, s.sessionTTL()); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("session refresh failed")
	}
}

func passwordError() error {
	return invalid("password", fmt.Sprintf("must be at least %d characters long", helpers.MinPasswordLength))
}

func (s *UserService) sessionTTL() time.Duration {
	if s.Cfg != nil && s.Cfg.SessionTTL > 0 {
		return s.Cfg.SessionTTL
	}
	return 24 * time.Hour
}

func (s *UserService) sendWelcome(ctx context.Context, u *entity.User) {
	if s.Mail == nil || s.Cfg == nil || !s.Cfg.MailSendEnabled {
		return
	}
	data := mailtpl.NewWelcomeData(s.Cfg, u.Name, u.Email, mailtpl.WithTime(time.Now()))
	job := mailer.EmailJob{To: u.Email, Template: mailtpl.Welcome, Data: mailtpl.ToMap(data)}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.Mail.PublishJSON(c, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("publish welcome email failed")
	}
}
