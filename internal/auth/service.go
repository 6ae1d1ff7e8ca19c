package auth

import (
	"context"
	"strings"
	"time"

	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/chatsyncd/internal/db"
	apperrors "github.com/iamwavecut/chatsyncd/internal/errors"
)

type Store interface {
	CreateUser(ctx context.Context, user *db.User) (*db.User, error)
	GetUserByLogin(ctx context.Context, username, phone string) (*db.User, error)
	TouchLastActive(ctx context.Context, userID int64, at time.Time) error
	CreateSession(ctx context.Context, session *db.Session) error
	GetSession(ctx context.Context, token string) (*db.Session, error)
	GetUser(ctx context.Context, id int64) (*db.User, error)
}

// Service implements register-or-login and the explicit session token store
// that replaces client-side session state.
type Service struct {
	store      Store
	sessionTTL time.Duration
}

func NewService(store Store, sessionTTL time.Duration) *Service {
	return &Service{store: store, sessionTTL: sessionTTL}
}

// Login finds the user by username or phone, registering them on first
// contact. Blocked accounts are rejected with the block reason attached.
// The returned token identifies the session on later requests.
func (s *Service) Login(ctx context.Context, username, phone, displayName string) (*db.User, string, bool, error) {
	username = strings.TrimSpace(username)
	phone = strings.TrimSpace(phone)
	displayName = strings.TrimSpace(displayName)
	if username == "" || phone == "" || displayName == "" {
		return nil, "", false, errors.Wrap(apperrors.ErrValidation, "username, phone and display_name are required")
	}

	user, err := s.store.GetUserByLogin(ctx, username, phone)
	if err != nil {
		return nil, "", false, err
	}

	created := false
	if user == nil {
		user, err = s.store.CreateUser(ctx, &db.User{
			Username:    username,
			Phone:       phone,
			DisplayName: displayName,
		})
		if err != nil {
			return nil, "", false, err
		}
		created = true
		log.WithField("user_id", user.ID).Info("user registered")
	}

	if user.IsBlocked {
		reason := ""
		if user.BlockedReason != nil {
			reason = *user.BlockedReason
		}
		return nil, "", false, errors.Wrap(apperrors.ErrBlocked, reason)
	}

	now := time.Now().UTC()
	if err := s.store.TouchLastActive(ctx, user.ID, now); err != nil {
		return nil, "", false, err
	}

	session := &db.Session{
		Token:     uuid.New(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, "", false, err
	}
	return user, session.Token, created, nil
}

// Resolve maps a session token back to its user.
func (s *Service) Resolve(ctx context.Context, token string) (*db.User, error) {
	session, err := s.store.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil || time.Now().After(session.ExpiresAt) {
		return nil, errors.Wrap(apperrors.ErrUnauthorized, "invalid session")
	}
	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.Wrap(apperrors.ErrUnauthorized, "session user gone")
	}
	return user, nil
}
