package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cardapio/internal/kvstore"
	"cardapio/internal/model"
)

const (
	sessionKey        = "current"
	DefaultSessionTTL = 24 * time.Hour
)

var ErrNoActiveSession = errors.New("no active session")

// SessionRepository keeps the single login record of the device.
type SessionRepository interface {
	Save(ctx context.Context, user model.User) (*model.Session, error)
	Current(ctx context.Context) (*model.Session, error)
	Clear(ctx context.Context) error
	IsActive(ctx context.Context) (bool, error)
	UpdateUser(ctx context.Context, user model.User) error
	IsAdmin(ctx context.Context) (bool, error)
	Info(ctx context.Context) (*model.SessionInfo, error)
	Renew(ctx context.Context) error
}

type sessionRepository struct {
	store *kvstore.Adapter
	ttl   time.Duration
	now   func() time.Time
}

// NewSessionRepository stores the session under <prefix>:current. A ttl of
// zero or less means DefaultSessionTTL.
func NewSessionRepository(store *kvstore.Adapter, ttl time.Duration) SessionRepository {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &sessionRepository{store: store, ttl: ttl, now: time.Now}
}

// Save replaces any previous session with a fresh one for user.
func (r *sessionRepository) Save(ctx context.Context, user model.User) (*model.Session, error) {
	s := model.Session{User: user, LoginAt: r.now().UTC(), Active: true}
	if err := r.store.Save(ctx, sessionKey, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return &s, nil
}

func (r *sessionRepository) load(ctx context.Context) (*model.Session, error) {
	var s model.Session
	found, err := r.store.Get(ctx, sessionKey, &s)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &s, nil
}

// Current returns the live session, or nil when there is none. An expired
// session is removed before returning nil.
func (r *sessionRepository) Current(ctx context.Context) (*model.Session, error) {
	s, err := r.load(ctx)
	if err != nil || s == nil {
		return nil, err
	}
	if r.now().Sub(s.LoginAt) > r.ttl {
		if err := r.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if !s.Active {
		return nil, nil
	}
	return s, nil
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	if err := r.store.Remove(ctx, sessionKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (r *sessionRepository) IsActive(ctx context.Context) (bool, error) {
	s, err := r.Current(ctx)
	if err != nil {
		return false, err
	}
	return s != nil, nil
}

// UpdateUser swaps the user snapshot and keeps the login time.
func (r *sessionRepository) UpdateUser(ctx context.Context, user model.User) error {
	s, err := r.Current(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		return ErrNoActiveSession
	}
	s.User = user
	if err := r.store.Save(ctx, sessionKey, s); err != nil {
		return fmt.Errorf("failed to update session user: %w", err)
	}
	return nil
}

func (r *sessionRepository) IsAdmin(ctx context.Context) (bool, error) {
	s, err := r.Current(ctx)
	if err != nil {
		return false, err
	}
	return s != nil && s.User.IsAdmin(), nil
}

// Info reports the stored session without applying expiry. Fields are nil
// when nothing is stored.
func (r *sessionRepository) Info(ctx context.Context) (*model.SessionInfo, error) {
	s, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return &model.SessionInfo{}, nil
	}
	minutes := int64(r.now().Sub(s.LoginAt) / time.Minute)
	user := s.User
	loginAt := s.LoginAt
	return &model.SessionInfo{User: &user, LoginAt: &loginAt, MinutesLogged: &minutes}, nil
}

// Renew restarts the expiry clock of the live session.
func (r *sessionRepository) Renew(ctx context.Context) error {
	s, err := r.Current(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		return ErrNoActiveSession
	}
	s.LoginAt = r.now().UTC()
	if err := r.store.Save(ctx, sessionKey, s); err != nil {
		return fmt.Errorf("failed to renew session: %w", err)
	}
	return nil
}
