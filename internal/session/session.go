// Package session holds the per-request view of who is calling. A session
// is created from verified token claims, loads the caller's profile once
// and is dropped at the end of the request.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/apperr"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/model"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/store"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/logger"

	"go.uber.org/zap"
)

// DefaultLoadTimeout bounds the profile lookup done by Init.
const DefaultLoadTimeout = 8 * time.Second

// ProfileLoader resolves a profile by auth identity.
type ProfileLoader interface {
	FindUserByAuthID(ctx context.Context, authID string) (*model.User, error)
}

// Identity is what a verified token says about the caller.
type Identity struct {
	AuthID string
	Email  string
	Role   string
}

type Session struct {
	identity Identity
	user     *model.User
	loader   ProfileLoader
	timeout  time.Duration
}

// New returns an uninitialized session. A zero Identity gives an
// anonymous session.
func New(loader ProfileLoader, identity Identity, timeout time.Duration) *Session {
	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}
	return &Session{identity: identity, loader: loader, timeout: timeout}
}

// Anonymous returns a session with no caller.
func Anonymous() *Session { return &Session{} }

// Init loads the caller's profile. It never fails the request: a missing
// profile keeps the identity so the profile can be provisioned later, and
// a slow or failing lookup degrades to an anonymous session.
func (s *Session) Init(ctx context.Context) {
	if s.identity.AuthID == "" || s.loader == nil {
		return
	}
	log := logger.FromCtx(ctx)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		user *model.User
		err  error
	}
	done := make(chan result, 1)
	go func() {
		u, err := s.loader.FindUserByAuthID(ctx, s.identity.AuthID)
		done <- result{u, err}
	}()

	select {
	case r := <-done:
		switch {
		case r.err == nil:
			s.user = r.user
		case errors.Is(r.err, apperr.ErrNotFound):
			log.Debug("No profile yet for authenticated caller", zap.String("auth_id", s.identity.AuthID))
		default:
			log.Warn("Session profile load failed, continuing anonymously",
				zap.String("auth_id", s.identity.AuthID),
				zap.Error(r.err))
			s.identity = Identity{}
		}
	case <-ctx.Done():
		log.Warn("Session profile load timed out, continuing anonymously",
			zap.String("auth_id", s.identity.AuthID),
			zap.Duration("timeout", s.timeout))
		s.identity = Identity{}
	}
}

// Teardown forgets the caller.
func (s *Session) Teardown() {
	s.identity = Identity{}
	s.user = nil
}

func (s *Session) Authenticated() bool { return s != nil && s.identity.AuthID != "" }

// User is the loaded profile, nil when none exists yet.
func (s *Session) User() *model.User {
	if s == nil {
		return nil
	}
	return s.user
}

func (s *Session) Identity() Identity {
	if s == nil {
		return Identity{}
	}
	return s.identity
}

// IsEvaluator trusts the stored profile role over the token claim.
func (s *Session) IsEvaluator() bool {
	return s.Authenticated() && s.user.IsEvaluator()
}

// Requester is the caller as the data layer sees it.
func (s *Session) Requester() store.Requester {
	if !s.Authenticated() {
		return store.Requester{}
	}
	r := store.Requester{AuthID: s.identity.AuthID, Email: s.identity.Email}
	if s.user != nil {
		r.Name = s.user.ContactName
	}
	return r
}

type contextKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the request's session, or an anonymous one.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(contextKey{}).(*Session); ok && s != nil {
		return s
	}
	return Anonymous()
}
