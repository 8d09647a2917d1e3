// Package store is the data access layer. It is the only package that
// talks to the database, and it re-checks ownership and role on every call
// instead of trusting the HTTP layer.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/apperr"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/model"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/validation"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/logger"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Requester identifies the authenticated caller by auth identity. The
// profile row and role are resolved from the database on each call.
type Requester struct {
	AuthID string
	Email  string
	Name   string
}

// Store wraps a GORM handle.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// DB exposes the handle for health checks.
func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// profile resolves the requester's profile. With provision set, a missing
// profile is created from the requester's identity.
func (s *Store) profile(ctx context.Context, r Requester, provision bool) (*model.User, error) {
	if r.AuthID == "" {
		return nil, apperr.Unauthenticated("")
	}

	var user model.User
	err := s.conn(ctx).Where("auth_id = ?", r.AuthID).First(&user).Error
	switch {
	case err == nil:
		return &user, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, internal("load profile", err)
	case !provision:
		return nil, apperr.Forbidden("")
	}

	user = model.User{
		AuthID:      r.AuthID,
		Email:       r.Email,
		ContactName: r.Name,
		Role:        model.RoleUser,
	}
	if err := s.conn(ctx).Create(&user).Error; err != nil {
		// a concurrent request may have provisioned it first
		if again := s.conn(ctx).Where("auth_id = ?", r.AuthID).First(&user).Error; again == nil {
			return &user, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("an account with this email already exists")
		}
		return nil, internal("provision profile", err)
	}
	logger.FromCtx(ctx).Info("Provisioned missing user profile",
		zap.String("auth_id", r.AuthID),
		zap.String("user_id", user.ID))
	return &user, nil
}

func requireUUID(id, what string) error {
	if !validation.IsUUID(id) {
		return apperr.Validation("invalid " + what + " id")
	}
	return nil
}

func notFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(message)
	}
	return internal(message, err)
}

// internal annotates a storage failure. It carries no apperr kind, so the
// HTTP layer answers 500 with a generic message and only logs the cause.
func internal(op string, err error) error {
	return fmt.Errorf("store: %s: %w", op, err)
}

func track(op string) func() {
	start := time.Now()
	return func() { prometheus.TrackDBOperation(op)(start) }
}
