package store

import (
	"context"
	"errors"
	"strings"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/apperr"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/model"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/validation"

	"gorm.io/gorm"
)

// ProfilePatch is the set of profile fields a user may edit.
type ProfilePatch struct {
	ContactName *string `json:"contact_name"`
	CompanyName *string `json:"company_name"`
	Country     *string `json:"country"`
}

// FindUserByAuthID returns the profile linked to an auth identity.
func (s *Store) FindUserByAuthID(ctx context.Context, authID string) (*model.User, error) {
	defer track("user_get")()
	var user model.User
	if err := s.conn(ctx).Where("auth_id = ?", authID).First(&user).Error; err != nil {
		return nil, notFound(err, "user not found")
	}
	return &user, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	defer track("user_get")()
	var user model.User
	err := s.conn(ctx).Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		return nil, notFound(err, "user not found")
	}
	return &user, nil
}

// CreateUser stores a locally registered user. Emails are unique.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	if _, err := s.FindUserByEmail(ctx, user.Email); err == nil {
		return apperr.Conflict("an account with this email already exists")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	defer track("user_create")()
	if err := s.conn(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("an account with this email already exists")
		}
		return internal("create user", err)
	}
	return nil
}

// Profile returns the requester's profile without provisioning it.
func (s *Store) Profile(ctx context.Context, r Requester) (*model.User, error) {
	user, err := s.profile(ctx, r, false)
	if errors.Is(err, apperr.ErrForbidden) {
		return nil, apperr.NotFound("profile not found")
	}
	return user, err
}

// UpdateProfile edits the requester's contact details, provisioning the
// profile first when it is missing.
func (s *Store) UpdateProfile(ctx context.Context, r Requester, p ProfilePatch) (*model.User, error) {
	user, err := s.profile(ctx, r, true)
	if err != nil {
		return nil, err
	}
	changes := map[string]any{}
	if p.ContactName != nil {
		changes["contact_name"] = validation.Sanitize(*p.ContactName, validation.MaxShortLength)
	}
	if p.CompanyName != nil {
		changes["company_name"] = validation.Sanitize(*p.CompanyName, validation.MaxShortLength)
	}
	if p.Country != nil {
		changes["country"] = validation.Sanitize(*p.Country, validation.MaxShortLength)
	}
	if len(changes) == 0 {
		return user, nil
	}
	changes["updated_at"] = s.now()

	defer track("user_update")()
	if err := s.conn(ctx).Model(&model.User{}).Where("id = ?", user.ID).Updates(changes).Error; err != nil {
		return nil, internal("update profile", err)
	}
	return s.FindUserByAuthID(ctx, r.AuthID)
}
