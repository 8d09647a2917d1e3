package store

import (
	"context"
	"strings"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/apperr"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/model"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/validation"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/logger"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/prometheus"

	"go.uber.org/zap"
)

// InterestInput is the lead form a buyer submits against a solution.
type InterestInput struct {
	CompanyName  string `json:"company_name"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Message      string `json:"message"`
}

func (in InterestInput) validate() error {
	var errs validation.Errors
	if !validation.Required(in.ContactName) {
		errs.Add("contact_name", "contact name is required")
	}
	switch email := strings.TrimSpace(in.ContactEmail); {
	case email == "":
		errs.Add("contact_email", "contact email is required")
	case !validation.IsEmail(email):
		errs.Add("contact_email", "contact email must be a valid email address")
	}
	if phone := strings.TrimSpace(in.ContactPhone); phone != "" && !validation.IsPhone(phone) {
		errs.Add("contact_phone", "contact phone must be a valid phone number")
	}
	if !errs.Empty() {
		return apperr.Wrap(apperr.ErrValidation, errs.Error(), errs)
	}
	return nil
}

// CreateInterest records a lead with status "New Interest". The returned
// interest carries its solution for notification purposes.
func (s *Store) CreateInterest(ctx context.Context, solutionID string, in InterestInput, r Requester) (*model.Interest, error) {
	if r.AuthID == "" {
		return nil, apperr.Unauthenticated("")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	sol, err := s.GetSolutionByID(ctx, solutionID)
	if err != nil {
		return nil, err
	}
	user, err := s.profile(ctx, r, true)
	if err != nil {
		return nil, err
	}
	// unlisted solutions take interest only from their owner and evaluators
	if !sol.CatalogVisible() && sol.UserID != user.ID && !user.IsEvaluator() {
		return nil, apperr.NotFound("solution not found")
	}

	interest := model.Interest{
		SolutionID:   sol.ID,
		UserID:       user.ID,
		CompanyName:  validation.Sanitize(in.CompanyName, validation.MaxShortLength),
		ContactName:  validation.Sanitize(in.ContactName, validation.MaxShortLength),
		ContactEmail: strings.TrimSpace(in.ContactEmail),
		ContactPhone: strings.TrimSpace(in.ContactPhone),
		Message:      validation.Sanitize(in.Message, validation.MaxTextLength),
		Status:       model.InterestNew,
		CreatedAt:    s.now(),
	}

	defer track("interest_create")()
	if err := s.conn(ctx).Create(&interest).Error; err != nil {
		return nil, internal("create interest", err)
	}
	interest.Solution = sol

	prometheus.RecordInterestCreated()
	logger.FromCtx(ctx).Info("Interest created",
		zap.String("interest_id", interest.ID),
		zap.String("solution_id", sol.ID),
		zap.String("user_id", user.ID))
	return &interest, nil
}

// DeleteInterest removes a lead. The interested user or the solution's
// owner may delete it.
func (s *Store) DeleteInterest(ctx context.Context, id string, r Requester) error {
	if r.AuthID == "" {
		return apperr.Unauthenticated("")
	}
	if err := requireUUID(id, "interest"); err != nil {
		return err
	}
	var interest model.Interest
	if err := s.conn(ctx).Preload("Solution").Where("id = ?", id).First(&interest).Error; err != nil {
		return notFound(err, "interest not found")
	}
	user, err := s.profile(ctx, r, false)
	if err != nil {
		return err
	}
	isParty := interest.UserID == user.ID
	isOwner := interest.Solution != nil && interest.Solution.UserID == user.ID
	if !isParty && !isOwner {
		return apperr.Forbidden("")
	}

	defer track("interest_delete")()
	if err := s.conn(ctx).Delete(&model.Interest{}, "id = ?", id).Error; err != nil {
		return internal("delete interest", err)
	}
	logger.FromCtx(ctx).Info("Interest deleted", zap.String("interest_id", id))
	return nil
}

// ListInterestsByUser returns the leads the requester has raised.
func (s *Store) ListInterestsByUser(ctx context.Context, r Requester) ([]model.Interest, error) {
	user, err := s.profile(ctx, r, false)
	if err != nil {
		if apperr.IsAuth(err) && r.AuthID != "" {
			return []model.Interest{}, nil
		}
		return nil, err
	}
	defer track("interest_list_user")()
	var out []model.Interest
	err = s.conn(ctx).Preload("Solution").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, internal("list interests", err)
	}
	return out, nil
}

// ListInterestsForOwner returns the leads raised against the requester's solutions.
func (s *Store) ListInterestsForOwner(ctx context.Context, r Requester) ([]model.Interest, error) {
	user, err := s.profile(ctx, r, false)
	if err != nil {
		if apperr.IsAuth(err) && r.AuthID != "" {
			return []model.Interest{}, nil
		}
		return nil, err
	}
	defer track("interest_list_owner")()
	var out []model.Interest
	err = s.conn(ctx).Preload("Solution").
		Joins("JOIN solutions ON solutions.id = interests.solution_id AND solutions.deleted_at IS NULL").
		Where("solutions.user_id = ?", user.ID).
		Order("interests.created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, internal("list received interests", err)
	}
	return out, nil
}
