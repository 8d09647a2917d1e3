package store

import (
	"context"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/apperr"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/model"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/review"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/logger"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/prometheus"

	"go.uber.org/zap"
)

// SolutionInput is the submission form. Lifecycle fields are not part of it.
type SolutionInput struct {
	SolutionName            string   `json:"solution_name"`
	Summary                 string   `json:"summary"`
	Description             string   `json:"description"`
	IndustryFocus           []string `json:"industry_focus"`
	TechCategories          []string `json:"tech_categories"`
	AutoTags                []string `json:"auto_tags"`
	DeploymentModel         string   `json:"deployment_model"`
	ArabicSupport           bool     `json:"arabic_support"`
	ArabicDetails           string   `json:"arabic_details"`
	ProductImages           []string `json:"product_images"`
	TRL                     string   `json:"trl"`
	DeploymentStatus        string   `json:"deployment_status"`
	Clients                 string   `json:"clients"`
	KSACustomization        bool     `json:"ksa_customization"`
	KSACustomizationDetails string   `json:"ksa_customization_details"`
	PitchDeck               string   `json:"pitch_deck"`
	DemoVideo               string   `json:"demo_video"`
	ContactName             string   `json:"contact_name"`
	ContactEmail            string   `json:"contact_email"`
	Position                string   `json:"position"`
	CompanyName             string   `json:"company_name"`
	Country                 string   `json:"country"`
	Website                 string   `json:"website"`
	LinkedIn                string   `json:"linkedin"`
	Revenue                 string   `json:"revenue"`
	Employees               string   `json:"employees"`
	RegistrationDoc         string   `json:"registration_doc"`
}

// content presents every field as set, so required checks apply to all of them.
func (in *SolutionInput) content() review.ContentPatch {
	return review.ContentPatch{
		SolutionName:            &in.SolutionName,
		Summary:                 &in.Summary,
		Description:             &in.Description,
		IndustryFocus:           &in.IndustryFocus,
		TechCategories:          &in.TechCategories,
		AutoTags:                &in.AutoTags,
		DeploymentModel:         &in.DeploymentModel,
		ArabicSupport:           &in.ArabicSupport,
		ArabicDetails:           &in.ArabicDetails,
		ProductImages:           &in.ProductImages,
		TRL:                     &in.TRL,
		DeploymentStatus:        &in.DeploymentStatus,
		Clients:                 &in.Clients,
		KSACustomization:        &in.KSACustomization,
		KSACustomizationDetails: &in.KSACustomizationDetails,
		PitchDeck:               &in.PitchDeck,
		DemoVideo:               &in.DemoVideo,
		ContactName:             &in.ContactName,
		ContactEmail:            &in.ContactEmail,
		Position:                &in.Position,
		CompanyName:             &in.CompanyName,
		Country:                 &in.Country,
		Website:                 &in.Website,
		LinkedIn:                &in.LinkedIn,
		Revenue:                 &in.Revenue,
		Employees:               &in.Employees,
		RegistrationDoc:         &in.RegistrationDoc,
	}
}

func (in SolutionInput) toModel() (*model.Solution, error) {
	c, err := review.OwnerPatch{ContentPatch: in.content()}.Changes()
	if err != nil {
		return nil, err
	}
	str := func(k string) string { v, _ := c[k].(string); return v }
	list := func(k string) model.StringList { v, _ := c[k].(model.StringList); return v }
	flag := func(k string) bool { v, _ := c[k].(bool); return v }

	initial := review.Initial()
	return &model.Solution{
		SolutionName:            str("solution_name"),
		Summary:                 str("summary"),
		Description:             str("description"),
		IndustryFocus:           list("industry_focus"),
		TechCategories:          list("tech_categories"),
		AutoTags:                list("auto_tags"),
		DeploymentModel:         str("deployment_model"),
		ArabicSupport:           flag("arabic_support"),
		ArabicDetails:           str("arabic_details"),
		ProductImages:           list("product_images"),
		TRL:                     str("trl"),
		DeploymentStatus:        str("deployment_status"),
		Clients:                 str("clients"),
		KSACustomization:        flag("ksa_customization"),
		KSACustomizationDetails: str("ksa_customization_details"),
		PitchDeck:               str("pitch_deck"),
		DemoVideo:               str("demo_video"),
		ContactName:             str("contact_name"),
		ContactEmail:            str("contact_email"),
		Position:                str("position"),
		CompanyName:             str("company_name"),
		Country:                 str("country"),
		Website:                 str("website"),
		LinkedIn:                str("linkedin"),
		Revenue:                 str("revenue"),
		Employees:               str("employees"),
		RegistrationDoc:         str("registration_doc"),
		Status:                  initial["status"],
		TechApprovalStatus:      initial["tech_approval_status"],
		BusinessApprovalStatus:  initial["business_approval_status"],
	}, nil
}

// CreateSolution validates and stores a new submission owned by the
// requester, provisioning the requester's profile when it is missing.
func (s *Store) CreateSolution(ctx context.Context, in SolutionInput, r Requester) (*model.Solution, error) {
	if r.AuthID == "" {
		return nil, apperr.Unauthenticated("")
	}
	sol, err := in.toModel()
	if err != nil {
		return nil, err
	}
	user, err := s.profile(ctx, r, true)
	if err != nil {
		return nil, err
	}
	defer track("solution_create")()

	sol.UserID = user.ID
	now := s.now()
	sol.CreatedAt, sol.UpdatedAt = now, now
	if err := s.conn(ctx).Create(sol).Error; err != nil {
		return nil, internal("create solution", err)
	}

	prometheus.RecordSolutionOperation("create")
	logger.FromCtx(ctx).Info("Solution created",
		zap.String("solution_id", sol.ID),
		zap.String("user_id", user.ID))
	return sol, nil
}

// GetSolutionByID loads any solution regardless of review state.
func (s *Store) GetSolutionByID(ctx context.Context, id string) (*model.Solution, error) {
	if err := requireUUID(id, "solution"); err != nil {
		return nil, err
	}
	defer track("solution_get")()

	var sol model.Solution
	if err := s.conn(ctx).Where("id = ?", id).First(&sol).Error; err != nil {
		return nil, notFound(err, "solution not found")
	}
	return &sol, nil
}

// UpdateSolution applies a role-specific patch. Only the owner or an
// Evaluator may write; lifecycle fields need the Evaluator role.
func (s *Store) UpdateSolution(ctx context.Context, id string, patch review.Patch, r Requester) (*model.Solution, error) {
	if r.AuthID == "" {
		return nil, apperr.Unauthenticated("")
	}
	if err := requireUUID(id, "solution"); err != nil {
		return nil, err
	}
	user, err := s.profile(ctx, r, false)
	if err != nil {
		return nil, err
	}
	sol, err := s.GetSolutionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isOwner := sol.UserID == user.ID
	if !isOwner && !user.IsEvaluator() {
		return nil, apperr.Forbidden("")
	}
	if patch.RequiresEvaluator() && !user.IsEvaluator() {
		return nil, apperr.Forbidden("")
	}

	changes, err := patch.Changes()
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return sol, nil
	}
	changes["updated_at"] = s.now()

	done := track("solution_update")
	err = s.conn(ctx).Model(&model.Solution{}).Where("id = ?", id).Updates(changes).Error
	done()
	if err != nil {
		return nil, internal("update solution", err)
	}

	if _, ok := patch.(review.EvaluatorPatch); ok {
		for _, field := range []string{"status", "tech_approval_status", "business_approval_status"} {
			if v, ok := changes[field].(model.ApprovalStatus); ok {
				prometheus.RecordReviewDecision(field, string(v))
			}
		}
	}
	prometheus.RecordSolutionOperation("update")
	logger.FromCtx(ctx).Info("Solution updated",
		zap.String("solution_id", id),
		zap.String("user_id", user.ID),
		zap.Bool("owner", isOwner),
		zap.Int("fields", len(changes)-1))

	return s.GetSolutionByID(ctx, id)
}

// DeleteSolution removes an owner's solution unless it has been approved.
func (s *Store) DeleteSolution(ctx context.Context, id string, r Requester) error {
	if r.AuthID == "" {
		return apperr.Unauthenticated("")
	}
	sol, err := s.GetSolutionByID(ctx, id)
	if err != nil {
		return err
	}
	if !review.CanDelete(sol.Status) {
		return apperr.Conflict("approved solutions cannot be deleted")
	}
	user, err := s.profile(ctx, r, false)
	if err != nil {
		return err
	}
	if sol.UserID != user.ID {
		return apperr.Forbidden("")
	}

	defer track("solution_delete")()
	if err := s.conn(ctx).Delete(&model.Solution{}, "id = ?", id).Error; err != nil {
		return internal("delete solution", err)
	}
	prometheus.RecordSolutionOperation("delete")
	logger.FromCtx(ctx).Info("Solution deleted", zap.String("solution_id", id))
	return nil
}

// ListSolutions returns every solution in every state, newest first.
func (s *Store) ListSolutions(ctx context.Context) ([]model.Solution, error) {
	defer track("solution_list")()
	var out []model.Solution
	if err := s.conn(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, internal("list solutions", err)
	}
	return out, nil
}

// ListCatalog returns the solutions the public catalog may show.
func (s *Store) ListCatalog(ctx context.Context) ([]model.Solution, error) {
	defer track("catalog_list")()
	var rows []model.Solution
	err := s.conn(ctx).
		Where("tech_approval_status = ? AND business_approval_status = ?", model.StatusApproved, model.StatusApproved).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, internal("list catalog", err)
	}
	out := rows[:0]
	for _, sol := range rows {
		if review.IsCatalogVisible(sol.TechApprovalStatus, sol.BusinessApprovalStatus) {
			out = append(out, sol)
		}
	}
	return out, nil
}

// GetCatalogSolution loads a solution only if the catalog may show it.
func (s *Store) GetCatalogSolution(ctx context.Context, id string) (*model.Solution, error) {
	sol, err := s.GetSolutionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !review.IsCatalogVisible(sol.TechApprovalStatus, sol.BusinessApprovalStatus) {
		return nil, apperr.NotFound("solution not found")
	}
	return sol, nil
}

// ListSolutionsByOwner returns the requester's own submissions.
func (s *Store) ListSolutionsByOwner(ctx context.Context, r Requester) ([]model.Solution, error) {
	user, err := s.profile(ctx, r, false)
	if err != nil {
		if apperr.IsAuth(err) && r.AuthID != "" {
			return []model.Solution{}, nil
		}
		return nil, err
	}
	defer track("solution_list_owner")()
	var out []model.Solution
	if err := s.conn(ctx).Where("user_id = ?", user.ID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, internal("list owner solutions", err)
	}
	return out, nil
}

// ListReviewQueue returns every solution not yet approved on both tracks,
// oldest first. Evaluator only.
func (s *Store) ListReviewQueue(ctx context.Context, r Requester) ([]model.Solution, error) {
	user, err := s.profile(ctx, r, false)
	if err != nil {
		return nil, err
	}
	if !user.IsEvaluator() {
		return nil, apperr.Forbidden("")
	}
	defer track("review_queue")()
	var out []model.Solution
	err = s.conn(ctx).
		Where("NOT (tech_approval_status = ? AND business_approval_status = ?)", model.StatusApproved, model.StatusApproved).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, internal("list review queue", err)
	}
	return out, nil
}
