// Package review holds the submission/review lifecycle of a Solution: the
// initial state, who may change which fields, and what the public catalog
// may show.
package review

import (
	"strings"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/apperr"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/model"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/validation"
)

// ContentPatch carries the descriptive fields either party may change.
// A nil field means "leave as is".
type ContentPatch struct {
	SolutionName            *string   `json:"solution_name"`
	Summary                 *string   `json:"summary"`
	Description             *string   `json:"description"`
	IndustryFocus           *[]string `json:"industry_focus"`
	TechCategories          *[]string `json:"tech_categories"`
	AutoTags                *[]string `json:"auto_tags"`
	DeploymentModel         *string   `json:"deployment_model"`
	ArabicSupport           *bool     `json:"arabic_support"`
	ArabicDetails           *string   `json:"arabic_details"`
	ProductImages           *[]string `json:"product_images"`
	TRL                     *string   `json:"trl"`
	DeploymentStatus        *string   `json:"deployment_status"`
	Clients                 *string   `json:"clients"`
	KSACustomization        *bool     `json:"ksa_customization"`
	KSACustomizationDetails *string   `json:"ksa_customization_details"`
	PitchDeck               *string   `json:"pitch_deck"`
	DemoVideo               *string   `json:"demo_video"`
	ContactName             *string   `json:"contact_name"`
	ContactEmail            *string   `json:"contact_email"`
	Position                *string   `json:"position"`
	CompanyName             *string   `json:"company_name"`
	Country                 *string   `json:"country"`
	Website                 *string   `json:"website"`
	LinkedIn                *string   `json:"linkedin"`
	Revenue                 *string   `json:"revenue"`
	Employees               *string   `json:"employees"`
	RegistrationDoc         *string   `json:"registration_doc"`
}

// OwnerPatch is what a solution owner may send. It has no approval or
// feedback fields; Status is only honoured as a resubmission request.
type OwnerPatch struct {
	ContentPatch
	Status *model.ApprovalStatus `json:"status"`
}

// EvaluatorPatch is what an Evaluator may send: content plus every
// lifecycle field.
type EvaluatorPatch struct {
	ContentPatch
	Status                 *model.ApprovalStatus `json:"status"`
	TechApprovalStatus     *model.ApprovalStatus `json:"tech_approval_status"`
	BusinessApprovalStatus *model.ApprovalStatus `json:"business_approval_status"`
	TechFeedback           *string               `json:"tech_feedback"`
	BusinessFeedback       *string               `json:"business_feedback"`
}

// Patch is a role-specific partial update. Changes returns the column map
// to persist, already validated and sanitized.
type Patch interface {
	Changes() (map[string]any, error)
	RequiresEvaluator() bool
}

var (
	_ Patch = OwnerPatch{}
	_ Patch = EvaluatorPatch{}
)

func (OwnerPatch) RequiresEvaluator() bool { return false }

// Changes validates the owner's content fields. status=pending resets both
// review tracks; any other status value is refused.
func (p OwnerPatch) Changes() (map[string]any, error) {
	changes, errs := p.ContentPatch.columns()
	if p.Status != nil {
		if *p.Status != model.StatusPending {
			errs.Add("status", "owners may only resubmit a solution for review")
		} else {
			for k, v := range Resubmission() {
				changes[k] = v
			}
		}
	}
	if !errs.Empty() {
		return nil, apperr.Wrap(apperr.ErrValidation, errs.Error(), errs)
	}
	return changes, nil
}

func (EvaluatorPatch) RequiresEvaluator() bool { return true }

// Changes validates content and lifecycle fields against the known status set.
func (p EvaluatorPatch) Changes() (map[string]any, error) {
	changes, errs := p.ContentPatch.columns()
	statusField := func(name string, v *model.ApprovalStatus) {
		if v == nil {
			return
		}
		if !v.Valid() {
			errs.Add(name, label(name)+" must be one of pending, approved, rejected, resubmit")
			return
		}
		changes[name] = *v
	}
	statusField("status", p.Status)
	statusField("tech_approval_status", p.TechApprovalStatus)
	statusField("business_approval_status", p.BusinessApprovalStatus)
	if p.TechFeedback != nil {
		changes["tech_feedback"] = validation.Sanitize(*p.TechFeedback, validation.MaxTextLength)
	}
	if p.BusinessFeedback != nil {
		changes["business_feedback"] = validation.Sanitize(*p.BusinessFeedback, validation.MaxTextLength)
	}
	if !errs.Empty() {
		return nil, apperr.Wrap(apperr.ErrValidation, errs.Error(), errs)
	}
	return changes, nil
}

// Initial returns the lifecycle columns of a freshly created solution.
func Initial() map[string]model.ApprovalStatus {
	return map[string]model.ApprovalStatus{
		"status":                   model.StatusPending,
		"tech_approval_status":     model.StatusPending,
		"business_approval_status": model.StatusPending,
	}
}

// Resubmission returns the columns written when an owner resubmits.
func Resubmission() map[string]any {
	return map[string]any{
		"status":                   model.StatusPending,
		"tech_approval_status":     model.StatusPending,
		"business_approval_status": model.StatusPending,
	}
}

// IsCatalogVisible is the single visibility rule for public reads.
func IsCatalogVisible(tech, business model.ApprovalStatus) bool {
	return tech == model.StatusApproved && business == model.StatusApproved
}

// CanDelete reports whether a solution in the given overall status may be removed.
func CanDelete(status model.ApprovalStatus) bool {
	return status != model.StatusApproved
}

func (p ContentPatch) columns() (map[string]any, validation.Errors) {
	var errs validation.Errors
	out := map[string]any{}

	text := func(col string, v *string, max int) {
		if v != nil {
			out[col] = validation.Sanitize(*v, max)
		}
	}
	required := func(col string, v *string, max int) {
		if v == nil {
			return
		}
		s := validation.Sanitize(*v, max)
		if !validation.Required(s) {
			errs.Add(col, label(col)+" is required")
			return
		}
		out[col] = s
	}
	list := func(col string, v *[]string) {
		if v != nil {
			out[col] = model.StringList(validation.SanitizeList(*v, validation.MaxShortLength))
		}
	}
	flag := func(col string, v *bool) {
		if v != nil {
			out[col] = *v
		}
	}
	url := func(col string, v *string, check func(string) bool, msg string) {
		if v == nil {
			return
		}
		s := strings.TrimSpace(*v)
		if s != "" && !check(s) {
			errs.Add(col, label(col)+" "+msg)
			return
		}
		out[col] = validation.Sanitize(s, validation.MaxTextLength)
	}

	required("solution_name", p.SolutionName, validation.MaxShortLength)
	required("summary", p.Summary, validation.MaxTextLength)
	text("description", p.Description, validation.MaxTextLength)
	list("industry_focus", p.IndustryFocus)
	list("tech_categories", p.TechCategories)
	list("auto_tags", p.AutoTags)
	text("deployment_model", p.DeploymentModel, validation.MaxShortLength)
	flag("arabic_support", p.ArabicSupport)
	text("arabic_details", p.ArabicDetails, validation.MaxTextLength)
	if p.ProductImages != nil {
		out["product_images"] = model.StringList(model.NormalizeToStringArray(*p.ProductImages))
	}
	text("trl", p.TRL, validation.MaxShortLength)
	text("deployment_status", p.DeploymentStatus, validation.MaxShortLength)
	text("clients", p.Clients, validation.MaxTextLength)
	flag("ksa_customization", p.KSACustomization)
	text("ksa_customization_details", p.KSACustomizationDetails, validation.MaxTextLength)
	text("pitch_deck", p.PitchDeck, validation.MaxTextLength)
	url("demo_video", p.DemoVideo, validation.IsURL, "must be a valid URL")
	text("contact_name", p.ContactName, validation.MaxShortLength)
	if p.ContactEmail != nil {
		email := strings.TrimSpace(*p.ContactEmail)
		switch {
		case email == "":
			errs.Add("contact_email", "contact email is required")
		case !validation.IsEmail(email):
			errs.Add("contact_email", "contact email must be a valid email address")
		default:
			out["contact_email"] = email
		}
	}
	text("position", p.Position, validation.MaxShortLength)
	text("company_name", p.CompanyName, validation.MaxShortLength)
	text("country", p.Country, validation.MaxShortLength)
	url("website", p.Website, validation.IsURL, "must be a valid URL")
	url("linkedin", p.LinkedIn, validation.IsLinkedInURL, "must be a LinkedIn URL")
	text("revenue", p.Revenue, validation.MaxShortLength)
	text("employees", p.Employees, validation.MaxShortLength)
	text("registration_doc", p.RegistrationDoc, validation.MaxTextLength)

	return out, errs
}

func label(col string) string {
	return strings.ReplaceAll(col, "_", " ")
}
