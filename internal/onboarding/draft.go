package onboarding

import (
	"strings"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/model"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/store"
)

// Draft is the record the wizard assembles across its steps. Tri-state
// flags stay nil until the vendor answers.
type Draft struct {
	SolutionName            string   `json:"solutionName,omitempty"`
	Summary                 string   `json:"summary,omitempty"`
	Description             string   `json:"description,omitempty"`
	CompanyName             string   `json:"companyName,omitempty"`
	ContactEmail            string   `json:"contactEmail,omitempty"`
	Website                 string   `json:"website,omitempty"`
	TechCategory            []string `json:"techCategory,omitempty"`
	IndustryFocus           []string `json:"industryFocus,omitempty"`
	DeploymentStatus        string   `json:"deploymentStatus,omitempty"`
	Clients                 string   `json:"clients,omitempty"`
	ArabicSupport           *bool    `json:"arabicSupport,omitempty"`
	ArabicDetails           string   `json:"arabicDetails,omitempty"`
	KSACustomization        *bool    `json:"ksaCustomization,omitempty"`
	KSACustomizationDetails string   `json:"ksaCustomizationDetails,omitempty"`
}

// Merge applies extracted fields. Keys present in fields win; keys that
// are absent, empty or of the wrong shape leave the draft untouched.
func (d *Draft) Merge(fields map[string]any) {
	text := func(dst *string, key string) {
		if v, ok := fields[key].(string); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	list := func(dst *[]string, key string) {
		v, ok := fields[key]
		if !ok || v == nil {
			return
		}
		if items := model.NormalizeToStringArray(v); len(items) > 0 {
			*dst = items
		}
	}
	flag := func(dst **bool, key string) {
		if v, ok := fields[key].(bool); ok {
			*dst = &v
		}
	}

	text(&d.SolutionName, "solutionName")
	text(&d.Summary, "summary")
	text(&d.Description, "description")
	text(&d.CompanyName, "companyName")
	text(&d.ContactEmail, "contactEmail")
	text(&d.Website, "website")
	list(&d.TechCategory, "techCategory")
	list(&d.IndustryFocus, "industryFocus")
	text(&d.DeploymentStatus, "deploymentStatus")
	text(&d.Clients, "clients")
	flag(&d.ArabicSupport, "arabicSupport")
	text(&d.ArabicDetails, "arabicDetails")
	flag(&d.KSACustomization, "ksaCustomization")
	text(&d.KSACustomizationDetails, "ksaCustomizationDetails")
}

// HandOff pre-fills the submission form from a draft. Values outside the
// offered option sets are passed through unchanged; the form validates
// the result when it is submitted.
func HandOff(d Draft) store.SolutionInput {
	return store.SolutionInput{
		SolutionName:            d.SolutionName,
		Summary:                 d.Summary,
		Description:             d.Description,
		CompanyName:             d.CompanyName,
		ContactEmail:            d.ContactEmail,
		Website:                 d.Website,
		TechCategories:          append([]string(nil), d.TechCategory...),
		IndustryFocus:           append([]string(nil), d.IndustryFocus...),
		DeploymentStatus:        d.DeploymentStatus,
		Clients:                 d.Clients,
		ArabicSupport:           d.ArabicSupport != nil && *d.ArabicSupport,
		ArabicDetails:           d.ArabicDetails,
		KSACustomization:        d.KSACustomization != nil && *d.KSACustomization,
		KSACustomizationDetails: d.KSACustomizationDetails,
	}
}
