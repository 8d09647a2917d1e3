package review

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/apperr"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/model"
)

func ptr[T any](v T) *T { return &v }

func TestOwnerPatchContentOnly(t *testing.T) {
	p := OwnerPatch{ContentPatch: ContentPatch{
		Summary:       ptr("  better <b>summary</b> "),
		IndustryFocus: ptr([]string{" Health ", ""}),
		ArabicSupport: ptr(true),
	}}

	changes, err := p.Changes()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"summary":        "better bsummary/b",
		"industry_focus": model.StringList{"Health"},
		"arabic_support": true,
	}, changes)
	assert.False(t, p.RequiresEvaluator())
}

func TestOwnerPatchResubmissionResetsBothTracks(t *testing.T) {
	p := OwnerPatch{
		ContentPatch: ContentPatch{Summary: ptr("Y2")},
		Status:       ptr(model.StatusPending),
	}

	changes, err := p.Changes()
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, changes["status"])
	assert.Equal(t, model.StatusPending, changes["tech_approval_status"])
	assert.Equal(t, model.StatusPending, changes["business_approval_status"])
	assert.Equal(t, "Y2", changes["summary"])
}

func TestOwnerPatchRejectsOtherStatus(t *testing.T) {
	p := OwnerPatch{Status: ptr(model.StatusApproved)}

	_, err := p.Changes()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestOwnerBodyStripsLifecycleKeys(t *testing.T) {
	body := `{"summary":"s","tech_approval_status":"approved","business_feedback":"lgtm"}`

	var p OwnerPatch
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	changes, err := p.Changes()
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"summary": "s"}, changes)
}

func TestContentValidation(t *testing.T) {
	for _, tc := range []struct {
		name  string
		patch ContentPatch
		field string
	}{
		{"blank name", ContentPatch{SolutionName: ptr("   ")}, "solution_name"},
		{"blank summary", ContentPatch{Summary: ptr("")}, "summary"},
		{"bad email", ContentPatch{ContactEmail: ptr("nope")}, "contact_email"},
		{"blank email", ContentPatch{ContactEmail: ptr(" ")}, "contact_email"},
		{"bad website", ContentPatch{Website: ptr("not a url")}, "website"},
		{"bad linkedin", ContentPatch{LinkedIn: ptr("https://example.com/me")}, "linkedin"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, errs := tc.patch.columns()
			require.Len(t, errs, 1)
			assert.Equal(t, tc.field, errs[0].Field)
		})
	}
}

func TestContentEmptyOptionalURLAllowed(t *testing.T) {
	changes, errs := ContentPatch{Website: ptr(""), LinkedIn: ptr(" ")}.columns()
	assert.True(t, errs.Empty())
	assert.Equal(t, "", changes["website"])
	assert.Equal(t, "", changes["linkedin"])
}

func TestEvaluatorPatch(t *testing.T) {
	p := EvaluatorPatch{
		TechApprovalStatus: ptr(model.StatusApproved),
		BusinessFeedback:   ptr("add pricing"),
	}

	changes, err := p.Changes()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"tech_approval_status": model.StatusApproved,
		"business_feedback":    "add pricing",
	}, changes)
	assert.True(t, p.RequiresEvaluator())
}

func TestEvaluatorPatchUnknownStatus(t *testing.T) {
	p := EvaluatorPatch{BusinessApprovalStatus: ptr(model.ApprovalStatus("archived"))}

	_, err := p.Changes()
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "business approval status")
}

func TestVisibilityAndDelete(t *testing.T) {
	statuses := []model.ApprovalStatus{model.StatusPending, model.StatusApproved, model.StatusRejected, model.StatusResubmit}
	for _, tech := range statuses {
		for _, biz := range statuses {
			want := tech == model.StatusApproved && biz == model.StatusApproved
			assert.Equal(t, want, IsCatalogVisible(tech, biz), "%s/%s", tech, biz)
		}
	}

	assert.False(t, CanDelete(model.StatusApproved))
	assert.True(t, CanDelete(model.StatusPending))
	assert.True(t, CanDelete(model.StatusRejected))
}
