package store

import (
	"context"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/apperr"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/model"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/validation"
)

// CreateReport persists a research report for the requester.
func (s *Store) CreateReport(ctx context.Context, report *model.ResearchReport, r Requester) error {
	user, err := s.profile(ctx, r, true)
	if err != nil {
		return err
	}
	report.UserID = user.ID
	report.Title = validation.Sanitize(report.Title, validation.MaxShortLength)
	if report.Title == "" {
		return apperr.Validation("report title is required")
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = s.now()
	}
	defer track("report_create")()
	if err := s.conn(ctx).Create(report).Error; err != nil {
		return internal("create report", err)
	}
	return nil
}

// ListReports returns the requester's reports, newest first.
func (s *Store) ListReports(ctx context.Context, r Requester) ([]model.ResearchReport, error) {
	user, err := s.profile(ctx, r, false)
	if err != nil {
		if apperr.IsAuth(err) && r.AuthID != "" {
			return []model.ResearchReport{}, nil
		}
		return nil, err
	}
	defer track("report_list")()
	var out []model.ResearchReport
	if err := s.conn(ctx).Where("user_id = ?", user.ID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, internal("list reports", err)
	}
	return out, nil
}

// GetReport loads one of the requester's reports. Other users' reports
// are reported as missing.
func (s *Store) GetReport(ctx context.Context, id string, r Requester) (*model.ResearchReport, error) {
	if err := requireUUID(id, "report"); err != nil {
		return nil, err
	}
	user, err := s.profile(ctx, r, false)
	if err != nil {
		if apperr.IsAuth(err) && r.AuthID != "" {
			return nil, apperr.NotFound("report not found")
		}
		return nil, err
	}
	defer track("report_get")()
	var report model.ResearchReport
	if err := s.conn(ctx).Where("id = ? AND user_id = ?", id, user.ID).First(&report).Error; err != nil {
		return nil, notFound(err, "report not found")
	}
	return &report, nil
}
