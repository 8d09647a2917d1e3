// Package agent answers buyer questions from a digest of the public
// catalog and keeps research-style answers as reports.
package agent

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/apperr"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/catalog"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/extraction"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/model"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/store"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/validation"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/logger"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/prometheus"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	contextSolutions = 10
	maxHistory       = 20
	maxTitleLength   = 80
	maxMessageLength = 4000
)

// Chatter is the part of the extraction service the agent needs.
type Chatter interface {
	ChatTurn(ctx context.Context, text string, history []extraction.Message, solutionsContext string) (string, error)
}

// Store is the persistence the agent needs.
type Store interface {
	ListCatalog(ctx context.Context) ([]model.Solution, error)
	CreateReport(ctx context.Context, report *model.ResearchReport, r store.Requester) error
}

// ChatRequest is one agent message. SaveReport asks for the answer to be
// kept regardless of the message wording.
type ChatRequest struct {
	Message    string               `json:"message"`
	History    []extraction.Message `json:"history"`
	SaveReport bool                 `json:"save_report"`
}

// ChatResponse carries the answer and, when one was kept, the report.
type ChatResponse struct {
	Reply     string                `json:"reply"`
	Report    *model.ResearchReport `json:"report,omitempty"`
	Remaining int                   `json:"remaining"`
}

type Service struct {
	chatter Chatter
	store   Store
	limiter UsageLimiter
}

func NewService(chatter Chatter, st Store, limiter UsageLimiter) *Service {
	return &Service{chatter: chatter, store: st, limiter: limiter}
}

// Chat runs one agent turn for r.
func (s *Service) Chat(ctx context.Context, req ChatRequest, r store.Requester) (*ChatResponse, error) {
	if r.AuthID == "" {
		return nil, apperr.Unauthenticated("")
	}
	message := validation.Sanitize(req.Message, maxMessageLength)
	if message == "" {
		return nil, apperr.Validation("message is required")
	}
	log := logger.FromCtx(ctx).With(zap.String("auth_id", r.AuthID))

	remaining, err := s.limiter.Consume(ctx, r.AuthID)
	if err != nil {
		prometheus.RecordAgentTurn("limited")
		return nil, err
	}

	solutions, err := s.store.ListCatalog(ctx)
	if err != nil {
		prometheus.RecordAgentTurn("failed")
		return nil, err
	}
	digest := BuildContext(solutions)

	reply, err := s.chatter.ChatTurn(ctx, message, trimHistory(req.History), digest)
	if err != nil {
		prometheus.RecordAgentTurn("failed")
		log.Error("Agent chat failed", zap.Error(err))
		return nil, err
	}
	prometheus.RecordAgentTurn("answered")
	resp := &ChatResponse{Reply: reply, Remaining: remaining}

	trigger := ""
	switch {
	case req.SaveReport:
		trigger = "explicit"
	case IsReportRequest(message):
		trigger = "keyword"
	}
	if trigger == "" {
		return resp, nil
	}

	report := &model.ResearchReport{
		Title:   reportTitle(message),
		Query:   message,
		Content: reply,
		Metadata: datatypes.JSONMap{
			"trigger":   trigger,
			"solutions": min(len(solutions), contextSolutions),
		},
	}
	if err := s.store.CreateReport(ctx, report, r); err != nil {
		// the answer is still useful without the saved copy
		log.Error("Failed to save research report", zap.Error(err))
		return resp, nil
	}
	prometheus.RecordReportSaved()
	log.Info("Research report saved", zap.String("report_id", report.ID), zap.String("trigger", trigger))
	resp.Report = report
	return resp, nil
}

// BuildContext renders the newest visible solutions as a plain-text digest
// for the model prompt.
func BuildContext(solutions []model.Solution) string {
	page := catalog.Apply(solutions, catalog.Query{Sort: catalog.SortNewest, PageSize: contextSolutions})
	if len(page.Items) == 0 {
		return "(no solutions are currently listed)"
	}
	var b strings.Builder
	for i, sol := range page.Items {
		fmt.Fprintf(&b, "%d. %s", i+1, sol.SolutionName)
		if sol.CompanyName != "" {
			fmt.Fprintf(&b, " by %s", sol.CompanyName)
		}
		b.WriteString("\n")
		if sol.Summary != "" {
			fmt.Fprintf(&b, "   Summary: %s\n", sol.Summary)
		}
		if len(sol.TechCategories) > 0 {
			fmt.Fprintf(&b, "   Technology: %s\n", strings.Join(sol.TechCategories, ", "))
		}
		if len(sol.IndustryFocus) > 0 {
			fmt.Fprintf(&b, "   Industries: %s\n", strings.Join(sol.IndustryFocus, ", "))
		}
		if sol.DeploymentStatus != "" {
			fmt.Fprintf(&b, "   Deployment: %s\n", sol.DeploymentStatus)
		}
		if sol.ArabicSupport {
			b.WriteString("   Arabic support: yes\n")
		}
	}
	return b.String()
}

// RenderReportHTML converts report markdown to HTML. Raw HTML in the
// source is not passed through.
func RenderReportHTML(markdown string) (string, error) {
	var out bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &out); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return out.String(), nil
}

func reportTitle(message string) string {
	title := strings.Join(strings.Fields(message), " ")
	if utf8.RuneCountInString(title) <= maxTitleLength {
		return title
	}
	return strings.TrimSpace(string([]rune(title)[:maxTitleLength])) + "..."
}

func trimHistory(history []extraction.Message) []extraction.Message {
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	out := make([]extraction.Message, 0, len(history))
	for _, m := range history {
		if m.Role != "user" && m.Role != "assistant" {
			continue
		}
		out = append(out, m)
	}
	return out
}
