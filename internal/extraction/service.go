// Package extraction is the only component that talks to the language
// model. It turns free text into per-step partial records, writes short
// summaries and answers agent chat turns.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/logger"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/prometheus"

	"go.uber.org/zap"
)

const (
	summaryFallbackLength = 150
	maxSummaryLength      = 500
)

// Service wraps an LLMCaller with a per-call timeout.
type Service struct {
	caller  LLMCaller
	timeout time.Duration
}

func NewService(caller LLMCaller, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{caller: caller, timeout: timeout}
}

// ExtractStep asks the model for the fields of one wizard step. The result
// contains only keys of that step's schema that have a value; an empty map
// means nothing was found. Unrecoverable output fails with ErrParse.
func (s *Service) ExtractStep(ctx context.Context, text string, step int) (map[string]any, error) {
	if _, ok := stepSchemas[step]; !ok {
		return nil, fmt.Errorf("extraction: unknown step %d", step)
	}
	raw, err := s.call(ctx, "extract", stepPrompt(step), []Message{{Role: "user", Text: text}})
	if err != nil {
		return nil, err
	}
	obj, err := parseObject(raw)
	if err != nil {
		prometheus.RecordExtractionFailure("extract", "parse")
		logger.FromCtx(ctx).Warn("Unparseable extraction output",
			zap.Int("step", step),
			zap.Int("raw_length", len(raw)),
			zap.Error(err))
		return nil, err
	}
	return filterStep(step, obj), nil
}

// Summarize writes a one or two sentence summary. It never fails: any
// error degrades to a truncated description.
func (s *Service) Summarize(ctx context.Context, description string, tech, industry []string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return ""
	}
	prompt := fmt.Sprintf("Description: %s\nTechnology: %s\nIndustries: %s",
		description, strings.Join(tech, ", "), strings.Join(industry, ", "))
	system := "Write a concise one or two sentence marketing summary of this AI solution for a government buyer. Return plain text only, no quotes or markdown."

	out, err := s.call(ctx, "summarize", system, []Message{{Role: "user", Text: prompt}})
	if err == nil {
		out = strings.Trim(strings.TrimSpace(stripCodeFences(out)), `"`)
	}
	if err != nil || out == "" {
		return truncate(description, summaryFallbackLength)
	}
	return truncate(out, maxSummaryLength)
}

// ChatTurn answers a free-form agent message. solutionsContext is a
// plain-text digest of catalog solutions the answer may draw on.
func (s *Service) ChatTurn(ctx context.Context, text string, history []Message, solutionsContext string) (string, error) {
	system := "You are the GO AI Hub assistant. You help government and enterprise buyers in Saudi Arabia find AI solutions. " +
		"Answer from the solutions listed below when relevant; say so when none fit. Use markdown. Reply in the user's language.\n\n" +
		"Available solutions:\n" + solutionsContext
	messages := make([]Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, Message{Role: "user", Text: text})

	out, err := s.call(ctx, "chat", system, messages)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (s *Service) call(ctx context.Context, op, system string, messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	defer prometheus.TrackExtraction(op)(time.Now())

	out, err := s.caller.Complete(ctx, system, messages)
	if err != nil {
		reason := "call"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		}
		prometheus.RecordExtractionFailure(op, reason)
		logger.FromCtx(ctx).Warn("LLM call failed",
			zap.String("operation", op),
			zap.String("reason", reason),
			zap.Error(err))
		return "", fmt.Errorf("extraction: %s: %w", op, err)
	}
	return out, nil
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:max])) + "..."
}
