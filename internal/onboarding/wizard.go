// Package onboarding implements the four-step conversational wizard that
// fills a submission draft from a vendor's free-text answers.
package onboarding

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/apperr"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/extraction"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/logger"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/prometheus"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	FirstStep = 1
	LastStep  = extraction.Steps

	SenderUser = "user"
	SenderBot  = "bot"
)

// ErrTurnInProgress rejects a message sent while the previous turn of the
// same session is still being processed.
var ErrTurnInProgress = apperr.Conflict("the previous message is still being processed")

var (
	welcomeMessage    = "Welcome to GO AI Hub! I'll help you list your AI solution in a few quick questions. You can skip to the form at any time."
	completionMessage = "Thank you! I have everything I need. Please review the pre-filled submission form and submit it when you are ready."
	apologyMessage    = "Sorry, I couldn't process that. Could you rephrase your answer?"
	typingText        = "..."

	stepQuestions = map[int]string{
		1: "Let's start with the basics. What is your solution called, what does it do, which company offers it, and which email should buyers contact?",
		2: "Great. Do you have a website? Which technology categories does the solution use, and which industries does it focus on?",
		3: "What is the deployment status (Concept, Prototype, MVP, Pilot or Production)? Who are your main clients, and does the solution support Arabic?",
		4: "Last question: has the solution been customized for the Saudi market? If so, how?",
	}
)

// ChatMessage is one line of the wizard transcript.
type ChatMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
	Typing bool   `json:"typing,omitempty"`
}

// State is a wizard session.
type State struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	CurrentStep     int           `json:"current_step"`
	Draft           Draft         `json:"draft"`
	IsCompleted     bool          `json:"is_completed"`
	IsCancelled     bool          `json:"is_cancelled"`
	IsProcessing    bool          `json:"is_processing"`
	ProcessingSince time.Time     `json:"processing_since,omitempty"`
	Messages        []ChatMessage `json:"messages"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Closed reports whether the wizard no longer accepts messages.
func (s *State) Closed() bool { return s.IsCompleted || s.IsCancelled }

func (s *State) say(sender, text string) {
	s.Messages = append(s.Messages, ChatMessage{Sender: sender, Text: text})
}

func (s *State) dropTyping() {
	out := s.Messages[:0]
	for _, m := range s.Messages {
		if !m.Typing {
			out = append(out, m)
		}
	}
	s.Messages = out
}

// Extractor is the part of the extraction service the wizard needs.
type Extractor interface {
	ExtractStep(ctx context.Context, text string, step int) (map[string]any, error)
	Summarize(ctx context.Context, description string, tech, industry []string) string
}

// Wizard runs turns against a SessionStore. Turns of one session are
// serialized; a concurrent turn is refused rather than queued.
type Wizard struct {
	sessions  SessionStore
	extractor Extractor
	staleTurn time.Duration
	now       func() time.Time

	mu   sync.Mutex
	busy map[string]struct{}
}

// NewWizard builds a wizard. staleTurn is how long a persisted processing
// flag is honoured before it is treated as abandoned.
func NewWizard(sessions SessionStore, extractor Extractor, staleTurn time.Duration) *Wizard {
	if staleTurn <= 0 {
		staleTurn = 2 * time.Minute
	}
	return &Wizard{
		sessions:  sessions,
		extractor: extractor,
		staleTurn: staleTurn,
		now:       time.Now,
		busy:      map[string]struct{}{},
	}
}

// Start opens a new session at step 1.
func (w *Wizard) Start(ctx context.Context, userID string) (*State, error) {
	if userID == "" {
		return nil, apperr.Unauthenticated("")
	}
	now := w.now()
	s := &State{
		ID:          uuid.NewString(),
		UserID:      userID,
		CurrentStep: FirstStep,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.say(SenderBot, welcomeMessage)
	s.say(SenderBot, stepQuestions[FirstStep])
	if err := w.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	prometheus.RecordWizardStart()
	logger.FromCtx(ctx).Info("Onboarding session started",
		zap.String("session_id", s.ID),
		zap.String("user_id", userID))
	return s, nil
}

// Get returns a session owned by userID.
func (w *Wizard) Get(ctx context.Context, id, userID string) (*State, error) {
	s, err := w.sessions.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, apperr.NotFound("onboarding session not found")
	}
	if err != nil {
		return nil, err
	}
	if s.UserID != userID {
		return nil, apperr.NotFound("onboarding session not found")
	}
	return s, nil
}

// Turn processes one user message. An extraction failure is not an error
// for the caller: the state stays on the same step with an apology added.
func (w *Wizard) Turn(ctx context.Context, id, userID, text string) (*State, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("message is required")
	}
	if !w.acquire(id) {
		return nil, ErrTurnInProgress
	}
	defer w.release(id)

	s, err := w.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if s.Closed() {
		return nil, apperr.Conflict("this onboarding session is closed")
	}
	if s.IsProcessing && w.now().Sub(s.ProcessingSince) < w.staleTurn {
		return nil, ErrTurnInProgress
	}

	log := logger.FromCtx(ctx).With(zap.String("session_id", s.ID), zap.Int("step", s.CurrentStep))

	prior := *s
	prior.Messages = append([]ChatMessage(nil), s.Messages...)
	prior.dropTyping()
	prior.IsProcessing = false
	prior.ProcessingSince = time.Time{}

	s.say(SenderUser, text)
	s.Messages = append(s.Messages, ChatMessage{Sender: SenderBot, Text: typingText, Typing: true})
	s.IsProcessing = true
	s.ProcessingSince = w.now()
	if err := w.sessions.Save(ctx, s); err != nil {
		return nil, err
	}

	fields, extractErr := w.extractor.ExtractStep(ctx, text, s.CurrentStep)

	s.dropTyping()
	s.IsProcessing = false
	s.ProcessingSince = time.Time{}
	s.UpdatedAt = w.now()

	switch {
	case extractErr != nil:
		s.say(SenderBot, apologyMessage)
		prometheus.RecordWizardTurn(s.CurrentStep, "failed")
		log.Warn("Onboarding extraction failed", zap.Error(extractErr))
	case s.CurrentStep < LastStep:
		s.Draft.Merge(fields)
		prometheus.RecordWizardTurn(s.CurrentStep, "advanced")
		s.CurrentStep++
		s.say(SenderBot, stepQuestions[s.CurrentStep])
		log.Info("Onboarding step completed", zap.Int("fields", len(fields)))
	default:
		s.Draft.Merge(fields)
		if s.Draft.Description != "" {
			s.Draft.Summary = w.extractor.Summarize(ctx, s.Draft.Description, s.Draft.TechCategory, s.Draft.IndustryFocus)
		}
		s.IsCompleted = true
		s.say(SenderBot, completionMessage)
		prometheus.RecordWizardTurn(s.CurrentStep, "completed")
		log.Info("Onboarding completed")
	}

	// the turn's outcome must be stored even if the request was cancelled
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := w.sessions.Save(saveCtx, s); err != nil {
		// put back the state from before the turn so the processing flag
		// does not lock the session until it goes stale
		if restoreErr := w.sessions.Save(saveCtx, &prior); restoreErr != nil {
			log.Error("Failed to restore onboarding session", zap.Error(restoreErr))
		}
		return nil, err
	}
	return s, nil
}

// Skip cancels the wizard and returns the partial draft for the form.
func (w *Wizard) Skip(ctx context.Context, id, userID string) (*State, error) {
	if !w.acquire(id) {
		return nil, ErrTurnInProgress
	}
	defer w.release(id)

	s, err := w.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if s.IsCompleted {
		return s, nil
	}
	s.IsCancelled = true
	s.IsProcessing = false
	s.dropTyping()
	s.UpdatedAt = w.now()
	if err := w.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	logger.FromCtx(ctx).Info("Onboarding skipped to form",
		zap.String("session_id", s.ID),
		zap.Int("step", s.CurrentStep))
	return s, nil
}

func (w *Wizard) acquire(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.busy[id]; ok {
		return false
	}
	w.busy[id] = struct{}{}
	return true
}

func (w *Wizard) release(id string) {
	w.mu.Lock()
	delete(w.busy, id)
	w.mu.Unlock()
}
