package agent

import (
	"context"
	"errors"
	"strings"

	"github.com/etnz/fiadvisor"
	"go.uber.org/zap"
)

// Narrator is the narrative collaborator: it turns a prompt into an answer.
type Narrator interface {
	Narrate(ctx context.Context, prompt string) (string, error)
}

// NarratorFunc adapts a function to the Narrator interface.
type NarratorFunc func(ctx context.Context, prompt string) (string, error)

func (f NarratorFunc) Narrate(ctx context.Context, prompt string) (string, error) { return f(ctx, prompt) }

var errEmptyNarrative = errors.New("empty response")

// Advisor answers questions about a profile through a Narrator.
type Advisor struct {
	narrator Narrator
	logger   *zap.Logger
}

// NewAdvisor returns an advisor, logger may be nil.
func NewAdvisor(n Narrator, logger *zap.Logger) *Advisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Advisor{narrator: n, logger: logger}
}

// Answer composes the prompt for q and asks the narrator.
//
// Without a profile the narrator is not contacted and the result carries
// ErrNoProfile. Narrator failures are returned as a *NarrativeError.
func (a *Advisor) Answer(ctx context.Context, q Query) Result {
	prompt, err := ComposePrompt(q)
	if err != nil {
		return Result{Err: err}
	}
	a.logger.Debug("asking narrator", zap.String("persona", q.Persona), zap.Int("prompt_bytes", len(prompt)))

	text, err := a.narrator.Narrate(ctx, prompt)
	if err != nil {
		a.logger.Warn("narrator failed", zap.Error(err))
		return Result{Err: &NarrativeError{Err: err}}
	}
	if strings.TrimSpace(text) == "" {
		return Result{Err: &NarrativeError{Err: errEmptyNarrative}}
	}
	return Result{Text: text}
}

// GetAdvisoryAnswer answers question about profile with a Gemini narrator
// authenticated by apiKey. It never fails: errors are returned as text.
func GetAdvisoryAnswer(ctx context.Context, apiKey, question string, profile *fiadvisor.Profile, persona string) string {
	q := Query{Persona: persona, Question: question, Profile: profile}
	if profile == nil {
		return Result{Err: ErrNoProfile}.Display()
	}
	n, err := NewGeminiNarrator(ctx, apiKey, DefaultModel, nil)
	if err != nil {
		return Result{Err: &NarrativeError{Err: err}}.Display()
	}
	return NewAdvisor(n, nil).Answer(ctx, q).Display()
}
