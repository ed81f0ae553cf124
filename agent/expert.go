package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// maxFunctionRounds bounds the function calling exchanges of a single question.
const maxFunctionRounds = 8

// Expert is a Gemini backed Narrator. Each question is asked on a fresh chat
// whose function calling library exposes the advisory formulas.
type Expert struct {
	Name      string
	ModelName string
	Config    *genai.GenerateContentConfig
	Library   Library

	client *genai.Client
	logger *zap.Logger
}

// NewGeminiNarrator connects to the Gemini API with apiKey.
func NewGeminiNarrator(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Expert, error) {
	if apiKey == "" {
		return nil, errors.New("missing Gemini API key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create Gemini client: %w", err)
	}
	return NewExpert(client, model, logger), nil
}

// NewExpert returns the advisor narrator on client.
func NewExpert(client *genai.Client, model string, logger *zap.Logger) *Expert {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	tools := Tools()
	return &Expert{
		Name:      "fi-nancial-advisor",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{{FunctionDeclarations: NewDeclaration(tools)}},
		},
		Library: NewLibrary(tools),
		client:  client,
		logger:  logger,
	}
}

// Narrate asks prompt on a new chat and returns the text of the answer.
func (e *Expert) Narrate(ctx context.Context, prompt string) (string, error) {
	chat, err := e.client.Chats.Create(ctx, e.ModelName, e.Config, nil)
	if err != nil {
		return "", fmt.Errorf("cannot start chat with %s: %w", e.ModelName, err)
	}
	content, err := e.ask(ctx, chat, maxFunctionRounds, genai.NewPartFromText(prompt))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, p := range content.Parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}

// ask sends parts and answers the function calls until the model replies with text.
func (e *Expert) ask(ctx context.Context, chat *genai.Chat, rounds int, parts ...*genai.Part) (*genai.Content, error) {
	resp, err := chat.Send(ctx, parts...)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from %s", e.ModelName)
	}
	content := resp.Candidates[0].Content

	var replies []*genai.Part
	for _, p := range content.Parts {
		if p.FunctionCall == nil {
			continue
		}
		if e.Library == nil {
			return nil, fmt.Errorf("%s doesn't know how to make function calls", e.Name)
		}
		e.logger.Debug("function call", zap.String("name", p.FunctionCall.Name), zap.Any("args", p.FunctionCall.Args))
		replies = append(replies, &genai.Part{FunctionResponse: e.Library(ctx, p.FunctionCall)})
	}
	if len(replies) == 0 {
		return content, nil
	}
	if rounds <= 0 {
		return nil, fmt.Errorf("%s kept calling functions", e.Name)
	}
	return e.ask(ctx, chat, rounds-1, replies...)
}
