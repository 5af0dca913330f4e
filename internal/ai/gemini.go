package ai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/myoungji/website/internal/errors"
	"google.golang.org/genai"
)

const (
	geminiModel           = "gemini-3-flash-preview"
	geminiTemperature     = 0.7
	geminiTopP            = 0.95
	geminiMaxOutputTokens = 1000
)

type gemini struct {
	client *genai.Client
	logger *slog.Logger
}

func newGemini(ctx context.Context, apiKey, baseURL string, logger *slog.Logger) (*gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}
	return &gemini{client: client, logger: logger.With("source", "gemini")}, nil
}

func (g *gemini) Consult(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}
	resp, err := g.client.Models.GenerateContent(ctx, geminiModel, genai.Text(Prompt(question)),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](geminiTemperature),
			TopP:            genai.Ptr[float32](geminiTopP),
			MaxOutputTokens: geminiMaxOutputTokens,
		})
	if err != nil {
		return "", errors.Wrap(err, "generate content", slog.String("model", geminiModel))
	}
	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		return "", ErrEmptyAnswer
	}
	g.logger.LogAttrs(ctx, slog.LevelDebug, "consultation answered", slog.Int("answer_length", len(answer)))
	return answer, nil
}
