package ai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/myoungji/website/internal/errors"
	"github.com/sashabaranov/go-openai"
)

const (
	openAIMaxTokens   = 1000
	openAITemperature = 0.7
	openAITopP        = 0.95
)

type openAI struct {
	client *openai.Client
	logger *slog.Logger
}

func newOpenAI(apiKey, baseURL string, logger *slog.Logger) *openAI {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &openAI{
		client: openai.NewClientWithConfig(config),
		logger: logger.With("source", "openai"),
	}
}

func (o *openAI) Consult(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}
	completion, err := o.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:       openai.GPT3Dot5Turbo,
			MaxTokens:   openAIMaxTokens,
			Temperature: openAITemperature,
			TopP:        openAITopP,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: Prompt(question)},
			},
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "create chat completion")
	}
	if len(completion.Choices) == 0 {
		return "", ErrEmptyAnswer
	}
	answer := strings.TrimSpace(completion.Choices[0].Message.Content)
	if answer == "" {
		return "", ErrEmptyAnswer
	}
	o.logger.LogAttrs(ctx, slog.LevelDebug, "consultation answered", slog.Int("answer_length", len(answer)))
	return answer, nil
}
