// Package ai answers free-form consultation questions with a hosted language model.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/myoungji/website/internal/errors"
)

var (
	// ErrDisabled is returned by New when no API key is configured.
	ErrDisabled        = errors.NewSentinel("AI consultation disabled")
	ErrUnknownProvider = errors.NewSentinel("unknown AI provider")
	ErrEmptyAnswer     = errors.NewSentinel("empty answer")
	ErrEmptyQuestion   = errors.NewSentinel("empty question")
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Consultant turns a visitor question into an answer.
type Consultant interface {
	Consult(ctx context.Context, question string) (string, error)
}

type Config struct {
	Provider     string
	GeminiAPIKey string
	// GeminiBaseURL overrides the Gemini API endpoint. Empty uses the default.
	GeminiBaseURL string
	OpenAIAPIKey  string
	// OpenAIBaseURL points at an OpenAI compatible API. Empty uses the default.
	OpenAIBaseURL string
}

// New returns the consultant selected by cfg.Provider or ErrDisabled when that provider has no API key.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (Consultant, error) {
	switch cfg.Provider {
	case ProviderGemini, "":
		if cfg.GeminiAPIKey == "" {
			return nil, ErrDisabled
		}
		return newGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiBaseURL, logger)
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, ErrDisabled
		}
		return newOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, logger), nil
	default:
		return nil, errors.Wrap(ErrUnknownProvider, "select provider", slog.String("provider", cfg.Provider))
	}
}

const promptTemplate = `사용자가 특장차 제어 시스템에 대해 문의합니다.
사용자의 요청 내용을 분석하여 '명지'에서 제공할 수 있는 제어 솔루션, 예상되는 기술 스택(PLC, 유압, 통신 등), 그리고 안전 고려사항을 전문가적 관점에서 답변해주세요.
답변은 친절하고 전문적인 한국어로 작성해주시기 바랍니다.

사용자 문의 내용: %s`

// Prompt frames question as a specialty-vehicle control inquiry.
func Prompt(question string) string {
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(question))
}
