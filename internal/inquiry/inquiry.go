// Package inquiry validates, rate limits and forwards consultation requests from the contact form.
package inquiry

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/myoungji/website/internal/errors"
	"github.com/myoungji/website/internal/models"
)

const (
	// DefaultCooldown is the minimum time between two successful submissions of one client.
	DefaultCooldown = 5 * time.Minute

	lastSubmissionSessionKey = "inquiry_last_submission"
)

const (
	MessageSubmitted = "상담 신청이 완료되었습니다. 빠른 시일 내에 연락드리겠습니다."
	MessageFailed    = "전송 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9-]{9,20}$`)
)

// Form is the raw contact form input.
type Form struct {
	Company           string
	Name              string
	Phone             string
	Email             string
	VehicleType       string
	HasExistingSystem string
	Purpose           string
	Consent           bool
	// Honeypot is a field hidden from humans. Anything in it means the form was filled in by a bot.
	Honeypot string
}

// ValidationError reports the first failed rule. Message is meant for the visitor.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid inquiry"
	}
	return "invalid inquiry field " + e.Field
}

// RateLimitError rejects a submission inside the cooldown window.
type RateLimitError struct {
	Wait time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("inquiry rate limited for %s", e.Wait)
}

// Minutes is the remaining wait rounded up to whole minutes.
func (e *RateLimitError) Minutes() int {
	return int(math.Ceil(e.Wait.Minutes()))
}

// Message is meant for the visitor.
func (e *RateLimitError) Message() string {
	return fmt.Sprintf("잠시 후 다시 시도해주세요. %d분 후에 다시 신청하실 수 있습니다.", e.Minutes())
}

// Inserter stores a normalized inquiry.
type Inserter interface {
	Insert(ctx context.Context, inquiry models.Inquiry) error
}

type Controller struct {
	inserter       Inserter
	sessionManager *scs.SessionManager
	cooldown       time.Duration
	now            func() time.Time
	logger         *slog.Logger
}

func NewController(
	inserter Inserter,
	sessionManager *scs.SessionManager,
	cooldown time.Duration,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		inserter:       inserter,
		sessionManager: sessionManager,
		cooldown:       cooldown,
		now:            time.Now,
		logger:         logger.With("source", "inquiry"),
	}
}

// WithClock replaces the time source.
func (c *Controller) WithClock(now func() time.Time) *Controller {
	c.now = now
	return c
}

// Submit validates form and forwards it to the inserter.
//
// The cooldown is checked first, then the form rules. The last successful submission time lives in the client
// session, so a client that drops its cookies is not limited.
func (c *Controller) Submit(ctx context.Context, form Form) (models.Inquiry, error) {
	now := c.now()

	if last := c.sessionManager.GetTime(ctx, lastSubmissionSessionKey); !last.IsZero() {
		if elapsed := now.Sub(last); elapsed < c.cooldown {
			return models.Inquiry{}, &RateLimitError{Wait: c.cooldown - elapsed}
		}
	}

	inquiry := normalize(form, now)
	if err := validate(form, inquiry); err != nil {
		c.logger.LogAttrs(ctx, slog.LevelInfo, "inquiry rejected", slog.String("reason", err.Error()))
		return models.Inquiry{}, err
	}

	if err := c.inserter.Insert(ctx, inquiry); err != nil {
		return models.Inquiry{}, errors.Wrap(err, "insert inquiry")
	}

	c.sessionManager.Put(ctx, lastSubmissionSessionKey, now)
	c.logger.LogAttrs(ctx, slog.LevelInfo, "inquiry submitted", slog.String("company", inquiry.Company))
	return inquiry, nil
}

// UserMessage maps a Submit error to text for the visitor.
func UserMessage(err error) string {
	var (
		validationErr *ValidationError
		rateLimitErr  *RateLimitError
	)
	switch {
	case err == nil:
		return MessageSubmitted
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.As(err, &rateLimitErr):
		return rateLimitErr.Message()
	default:
		return MessageFailed
	}
}

func normalize(form Form, now time.Time) models.Inquiry {
	existing := strings.TrimSpace(form.HasExistingSystem)
	if !slices.Contains(models.ExistingSystemChoices, existing) {
		existing = models.ExistingSystemChoices[0]
	}
	return models.Inquiry{
		Company:           strings.TrimSpace(form.Company),
		Name:              strings.TrimSpace(form.Name),
		Phone:             strings.TrimSpace(form.Phone),
		Email:             strings.TrimSpace(form.Email),
		VehicleType:       strings.TrimSpace(form.VehicleType),
		HasExistingSystem: existing,
		Purpose:           strings.TrimSpace(form.Purpose),
		CreatedAt:         now,
	}
}

func validate(form Form, inquiry models.Inquiry) error {
	if form.Honeypot != "" {
		return &ValidationError{Message: "요청을 처리할 수 없습니다. 잠시 후 다시 시도해주세요."}
	}

	required := []struct {
		field, value, label string
	}{
		{"company", inquiry.Company, "업체명"},
		{"name", inquiry.Name, "담당자명"},
		{"phone", inquiry.Phone, "연락처"},
		{"email", inquiry.Email, "이메일"},
		{"purpose", inquiry.Purpose, "제작 목적 및 요청사항"},
	}
	for _, r := range required {
		if r.value == "" {
			return &ValidationError{Field: r.field, Message: r.label + "을(를) 입력해주세요."}
		}
	}

	if !emailPattern.MatchString(inquiry.Email) {
		return &ValidationError{Field: "email", Message: "올바른 이메일 주소를 입력해주세요."}
	}
	if !phonePattern.MatchString(inquiry.Phone) {
		return &ValidationError{Field: "phone", Message: "연락처는 숫자와 하이픈(-)만 사용하여 입력해주세요."}
	}
	if !form.Consent {
		return &ValidationError{Field: "consent", Message: "개인정보 수집 및 이용에 동의해주세요."}
	}
	return nil
}
