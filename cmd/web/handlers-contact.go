package main

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/myoungji/website/internal/ai"
	"github.com/myoungji/website/internal/errors"
	"github.com/myoungji/website/internal/inquiry"
	"github.com/myoungji/website/internal/models"
)

type contactTemplateData struct {
	BaseTemplateData
	Form    inquiry.Form
	Choices []string
	Message string
	Failed  bool
}

func (app *application) contact(w http.ResponseWriter, r *http.Request) {
	data := contactTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r, "상담 신청"),
		Form:             inquiry.Form{HasExistingSystem: models.ExistingSystemChoices[0]},
		Choices:          models.ExistingSystemChoices,
	}

	app.render(w, r, http.StatusOK, "contact", data)
}

// contactPOST submits the inquiry form. The form is cleared after a successful submission and kept otherwise.
//
// Rejections are rendered with 200 OK so that htmx swaps the message into the page.
func (app *application) contactPOST(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	form := inquiry.Form{
		Company:           r.PostForm.Get("company"),
		Name:              r.PostForm.Get("name"),
		Phone:             r.PostForm.Get("phone"),
		Email:             r.PostForm.Get("email"),
		VehicleType:       r.PostForm.Get("vehicle_type"),
		HasExistingSystem: r.PostForm.Get("has_existing_system"),
		Purpose:           r.PostForm.Get("purpose"),
		Consent:           r.PostForm.Get("consent") != "",
		Honeypot:          r.PostForm.Get("website"),
	}

	_, err := app.inquiries.Submit(ctx, form)
	var (
		validationErr *inquiry.ValidationError
		rateLimitErr  *inquiry.RateLimitError
	)
	switch {
	case err == nil:
		form = inquiry.Form{HasExistingSystem: models.ExistingSystemChoices[0]}
	case errors.As(err, &validationErr), errors.As(err, &rateLimitErr):
		// Shown to the visitor as is.
	default:
		app.logger.LogAttrs(ctx, slog.LevelError, "failed to forward inquiry", errors.SlogError(err))
	}

	data := contactTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r, "상담 신청"),
		Form:             form,
		Choices:          models.ExistingSystemChoices,
		Message:          inquiry.UserMessage(err),
		Failed:           err != nil,
	}

	app.renderFragment(w, r, http.StatusOK, "contact", "contact-form", data)
}

const (
	consultEmptyMessage  = "문의 내용을 입력해주세요."
	consultFailedMessage = "AI 상담 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
)

type consultTemplateData struct {
	BaseTemplateData
	Enabled  bool
	Question string
	Answer   string
	Error    string
}

func (app *application) consult(w http.ResponseWriter, r *http.Request) {
	data := consultTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r, "AI 기술 상담"),
		Enabled:          app.consultant != nil,
	}

	app.render(w, r, http.StatusOK, "consult", data)
}

func (app *application) consultPOST(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if app.consultant == nil {
		app.notFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	data := consultTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r, "AI 기술 상담"),
		Enabled:          true,
		Question:         strings.TrimSpace(r.PostForm.Get("question")),
	}

	answer, err := app.consultant.Consult(ctx, data.Question)
	switch {
	case errors.Is(err, ai.ErrEmptyQuestion):
		data.Error = consultEmptyMessage
	case err != nil:
		app.logger.LogAttrs(ctx, slog.LevelError, "AI consultation failed", errors.SlogError(err))
		data.Error = consultFailedMessage
	default:
		data.Answer = answer
	}

	app.renderFragment(w, r, http.StatusOK, "consult", "consult-form", data)
}
