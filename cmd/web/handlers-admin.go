package main

import (
	"net/http"

	"github.com/myoungji/website/internal/catalog"
	"github.com/myoungji/website/internal/errors"
	"github.com/myoungji/website/internal/models"
)

const wrongSecretMessage = "비밀번호가 틀렸습니다."

type adminLoginTemplateData struct {
	BaseTemplateData
	Error string
}

func (app *application) adminLogin(w http.ResponseWriter, r *http.Request) {
	if app.gate.Authenticated(r.Context()) {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	data := adminLoginTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r, "관리자 로그인"),
	}

	app.render(w, r, http.StatusOK, "admin-login", data)
}

func (app *application) adminLoginPOST(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	ok, err := app.gate.Attempt(r.Context(), r.PostForm.Get("secret"))
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if !ok {
		data := adminLoginTemplateData{
			BaseTemplateData: app.newBaseTemplateData(r, "관리자 로그인"),
			Error:            wrongSecretMessage,
		}
		app.render(w, r, http.StatusOK, "admin-login", data)
		return
	}

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// adminLogoutPOST leaves the admin area and drops any unsaved draft.
func (app *application) adminLogoutPOST(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	app.sessionManager.Remove(ctx, editorDraftSessionKey)
	if err := app.gate.Logout(ctx); err != nil {
		app.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type adminCaseListTemplateData struct {
	BaseTemplateData
	Cases   []models.Case
	Editing bool
}

func (app *application) adminCaseList(w http.ResponseWriter, r *http.Request) {
	_, editing := app.sessionDraft(r.Context())
	data := adminCaseListTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r, "포트폴리오 관리"),
		Cases:            app.cases.List(),
		Editing:          editing,
	}

	app.render(w, r, http.StatusOK, "admin-list", data)
}

type adminInquiriesTemplateData struct {
	BaseTemplateData
	// Remote is set when inquiries are forwarded to the hosted table and not stored locally.
	Remote    bool
	Inquiries []models.Inquiry
}

func (app *application) adminInquiries(w http.ResponseWriter, r *http.Request) {
	data := adminInquiriesTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r, "상담 신청 내역"),
		Remote:           app.inquiryLog == nil,
	}
	if !data.Remote {
		var err error
		if data.Inquiries, err = app.inquiryLog.List(r.Context()); err != nil {
			app.serverError(w, r, err)
			return
		}
	}

	app.render(w, r, http.StatusOK, "admin-inquiries", data)
}

type adminDeleteTemplateData struct {
	BaseTemplateData
	Case models.Case
}

// adminDeleteCase asks for confirmation before deleting.
func (app *application) adminDeleteCase(w http.ResponseWriter, r *http.Request) {
	c, err := app.cases.Get(r.PathValue("caseID"))
	if errors.Is(err, catalog.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	data := adminDeleteTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r, "제작사례 삭제"),
		Case:             c,
	}

	app.render(w, r, http.StatusOK, "admin-delete", data)
}

func (app *application) adminDeleteCasePOST(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("caseID")
	if err := app.cases.Delete(ctx, id); err != nil {
		app.serverError(w, r, err)
		return
	}
	// A draft of the deleted case would bring it back on save.
	if draft, ok := app.sessionDraft(ctx); ok && draft.ID == id {
		app.sessionManager.Remove(ctx, editorDraftSessionKey)
	}
	app.flash(ctx, "삭제되었습니다.")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
