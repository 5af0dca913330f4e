package main

import (
	"net/http"

	htmxmw "github.com/donseba/go-htmx/middleware"
	"github.com/justinas/alice"
	"github.com/myoungji/website/internal/gate"
	"github.com/myoungji/website/ui"
)

const loginPath = "/admin/login"

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	// Embedded paths start with static/ so the request path maps onto them as is.
	mux.Handle("GET /static/", cacheHeaders(http.FileServerFS(ui.Files)))
	mux.HandleFunc("GET /api/healthy", app.healthy)

	session := alice.New(
		app.sessionManager.LoadAndSave, app.gate.AuthenticateMiddleware, app.noSurf, htmxmw.MiddleWare, commonContext,
	)
	admin := session.Append(gate.RequireAuthenticated(loginPath))

	mux.Handle("GET /{$}", session.ThenFunc(app.home))
	mux.Handle("GET /about", session.ThenFunc(app.about))
	mux.Handle("GET /cases", session.ThenFunc(app.caseList))
	mux.Handle("GET /cases/{caseID}", session.ThenFunc(app.caseDetail))
	mux.Handle("GET /contact", session.ThenFunc(app.contact))
	mux.Handle("POST /contact", session.ThenFunc(app.contactPOST))
	mux.Handle("GET /consult", session.ThenFunc(app.consult))
	mux.Handle("POST /consult", session.ThenFunc(app.consultPOST))

	mux.Handle("GET "+loginPath, session.ThenFunc(app.adminLogin))
	mux.Handle("POST "+loginPath, session.ThenFunc(app.adminLoginPOST))
	mux.Handle("POST /admin/logout", session.ThenFunc(app.adminLogoutPOST))
	mux.Handle("GET /admin", admin.ThenFunc(app.adminCaseList))
	mux.Handle("GET /admin/inquiries", admin.ThenFunc(app.adminInquiries))
	mux.Handle("POST /admin/cases/new", admin.ThenFunc(app.adminNewCasePOST))
	mux.Handle("POST /admin/cases/{caseID}/edit", admin.ThenFunc(app.adminEditCasePOST))
	mux.Handle("GET /admin/cases/{caseID}/delete", admin.ThenFunc(app.adminDeleteCase))
	mux.Handle("POST /admin/cases/{caseID}/delete", admin.ThenFunc(app.adminDeleteCasePOST))
	mux.Handle("GET /admin/editor", admin.ThenFunc(app.adminEditor))
	mux.Handle("POST /admin/editor", admin.ThenFunc(app.adminEditorPOST))

	common := alice.New(app.recoverPanic, app.logRequest, app.secureHeaders, app.limitRequestBody)
	return common.Then(timeoutHandler(mux, requestTimeout))
}
