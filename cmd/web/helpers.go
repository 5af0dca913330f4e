package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/myoungji/website/internal/errors"
)

const flashSessionKey = "flash"

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelDebug, http.StatusText(status),
		slog.String("method", method), slog.String("uri", uri))
	http.Error(w, http.StatusText(status), status)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.clientError(w, r, http.StatusNotFound)
}

// flash stores a message shown once on the next rendered page.
func (app *application) flash(ctx context.Context, message string) {
	app.sessionManager.Put(ctx, flashSessionKey, message)
}

// redirect sends the browser to target after a successful POST. Requests made by htmx get HX-Redirect instead
// because htmx would otherwise swap the redirected page into the form.
func (app *application) redirect(w http.ResponseWriter, r *http.Request, target string) {
	if h := app.htmx.NewHandler(w, r); h.Request().HxRequest {
		h.Redirect(target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
