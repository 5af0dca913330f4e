package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/myoungji/website/internal/contexthelpers"
	"github.com/myoungji/website/internal/errors"
	"github.com/myoungji/website/ui"
)

type BaseTemplateData struct {
	Authenticated bool
	CurrentPath   string
	Title         string
	Flash         string
	Contact       contactInfo
	Year          int
}

func (app *application) newBaseTemplateData(r *http.Request, title string) BaseTemplateData {
	ctx := r.Context()
	return BaseTemplateData{
		Authenticated: contexthelpers.IsAuthenticated(ctx),
		CurrentPath:   contexthelpers.CurrentPath(ctx),
		Title:         title,
		Flash:         app.sessionManager.PopString(ctx, flashSessionKey),
		Contact:       siteContact,
		Year:          time.Now().Year(),
	}
}

// templateCache maps a page name to its parsed templates.
//
// A page name corresponds to a directory inside ui/templates/pages. It has to include a template named "page" and
// may define named fragments that are rendered on their own for htmx requests.
type templateCache map[string]*template.Template

var templateFuncs = template.FuncMap{ //nolint:gochecknoglobals // parse time functions
	// nonce and csrf are replaced per request in render.
	"nonce": func() template.HTMLAttr {
		panic("not implemented")
	},
	"csrf": func() template.HTML {
		panic("not implemented")
	},
	"imageURL": imageURL,
	"add": func(a, b int) int {
		return a + b
	},
}

func newTemplateCache() (templateCache, error) {
	pageDirs, err := fs.Glob(ui.Files, "templates/pages/*")
	if err != nil {
		return nil, errors.Wrap(err, "glob page directories")
	}

	cache := templateCache{}
	for _, dir := range pageDirs {
		name := path.Base(dir)
		var t *template.Template
		if t, err = template.New(name).Funcs(templateFuncs).ParseFS(ui.Files,
			"templates/base.gohtml",
			"templates/partials/*.gohtml",
			dir+"/*.gohtml",
		); err != nil {
			return nil, errors.Wrap(err, "parse page template", slog.String("page", name))
		}
		cache[name] = t
	}
	return cache, nil
}

// imageURL allows the image sources the site stores: inlined image data URLs and remote http(s) URLs.
func imageURL(src string) template.URL {
	switch {
	case strings.HasPrefix(src, "data:image/"),
		strings.HasPrefix(src, "https://"),
		strings.HasPrefix(src, "http://"),
		strings.HasPrefix(src, "/static/"):
		return template.URL(src) //nolint:gosec // restricted to the schemes above
	default:
		return ""
	}
}

// render executes the full page.
func (app *application) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	app.renderTemplate(w, r, status, page, "base", data)
}

// renderFragment executes fragment alone for htmx requests and the full page otherwise.
func (app *application) renderFragment(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	page string,
	fragment string,
	data any,
) {
	name := "base"
	if app.htmx.NewHandler(w, r).Request().HxRequest {
		name = fragment
	}
	app.renderTemplate(w, r, status, page, name, data)
}

func (app *application) renderTemplate(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	page string,
	name string,
	data any,
) {
	cached, ok := app.templates[page]
	if !ok {
		app.serverError(w, r, errors.New("template not found", slog.String("page", page)))
		return
	}

	// The cached template is shared between requests so the per request functions go to a clone.
	t, err := cached.Clone()
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "clone template", slog.String("page", page)))
		return
	}

	ctx := r.Context()
	nonce := fmt.Sprintf("nonce=\"%s\"", contexthelpers.CSPNonce(ctx))
	csrf := fmt.Sprintf("<input type=\"hidden\" name=\"csrf_token\" value=\"%s\"/>", contexthelpers.CSRFToken(ctx))
	t.Funcs(template.FuncMap{
		"nonce": func() template.HTMLAttr {
			return template.HTMLAttr(nonce) //nolint:gosec // we trust the nonce since it's not provided by user.
		},
		"csrf": func() template.HTML {
			return template.HTML(csrf) //nolint:gosec // we trust the csrf since it's not provided by user.
		},
	})

	buf := new(bytes.Buffer)
	if err = t.ExecuteTemplate(buf, name, data); err != nil {
		app.serverError(w, r, errors.Wrap(err, "execute template",
			slog.String("page", page), slog.String("template", name)))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	_, _ = buf.WriteTo(w)
}
