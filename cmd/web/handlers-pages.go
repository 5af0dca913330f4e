package main

import (
	"net/http"

	"github.com/myoungji/website/internal/catalog"
	"github.com/myoungji/website/internal/errors"
	"github.com/myoungji/website/internal/models"
)

type homeTemplateData struct {
	BaseTemplateData
	Competencies []competency
	LatestCases  []models.Case
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	data := homeTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r, ""),
		Competencies:     competencies,
		LatestCases:      app.cases.Latest(latestCaseCount),
	}

	app.render(w, r, http.StatusOK, "home", data)
}

type aboutTemplateData struct {
	BaseTemplateData
	ProcessSteps []processStep
}

func (app *application) about(w http.ResponseWriter, r *http.Request) {
	data := aboutTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r, "ABOUT 명지"),
		ProcessSteps:     processSteps,
	}

	app.render(w, r, http.StatusOK, "about", data)
}

type casesTemplateData struct {
	BaseTemplateData
	Categories []string
	// Selected is the active category filter. Empty shows every case.
	Selected string
	Cases    []models.Case
}

// caseList shows the portfolio filtered by the category query parameter.
func (app *application) caseList(w http.ResponseWriter, r *http.Request) {
	selected := r.URL.Query().Get("category")
	data := casesTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r, "제작사례"),
		Categories:       models.Categories,
		Selected:         selected,
		Cases:            app.cases.ByCategory(selected),
	}

	app.renderFragment(w, r, http.StatusOK, "cases", "cases-grid", data)
}

type caseTemplateData struct {
	BaseTemplateData
	Case models.Case
}

func (app *application) caseDetail(w http.ResponseWriter, r *http.Request) {
	c, err := app.cases.Get(r.PathValue("caseID"))
	if errors.Is(err, catalog.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	data := caseTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r, c.Title),
		Case:             c,
	}

	app.render(w, r, http.StatusOK, "case", data)
}
