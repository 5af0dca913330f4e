package main

import (
	"context"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/myoungji/website/internal/catalog"
	"github.com/myoungji/website/internal/dataurl"
	"github.com/myoungji/website/internal/editor"
	"github.com/myoungji/website/internal/errors"
	"github.com/myoungji/website/internal/models"
)

const (
	editorDraftSessionKey = "editor_draft"
	// editorFormMemory is the part of a multipart form kept in memory. Larger uploads spill to temporary files.
	editorFormMemory = 32 << 20

	opUpdate      = "update"
	opSave        = "save"
	opCancel      = "cancel"
	opClearImages = "clear-images"
	opRemoveImage = "remove-image:"
)

// sessionDraft returns the open draft of the admin session.
func (app *application) sessionDraft(ctx context.Context) (models.Case, bool) {
	draft, ok := app.sessionManager.Get(ctx, editorDraftSessionKey).(models.Case)
	return draft, ok
}

// resumeEditor rebuilds the editor from the draft kept in the session. The editor is closed without a draft.
func (app *application) resumeEditor(ctx context.Context) *editor.Editor {
	draft, ok := app.sessionDraft(ctx)
	if !ok {
		return editor.New(app.encoder)
	}
	return editor.Resume(app.encoder, &draft)
}

// keepDraft settles e and stores the draft in the session. A closed editor removes it.
func (app *application) keepDraft(ctx context.Context, e *editor.Editor) error {
	if !e.Editing() {
		app.sessionManager.Remove(ctx, editorDraftSessionKey)
		return nil
	}
	draft, err := e.Draft(ctx)
	app.sessionManager.Put(ctx, editorDraftSessionKey, draft)
	return err
}

type editorField struct {
	Name        string
	Label       string
	Placeholder string
	Value       string
	Multiline   bool
}

type editorSection struct {
	Title  string
	Fields []editorField
}

type editorFieldLabel struct {
	label       string
	placeholder string
}

var editorSections = []struct { //nolint:gochecknoglobals // static form layout
	title  string
	fields []editor.Field
}{
	{"개요 정보", []editor.Field{
		editor.FieldOverviewType, editor.FieldOverviewIndustry, editor.FieldOverviewPurpose,
		editor.FieldOverviewLocation, editor.FieldOverviewDuration,
	}},
	{"고객 요청사항 (한 줄씩 입력)", []editor.Field{editor.FieldRequirements}},
	{"솔루션", []editor.Field{
		editor.FieldSolutionDesign, editor.FieldSolutionWiring, editor.FieldSolutionSafety, editor.FieldSolutionTest,
	}},
	{"적용 기술 스택 (한 줄씩 입력)", []editor.Field{editor.FieldTechnologies}},
	{"제작 결과", []editor.Field{
		editor.FieldResultsEfficiency, editor.FieldResultsStability, editor.FieldResultsMaintenance,
	}},
}

var editorFieldLabels = map[editor.Field]editorFieldLabel{ //nolint:gochecknoglobals // static form layout
	editor.FieldOverviewType:       {"차량 종류", ""},
	editor.FieldOverviewIndustry:   {"적용 산업군", ""},
	editor.FieldOverviewPurpose:    {"제작 목적", ""},
	editor.FieldOverviewLocation:   {"납품 지역", ""},
	editor.FieldOverviewDuration:   {"제작 기간", ""},
	editor.FieldRequirements:       {"고객 요청사항", "요청사항1\n요청사항2"},
	editor.FieldSolutionDesign:     {"제어 시스템 설계 방식", ""},
	editor.FieldSolutionWiring:     {"배선 및 전장 구성", ""},
	editor.FieldSolutionSafety:     {"안전 설계 적용 내용", ""},
	editor.FieldSolutionTest:       {"테스트 및 검증 과정", ""},
	editor.FieldTechnologies:       {"적용 기술", "PLC\nCAN 통신"},
	editor.FieldResultsEfficiency:  {"작업 효율 향상", ""},
	editor.FieldResultsStability:   {"안정성 개선", ""},
	editor.FieldResultsMaintenance: {"유지보수 절감", ""},
}

func newEditorSections(draft models.Case) []editorSection {
	sections := make([]editorSection, 0, len(editorSections))
	for _, s := range editorSections {
		section := editorSection{Title: s.title}
		for _, f := range s.fields {
			label := editorFieldLabels[f]
			section.Fields = append(section.Fields, editorField{
				Name:        f.String(),
				Label:       label.label,
				Placeholder: label.placeholder,
				Value:       f.Value(draft),
				Multiline:   f == editor.FieldRequirements || f == editor.FieldTechnologies,
			})
		}
		sections = append(sections, section)
	}
	return sections
}

type adminEditorTemplateData struct {
	BaseTemplateData
	Draft        models.Case
	Categories   []string
	Sections     []editorSection
	Error        string
	ConfirmClear bool
}

func (app *application) newAdminEditorTemplateData(r *http.Request, draft models.Case) adminEditorTemplateData {
	return adminEditorTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r, "제작사례 편집"),
		Draft:            draft,
		Categories:       models.Categories,
		Sections:         newEditorSections(draft),
	}
}

// editorMessage maps expected editor failures to a message for the admin. Unexpected failures return false.
func editorMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, editor.ErrThumbnailRequired):
		return "썸네일 이미지를 등록해주세요.", true
	case errors.Is(err, editor.ErrTitleRequired):
		return "제목을 입력해주세요.", true
	case errors.Is(err, editor.ErrInvalidCategory):
		return "알 수 없는 카테고리입니다.", true
	case errors.Is(err, dataurl.ErrNotImage):
		return "이미지 파일만 업로드할 수 있습니다.", true
	case errors.Is(err, dataurl.ErrImageTooLarge):
		return "이미지 용량이 너무 큽니다.", true
	case errors.Is(err, editor.ErrNoImages), errors.Is(err, editor.ErrImageIndex):
		return "삭제할 이미지를 찾을 수 없습니다.", true
	default:
		return "", false
	}
}

// openEditor starts editing through open unless a draft is already open in the session.
func (app *application) openEditor(w http.ResponseWriter, r *http.Request, open func(e *editor.Editor) error) {
	ctx := r.Context()
	e := app.resumeEditor(ctx)
	if e.Editing() {
		app.flash(ctx, "편집 중인 사례를 먼저 저장하거나 취소해주세요.")
		http.Redirect(w, r, "/admin/editor", http.StatusSeeOther)
		return
	}
	if err := open(e); err != nil {
		app.serverError(w, r, err)
		return
	}
	if err := app.keepDraft(ctx, e); err != nil {
		app.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/editor", http.StatusSeeOther)
}

func (app *application) adminNewCasePOST(w http.ResponseWriter, r *http.Request) {
	app.openEditor(w, r, func(e *editor.Editor) error {
		return e.Create()
	})
}

func (app *application) adminEditCasePOST(w http.ResponseWriter, r *http.Request) {
	c, err := app.cases.Get(r.PathValue("caseID"))
	if errors.Is(err, catalog.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.openEditor(w, r, func(e *editor.Editor) error {
		return e.Edit(c)
	})
}

func (app *application) adminEditor(w http.ResponseWriter, r *http.Request) {
	draft, ok := app.sessionDraft(r.Context())
	if !ok {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	app.render(w, r, http.StatusOK, "admin-editor", app.newAdminEditorTemplateData(r, draft))
}

// adminEditorPOST applies the submitted fields and uploads to the draft and then runs the requested op.
//
// Every submission carries the whole form so that no typed text is lost when an image is removed or the draft is
// saved. Ops other than save and cancel keep the editor open and render the form again.
func (app *application) adminEditorPOST(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e := app.resumeEditor(ctx)
	if !e.Editing() {
		app.redirect(w, r, "/admin")
		return
	}

	if err := r.ParseMultipartForm(editorFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	var failures []error
	for _, field := range editor.Fields() {
		if values, ok := r.PostForm[field.String()]; ok && len(values) > 0 {
			if err := e.SetField(field, values[0]); err != nil {
				failures = append(failures, err)
			}
		}
	}
	if r.MultipartForm != nil {
		if thumbnails := uploadedImages(r.MultipartForm.File["thumbnail"]); len(thumbnails) > 0 {
			if _, err := e.AttachThumbnail(ctx, thumbnails[len(thumbnails)-1]); err != nil {
				failures = append(failures, err)
			}
		}
		if images := uploadedImages(r.MultipartForm.File["images"]); len(images) > 0 {
			if _, err := e.AddImages(ctx, images...); err != nil {
				failures = append(failures, err)
			}
		}
	}
	// Uploads are settled now because the multipart temporary files are removed after the request.
	if err := app.keepDraft(ctx, e); err != nil {
		failures = append(failures, err)
	}

	confirmClear := false
	op := r.PostForm.Get("op")
	switch {
	case op == opCancel:
		e.Cancel()
		app.sessionManager.Remove(ctx, editorDraftSessionKey)
		app.flash(ctx, "편집을 취소했습니다.")
		app.redirect(w, r, "/admin")
		return
	case op == opSave && len(failures) == 0:
		if err := e.Save(ctx, app.cases); err != nil {
			failures = append(failures, err)
			break
		}
		app.sessionManager.Remove(ctx, editorDraftSessionKey)
		app.flash(ctx, "저장되었습니다.")
		app.redirect(w, r, "/admin")
		return
	case op == opClearImages:
		if r.PostForm.Get("confirm_clear") != "yes" {
			confirmClear = true
			break
		}
		if err := e.ClearImages(); err != nil {
			failures = append(failures, err)
		}
	case strings.HasPrefix(op, opRemoveImage):
		i, err := strconv.Atoi(strings.TrimPrefix(op, opRemoveImage))
		if err != nil {
			app.clientError(w, r, http.StatusBadRequest)
			return
		}
		if err = e.RemoveImage(i); err != nil {
			failures = append(failures, err)
		}
	case op == opUpdate, op == opSave, op == "":
		// Fields and uploads are applied above.
	default:
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	if err := app.keepDraft(ctx, e); err != nil {
		failures = append(failures, err)
	}

	draft, _ := app.sessionDraft(ctx)
	data := app.newAdminEditorTemplateData(r, draft)
	data.ConfirmClear = confirmClear
	var messages []string
	for _, err := range failures {
		message, ok := editorMessage(err)
		if !ok {
			app.serverError(w, r, err)
			return
		}
		app.logger.LogAttrs(ctx, slog.LevelDebug, "editor rejected input", errors.SlogError(err))
		messages = append(messages, message)
	}
	data.Error = strings.Join(messages, " ")

	app.renderFragment(w, r, http.StatusOK, "admin-editor", "editor-form", data)
}

// uploadedImages skips the empty parts browsers send for file inputs without a selection.
func uploadedImages(headers []*multipart.FileHeader) []dataurl.Source {
	sources := make([]dataurl.Source, 0, len(headers))
	for _, fh := range headers {
		if fh.Size == 0 && fh.Filename == "" {
			continue
		}
		sources = append(sources, dataurl.FromFileHeader(fh))
	}
	return sources
}
