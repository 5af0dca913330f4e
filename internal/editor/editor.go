// Package editor implements the administrator's case draft workflow.
//
// An Editor is either closed or editing exactly one draft. Drafts are only committed to the catalog through Save.
// An Editor belongs to a single request and is not safe for concurrent use; the draft survives between requests
// through Resume.
package editor

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/myoungji/website/internal/dataurl"
	"github.com/myoungji/website/internal/errors"
	"github.com/myoungji/website/internal/models"
)

var (
	ErrNotEditing        = errors.NewSentinel("editor is closed")
	ErrAlreadyEditing    = errors.NewSentinel("editor already has a draft")
	ErrThumbnailRequired = errors.NewSentinel("thumbnail required")
	ErrTitleRequired     = errors.NewSentinel("title required")
	ErrNoImages          = errors.NewSentinel("gallery is empty")
	ErrImageIndex        = errors.NewSentinel("image index out of range")
	ErrInvalidCategory   = errors.NewSentinel("invalid category")
)

// Upserter commits a finished draft.
type Upserter interface {
	Upsert(ctx context.Context, c models.Case) error
}

type pendingKind int

const (
	pendingThumbnail pendingKind = iota
	pendingGallery
)

type pending struct {
	kind     pendingKind
	encoding *dataurl.Encoding
}

type Editor struct {
	draft   *models.Case
	pending []pending
	encoder dataurl.Encoder
}

// New returns a closed editor.
func New(encoder dataurl.Encoder) *Editor {
	return &Editor{encoder: encoder}
}

// Resume continues editing draft. A nil draft resumes a closed editor.
//
// Drafts kept in a gob-encoded session lose their empty lists, so nil lists are restored as empty ones.
func Resume(encoder dataurl.Encoder, draft *models.Case) *Editor {
	e := New(encoder)
	if draft != nil {
		c := draft.Clone()
		fillLists(&c)
		e.draft = &c
	}
	return e
}

// fillLists replaces nil lists with empty ones so that saved cases always carry JSON arrays.
func fillLists(c *models.Case) {
	for _, list := range []*[]string{&c.Requirements, &c.Technologies, &c.Images} {
		if *list == nil {
			*list = []string{}
		}
	}
}

// Editing reports whether a draft is open.
func (e *Editor) Editing() bool {
	return e.draft != nil
}

// Create opens a blank draft with a fresh id.
func (e *Editor) Create() error {
	if e.Editing() {
		return ErrAlreadyEditing
	}
	id, err := uuid.NewV7()
	if err != nil {
		return errors.Wrap(err, "generate case id")
	}
	e.draft = &models.Case{
		ID:           id.String(),
		Category:     models.DefaultCategory(),
		Requirements: []string{""},
		Technologies: []string{""},
		Images:       []string{},
	}
	return nil
}

// Edit opens a deep copy of c as the draft.
func (e *Editor) Edit(c models.Case) error {
	if e.Editing() {
		return ErrAlreadyEditing
	}
	draft := c.Clone()
	fillLists(&draft)
	e.draft = &draft
	return nil
}

// SetField updates one field of the draft. List fields take newline-delimited text.
func (e *Editor) SetField(field Field, value string) error {
	if !e.Editing() {
		return ErrNotEditing
	}
	def, ok := fieldDefs[field]
	if !ok {
		return errors.Wrap(ErrUnknownField, "set field", slog.Int("field", int(field)))
	}
	if field == FieldCategory && !models.IsCategory(value) {
		return errors.Wrap(ErrInvalidCategory, "set category", slog.String("category", value))
	}
	if def.list != nil {
		*def.list(e.draft) = splitLines(value)
		return nil
	}
	*def.text(e.draft) = value
	return nil
}

// AttachThumbnail replaces the thumbnail once source is encoded.
func (e *Editor) AttachThumbnail(ctx context.Context, source dataurl.Source) (*dataurl.Encoding, error) {
	if !e.Editing() {
		return nil, ErrNotEditing
	}
	encoding := e.encoder.Encode(ctx, source)
	e.pending = append(e.pending, pending{kind: pendingThumbnail, encoding: encoding})
	return encoding, nil
}

// AddImages appends sources to the gallery in order once they are encoded.
func (e *Editor) AddImages(ctx context.Context, sources ...dataurl.Source) (*dataurl.Encoding, error) {
	if !e.Editing() {
		return nil, ErrNotEditing
	}
	encoding := e.encoder.Encode(ctx, sources...)
	e.pending = append(e.pending, pending{kind: pendingGallery, encoding: encoding})
	return encoding, nil
}

// RemoveImage removes the gallery image at index i, shifting later images left.
func (e *Editor) RemoveImage(i int) error {
	if !e.Editing() {
		return ErrNotEditing
	}
	if len(e.draft.Images) == 0 {
		return ErrNoImages
	}
	if i < 0 || i >= len(e.draft.Images) {
		return errors.Wrap(ErrImageIndex, "remove image",
			slog.Int("index", i), slog.Int("images", len(e.draft.Images)))
	}
	e.draft.Images = append(e.draft.Images[:i], e.draft.Images[i+1:]...)
	return nil
}

// ClearImages empties the gallery. The thumbnail is kept.
func (e *Editor) ClearImages() error {
	if !e.Editing() {
		return ErrNotEditing
	}
	e.draft.Images = []string{}
	return nil
}

// Draft waits for pending image encodings and returns a copy of the draft.
//
// Failed encodings are dropped from the queue and reported; the rest of the draft is still applied.
func (e *Editor) Draft(ctx context.Context) (models.Case, error) {
	if !e.Editing() {
		return models.Case{}, ErrNotEditing
	}
	err := e.settle(ctx)
	return e.draft.Clone(), err
}

func (e *Editor) settle(ctx context.Context) error {
	var errs []error
	for len(e.pending) > 0 {
		next := e.pending[0]
		urls, err := next.encoding.Wait(ctx)
		if err != nil && ctx.Err() != nil {
			// Keep the encoding queued so that a later call can still collect it.
			return errors.Wrap(errors.Join(append(errs, err)...), "settle images")
		}
		e.pending = e.pending[1:]
		if err != nil {
			errs = append(errs, err)
			continue
		}
		switch next.kind {
		case pendingThumbnail:
			if len(urls) > 0 {
				e.draft.Thumbnail = urls[len(urls)-1]
			}
		case pendingGallery:
			e.draft.Images = append(e.draft.Images, urls...)
		}
	}
	if len(errs) > 0 {
		return errors.Wrap(errors.Join(errs...), "settle images")
	}
	return nil
}

// Save commits the draft through store and closes the editor. Without a thumbnail or title the editor stays open.
func (e *Editor) Save(ctx context.Context, store Upserter) error {
	draft, err := e.Draft(ctx)
	if err != nil {
		return errors.Wrap(err, "finish draft")
	}
	if draft.Thumbnail == "" {
		return ErrThumbnailRequired
	}
	if strings.TrimSpace(draft.Title) == "" {
		return ErrTitleRequired
	}
	if err = store.Upsert(ctx, draft); err != nil {
		return errors.Wrap(err, "upsert draft", slog.String("case_id", draft.ID))
	}
	e.Cancel()
	return nil
}

// Cancel discards the draft without touching the catalog.
func (e *Editor) Cancel() {
	e.draft = nil
	e.pending = nil
}
