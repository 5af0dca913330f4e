package editor_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/gob"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/myoungji/website/internal/dataurl"
	"github.com/myoungji/website/internal/editor"
	"github.com/myoungji/website/internal/errors"
	"github.com/myoungji/website/internal/models"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	upserted []models.Case
	err      error
}

func (s *recordingStore) Upsert(_ context.Context, c models.Case) error {
	if s.err != nil {
		return s.err
	}
	s.upserted = append(s.upserted, c)
	return nil
}

func newEditor() *editor.Editor {
	return editor.New(dataurl.Encoder{MaxBytes: 1024})
}

func png(name string) dataurl.Source {
	return dataurl.FromBytes(name, "image/png", []byte(name))
}

func pngURL(name string) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(name))
}

func TestEditor_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newEditor()
	require.False(t, e.Editing())

	require.NoError(t, e.Create())
	require.True(t, e.Editing())
	require.ErrorIs(t, e.Create(), editor.ErrAlreadyEditing)

	draft, err := e.Draft(ctx)
	require.NoError(t, err)
	_, err = uuid.Parse(draft.ID)
	require.NoError(t, err)
	require.Equal(t, models.Categories[0], draft.Category)
	require.Equal(t, []string{""}, draft.Requirements)
	require.Equal(t, []string{""}, draft.Technologies)
	require.Empty(t, draft.Images)
	require.Empty(t, draft.Thumbnail)

	other := newEditor()
	require.NoError(t, other.Create())
	otherDraft, err := other.Draft(ctx)
	require.NoError(t, err)
	require.NotEqual(t, draft.ID, otherDraft.ID)
}

func TestEditor_EditCopiesCase(t *testing.T) {
	t.Parallel()
	original := models.Case{ID: "1", Title: "원본", Requirements: []string{"a"}, Images: []string{"x"}}
	e := newEditor()
	require.NoError(t, e.Edit(original))
	require.NoError(t, e.SetField(editor.FieldRequirements, "changed"))
	require.NoError(t, e.RemoveImage(0))

	require.Equal(t, []string{"a"}, original.Requirements)
	require.Equal(t, []string{"x"}, original.Images)
}

func TestEditor_SetField(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		field string
		value string
		check func(t *testing.T, c models.Case)
	}{
		{"title", "title", "고소작업차", func(t *testing.T, c models.Case) {
			require.Equal(t, "고소작업차", c.Title)
		}},
		{"category", "category", models.Categories[4], func(t *testing.T, c models.Case) {
			require.Equal(t, models.Categories[4], c.Category)
		}},
		{"overview", "overview.location", "경기도 안산", func(t *testing.T, c models.Case) {
			require.Equal(t, "경기도 안산", c.Overview.Location)
		}},
		{"solution", "solution.safety", "비상 정지", func(t *testing.T, c models.Case) {
			require.Equal(t, "비상 정지", c.Solution.Safety)
		}},
		{"results", "results.maintenance", "50% 절감", func(t *testing.T, c models.Case) {
			require.Equal(t, "50% 절감", c.Results.Maintenance)
		}},
		{"requirements keep blank lines", "requirements", "a\r\n\r\n b ", func(t *testing.T, c models.Case) {
			require.Equal(t, []string{"a", "", " b "}, c.Requirements)
		}},
		{"technologies empty text", "technologies", "", func(t *testing.T, c models.Case) {
			require.Equal(t, []string{""}, c.Technologies)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newEditor()
			require.NoError(t, e.Create())
			field, err := editor.ParseField(tt.field)
			require.NoError(t, err)
			require.Equal(t, tt.field, field.String())
			require.NoError(t, e.SetField(field, tt.value))
			draft, err := e.Draft(context.Background())
			require.NoError(t, err)
			tt.check(t, draft)
		})
	}
}

func TestEditor_SetFieldErrors(t *testing.T) {
	t.Parallel()
	_, err := editor.ParseField("overview.color")
	require.ErrorIs(t, err, editor.ErrUnknownField)

	e := newEditor()
	require.ErrorIs(t, e.SetField(editor.FieldTitle, "x"), editor.ErrNotEditing)
	require.NoError(t, e.Create())
	require.ErrorIs(t, e.SetField(editor.FieldCategory, "우주선"), editor.ErrInvalidCategory)
}

func TestEditor_FieldValueRoundTrip(t *testing.T) {
	t.Parallel()
	c := models.Case{Title: "t", Overview: models.Overview{Duration: "3개월"}, Technologies: []string{"PLC", "CAN"}}
	require.Equal(t, "t", editor.FieldTitle.Value(c))
	require.Equal(t, "3개월", editor.FieldOverviewDuration.Value(c))
	require.Equal(t, "PLC\nCAN", editor.FieldTechnologies.Value(c))
	require.Len(t, editor.Fields(), 16)
}

func TestEditor_Images(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newEditor()
	require.NoError(t, e.Create())

	require.ErrorIs(t, e.RemoveImage(0), editor.ErrNoImages)

	_, err := e.AttachThumbnail(ctx, png("thumb-1"))
	require.NoError(t, err)
	encoding, err := e.AttachThumbnail(ctx, png("thumb-2"))
	require.NoError(t, err)
	urls, err := encoding.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{pngURL("thumb-2")}, urls)

	_, err = e.AddImages(ctx, png("a"), png("b"))
	require.NoError(t, err)
	_, err = e.AddImages(ctx, png("c"))
	require.NoError(t, err)

	draft, err := e.Draft(ctx)
	require.NoError(t, err)
	require.Equal(t, pngURL("thumb-2"), draft.Thumbnail, "thumbnail is fully replaced")
	require.Equal(t, []string{pngURL("a"), pngURL("b"), pngURL("c")}, draft.Images)

	require.ErrorIs(t, e.RemoveImage(3), editor.ErrImageIndex)
	require.ErrorIs(t, e.RemoveImage(-1), editor.ErrImageIndex)
	require.NoError(t, e.RemoveImage(1))
	draft, err = e.Draft(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{pngURL("a"), pngURL("c")}, draft.Images)

	require.NoError(t, e.ClearImages())
	draft, err = e.Draft(ctx)
	require.NoError(t, err)
	require.Empty(t, draft.Images)
	require.Equal(t, pngURL("thumb-2"), draft.Thumbnail)
}

func TestEditor_FailedEncodingIsDropped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newEditor()
	require.NoError(t, e.Create())

	_, err := e.AddImages(ctx, dataurl.FromBytes("notes.txt", "text/plain", []byte("hello")))
	require.NoError(t, err)
	_, err = e.AddImages(ctx, png("ok"))
	require.NoError(t, err)

	draft, err := e.Draft(ctx)
	require.ErrorIs(t, err, dataurl.ErrNotImage)
	require.Equal(t, []string{pngURL("ok")}, draft.Images)

	// The failure is reported once.
	_, err = e.Draft(ctx)
	require.NoError(t, err)
}

func TestEditor_Save(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &recordingStore{}
	e := newEditor()
	require.NoError(t, e.Create())

	require.ErrorIs(t, e.Save(ctx, store), editor.ErrThumbnailRequired)
	require.True(t, e.Editing(), "editor stays open without thumbnail")
	require.Empty(t, store.upserted)

	_, err := e.AttachThumbnail(ctx, png("thumb"))
	require.NoError(t, err)
	require.ErrorIs(t, e.Save(ctx, store), editor.ErrTitleRequired)
	require.NoError(t, e.SetField(editor.FieldTitle, "신규 사례"))

	store.err = errors.NewSentinel("disk full")
	require.Error(t, e.Save(ctx, store))
	require.True(t, e.Editing(), "editor stays open when the store fails")

	store.err = nil
	require.NoError(t, e.Save(ctx, store))
	require.False(t, e.Editing())
	require.Len(t, store.upserted, 1)
	require.Equal(t, "신규 사례", store.upserted[0].Title)
	require.Equal(t, pngURL("thumb"), store.upserted[0].Thumbnail)
}

func TestEditor_CancelAndResume(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newEditor()
	require.NoError(t, e.Edit(models.Case{ID: "1", Title: "draft"}))
	draft, err := e.Draft(ctx)
	require.NoError(t, err)

	resumed := editor.Resume(dataurl.Encoder{MaxBytes: 1024}, &draft)
	require.True(t, resumed.Editing())
	got, err := resumed.Draft(ctx)
	require.NoError(t, err)
	require.Equal(t, "draft", got.Title)

	resumed.Cancel()
	require.False(t, resumed.Editing())
	_, err = resumed.Draft(ctx)
	require.ErrorIs(t, err, editor.ErrNotEditing)

	require.False(t, editor.Resume(dataurl.Encoder{}, nil).Editing())
}

func TestEditor_ResumeGobSessionDraft(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	gob.Register(models.Case{})
	e := newEditor()
	require.NoError(t, e.Create())
	draft, err := e.Draft(ctx)
	require.NoError(t, err)
	draft.Technologies = []string{}

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(map[string]any{"draft": draft}))
	var values map[string]any
	require.NoError(t, gob.NewDecoder(&buf).Decode(&values))
	decoded, ok := values["draft"].(models.Case)
	require.True(t, ok)
	require.Nil(t, decoded.Images, "gob drops empty lists")

	resumed := editor.Resume(dataurl.Encoder{MaxBytes: 1024}, &decoded)
	require.NoError(t, resumed.SetField(editor.FieldTitle, "세션 초안"))
	_, err = resumed.AttachThumbnail(ctx, png("thumb"))
	require.NoError(t, err)
	store := &recordingStore{}
	require.NoError(t, resumed.Save(ctx, store))

	require.Len(t, store.upserted, 1)
	saved := store.upserted[0]
	images, err := json.Marshal(saved.Images)
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(images))
	technologies, err := json.Marshal(saved.Technologies)
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(technologies))
	require.Equal(t, []string{""}, saved.Requirements)
}

func TestEditor_SaveBlankDraft(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &recordingStore{}
	e := newEditor()
	require.NoError(t, e.Create())
	require.NoError(t, e.SetField(editor.FieldTitle, "Test"))
	_, err := e.AddImages(ctx)
	require.NoError(t, err)
	_, err = e.AttachThumbnail(ctx, dataurl.FromBytes("t.png", "image/png", []byte{0, 0, 0}))
	require.NoError(t, err)
	require.NoError(t, e.Save(ctx, store))

	require.Len(t, store.upserted, 1)
	saved := store.upserted[0]
	require.Equal(t, "Test", saved.Title)
	require.Equal(t, "data:image/png;base64,AAAA", saved.Thumbnail)
	require.Equal(t, models.Categories[0], saved.Category)
	require.Equal(t, models.Overview{}, saved.Overview)
	require.Equal(t, models.Solution{}, saved.Solution)
	require.Equal(t, models.Results{}, saved.Results)
	require.Empty(t, saved.Images)
}
