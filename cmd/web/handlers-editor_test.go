package main

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/myoungji/website/internal/e2etest"
	"github.com/myoungji/website/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pngSignature = "\x89PNG\r\n\x1a\n"

func pngFile(field, name string) e2etest.File {
	return e2etest.File{
		Field:       field,
		Filename:    name + ".png",
		ContentType: "image/png",
		Data:        []byte(pngSignature + name),
	}
}

func pngDataURL(name string) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(pngSignature+name))
}

func galleryImages(doc *goquery.Document) []string {
	var srcs []string
	doc.Find("fieldset.gallery li img").Each(func(_ int, img *goquery.Selection) {
		srcs = append(srcs, img.AttrOr("src", ""))
	})
	return srcs
}

func submitEditor(t *testing.T, client *e2etest.Client, values url.Values, files ...e2etest.File) *goquery.Document {
	t.Helper()
	doc, err := client.SubmitMultipartForm(context.Background(), "/admin/editor", "/admin/editor", values, files)
	require.NoError(t, err)
	return doc
}

func Test_application_editorCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := startTestServer(t, nil)
	client := loggedInClient(t, server)

	doc, err := client.SubmitForm(ctx, "/admin", "/admin/cases/new", nil)
	require.NoError(t, err)
	require.Equal(t, "제작사례 편집", doc.Find("h1").Text())
	assert.Empty(t, doc.Find("input[name=title]").AttrOr("value", "missing"))
	assert.Equal(t, models.Categories[0], doc.Find("select[name=category] option[selected]").AttrOr("value", ""))
	assert.Equal(t, 1, doc.Find("textarea[name=requirements]").Length())
	assert.Empty(t, galleryImages(doc))

	doc = submitEditor(t, client, url.Values{"title": {"신규 방역차 제어"}, "op": {"save"}})
	assert.Equal(t, "썸네일 이미지를 등록해주세요.", doc.Find("#editor-form .message.error").Text())
	assert.Equal(t, "신규 방역차 제어", doc.Find("input[name=title]").AttrOr("value", ""), "fields survive a failed save")

	doc = submitEditor(t, client, url.Values{"op": {"update"}},
		e2etest.File{Field: "images", Filename: "notes.txt", ContentType: "text/plain", Data: []byte("hello")})
	assert.Equal(t, "이미지 파일만 업로드할 수 있습니다.", doc.Find("#editor-form .message.error").Text())
	assert.Empty(t, galleryImages(doc))

	doc, err = client.GetDoc(ctx, "/admin")
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("a[href='/admin/editor']").Length(), "the open draft can be resumed")

	doc = submitEditor(t, client, url.Values{
		"category":          {models.Categories[3]},
		"overview.location": {"경기도 화성"},
		"requirements":      {"주행 중 자동 살포\r\n원격 모니터링"},
		"technologies":      {"PLC\nCAN"},
		"results.stability": {"오작동 0건"},
		"op":                {"save"},
	}, pngFile("thumbnail", "thumb"), pngFile("images", "site-1"), pngFile("images", "site-2"))
	assert.Equal(t, "저장되었습니다.", doc.Find(".flash").Text())
	rows := doc.Find("table.admin-cases tbody tr[id]")
	require.Equal(t, 4, rows.Length())
	assert.Zero(t, doc.Find("a[href='/admin/editor']").Length(), "the draft is closed after saving")

	link := doc.Find("table.admin-cases td.title a").FilterFunction(func(_ int, a *goquery.Selection) bool {
		return a.Text() == "신규 방역차 제어"
	})
	require.Equal(t, 1, link.Length())
	casePath := link.AttrOr("href", "")
	require.True(t, strings.HasPrefix(casePath, "/cases/"))

	doc, err = client.GetDoc(ctx, casePath)
	require.NoError(t, err)
	assert.Equal(t, "신규 방역차 제어", doc.Find(".case-detail h1").Text())
	assert.Equal(t, models.Categories[3], doc.Find(".case-detail .category").Text())
	assert.Equal(t, pngDataURL("thumb"), doc.Find(".case-detail img.thumbnail").AttrOr("src", ""))
	var requirements []string
	doc.Find(".requirements li").Each(func(_ int, li *goquery.Selection) { requirements = append(requirements, li.Text()) })
	assert.Equal(t, []string{"주행 중 자동 살포", "원격 모니터링"}, requirements)
	assert.Equal(t, 2, doc.Find(".technologies li").Length())
	var gallery []string
	doc.Find(".gallery img").Each(func(_ int, img *goquery.Selection) { gallery = append(gallery, img.AttrOr("src", "")) })
	assert.Equal(t, []string{pngDataURL("site-1"), pngDataURL("site-2")}, gallery)

	doc, err = client.GetDoc(ctx, "/cases?"+url.Values{"category": {models.Categories[3]}}.Encode())
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("#cases-grid .case-card").Length())
}

func Test_application_editorEditGallery(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := startTestServer(t, nil)
	client := loggedInClient(t, server)

	doc, err := client.SubmitForm(ctx, "/admin", "/admin/cases/1/edit", nil)
	require.NoError(t, err)
	assert.Equal(t, "고소작업차 통합 제어 시스템 구축", doc.Find("input[name=title]").AttrOr("value", ""))
	require.Len(t, galleryImages(doc), 4)

	doc, err = client.SubmitForm(ctx, "/admin", "/admin/cases/2/edit", nil)
	require.NoError(t, err)
	assert.Equal(t, "편집 중인 사례를 먼저 저장하거나 취소해주세요.", doc.Find(".flash").Text())
	assert.Equal(t, "고소작업차 통합 제어 시스템 구축", doc.Find("input[name=title]").AttrOr("value", ""),
		"the open draft is kept")

	doc = submitEditor(t, client, url.Values{"op": {"remove-image:0"}})
	assert.Equal(t, []string{
		"https://picsum.photos/id/112/800/600",
		"https://picsum.photos/id/113/800/600",
		"https://picsum.photos/id/114/800/600",
	}, galleryImages(doc))

	doc = submitEditor(t, client, url.Values{"op": {"clear-images"}})
	assert.Contains(t, doc.Find("fieldset.gallery").Text(), "갤러리의 모든 이미지를 삭제하시겠습니까?")
	assert.Len(t, galleryImages(doc), 3, "clearing needs confirmation")

	doc = submitEditor(t, client, url.Values{"op": {"clear-images"}, "confirm_clear": {"yes"}})
	assert.Empty(t, galleryImages(doc))

	doc = submitEditor(t, client, url.Values{"op": {"cancel"}})
	assert.Equal(t, "편집을 취소했습니다.", doc.Find(".flash").Text())

	doc, err = client.GetDoc(ctx, "/cases/1")
	require.NoError(t, err)
	assert.Equal(t, 4, doc.Find(".gallery img").Length(), "cancelled edits are not published")

	resp, err := client.Get(ctx, "/admin/editor")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "/admin", resp.Request.URL.Path, "no draft to resume")
}

func Test_application_editorSaveExisting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := startTestServer(t, nil)
	client := loggedInClient(t, server)

	_, err := client.SubmitForm(ctx, "/admin", "/admin/cases/2/edit", nil)
	require.NoError(t, err)
	doc := submitEditor(t, client, url.Values{"title": {"유압 전동화 2차 개선"}, "op": {"save"}})
	assert.Equal(t, "저장되었습니다.", doc.Find(".flash").Text())
	assert.Equal(t, 3, doc.Find("table.admin-cases tbody tr[id]").Length(), "the case is replaced in place")
	assert.Equal(t, "유압 전동화 2차 개선", doc.Find("#case-2 td.title a").Text())

	doc, err = client.GetDoc(ctx, "/cases/2")
	require.NoError(t, err)
	assert.Equal(t, "유압 전동화 2차 개선", doc.Find(".case-detail h1").Text())
	assert.Equal(t, 3, doc.Find(".gallery img").Length())
}

func Test_application_editorBadRequests(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := startTestServer(t, nil)
	client := loggedInClient(t, server)

	resp, err := client.Get(ctx, "/admin/cases/unknown/delete")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, err = client.SubmitForm(ctx, "/admin", "/admin/cases/1/edit", nil)
	require.NoError(t, err)

	doc := submitEditor(t, client, url.Values{"op": {"remove-image:99"}})
	assert.Equal(t, "삭제할 이미지를 찾을 수 없습니다.", doc.Find("#editor-form .message.error").Text())
	assert.Len(t, galleryImages(doc), 4)

	for _, op := range []string{"remove-image:x", "explode"} {
		_, err = client.SubmitMultipartForm(ctx, "/admin/editor", "/admin/editor", url.Values{"op": {op}}, nil)
		require.Error(t, err, op)
	}
}

func Test_application_editorHtmx(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := startTestServer(t, nil)
	client := loggedInClient(t, server)

	_, err := client.SubmitForm(ctx, "/admin", "/admin/cases/1/edit", nil)
	require.NoError(t, err)

	resp, err := client.HxSubmitMultipartForm(ctx, "/admin/editor", "/admin/editor",
		url.Values{"op": {"remove-image:0"}}, nil)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(body), "<html")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(body)), `<form id="editor-form"`))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	require.NoError(t, err)
	assert.Len(t, galleryImages(doc), 3)

	resp, err = client.HxSubmitMultipartForm(ctx, "/admin/editor", "/admin/editor", url.Values{"op": {"cancel"}}, nil)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("HX-Redirect"))
	assert.Equal(t, "/admin/editor", resp.Request.URL.Path, "htmx requests are not redirected by the server")

	doc, err = client.GetDoc(ctx, "/admin")
	require.NoError(t, err)
	assert.Equal(t, "편집을 취소했습니다.", doc.Find(".flash").Text())
}
