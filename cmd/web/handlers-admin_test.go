package main

import (
	"context"
	"net/http"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/myoungji/website/internal/e2etest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_application_adminLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := startTestServer(t, nil)
	client := newTestClient(t, server)

	doc, err := client.GetDoc(ctx, "/admin")
	require.NoError(t, err)
	assert.Equal(t, "관리자 로그인", doc.Find("h1").Text(), "anonymous visitors are sent to the login form")
	assert.Zero(t, doc.Find("a[href='/admin']").Length())

	doc, err = client.Login(ctx, "wrong-secret")
	require.NoError(t, err)
	assert.Equal(t, "비밀번호가 틀렸습니다.", doc.Find(".admin-login .message.error").Text())

	doc, err = client.Login(ctx, testAdminSecret)
	require.NoError(t, err)
	assert.Equal(t, "포트폴리오 관리", doc.Find("h1").Text())
	assert.Equal(t, 3, doc.Find("table.admin-cases tbody tr[id]").Length())
	assert.Equal(t, 1, doc.Find("#case-1").Length())
	assert.Zero(t, doc.Find("a[href='/admin/editor']").Length(), "no draft is open")

	doc, err = client.GetDoc(ctx, "/admin/login")
	require.NoError(t, err)
	assert.Equal(t, "포트폴리오 관리", doc.Find("h1").Text(), "logged in admins skip the login form")

	doc, err = client.Logout(ctx)
	require.NoError(t, err)
	assert.Contains(t, doc.Find("h1").Text(), "보이지 않는 제어가")
	doc, err = client.GetDoc(ctx, "/admin")
	require.NoError(t, err)
	assert.Equal(t, "관리자 로그인", doc.Find("h1").Text())
}

func Test_application_adminRoutesRequireLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := startTestServer(t, nil)
	client := newTestClient(t, server)

	for _, urlPath := range []string{"/admin/inquiries", "/admin/editor", "/admin/cases/1/delete"} {
		doc, err := client.GetDoc(ctx, urlPath)
		require.NoError(t, err, urlPath)
		assert.Equal(t, "관리자 로그인", doc.Find("h1").Text(), urlPath)
	}
}

func Test_application_adminDeleteCase(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := startTestServer(t, nil)
	client := loggedInClient(t, server)

	doc, err := client.GetDoc(ctx, "/admin/cases/3/delete")
	require.NoError(t, err)
	assert.Equal(t, "정말 삭제하시겠습니까?", doc.Find("h1").Text())
	assert.Equal(t, "자율주행 방역차량 특장 제어부 제작", doc.Find(".admin-delete strong").Text())

	doc, err = client.SubmitForm(ctx, "/admin/cases/3/delete", "/admin/cases/3/delete", nil)
	require.NoError(t, err)
	assert.Equal(t, "삭제되었습니다.", doc.Find(".flash").Text())
	assert.Equal(t, 2, doc.Find("table.admin-cases tbody tr[id]").Length())
	assert.Zero(t, doc.Find("#case-3").Length())

	for _, urlPath := range []string{"/cases/3", "/admin/cases/3/delete"} {
		resp, getErr := client.Get(ctx, urlPath)
		require.NoError(t, getErr)
		require.NoError(t, resp.Body.Close())
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, urlPath)
	}

	doc, err = client.GetDoc(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Find(".latest-cases .case-card").Length())
}

func Test_application_casesPersistAcrossRestarts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	overrides := map[string]string{"MYOUNGJI_SQLITE_URL": filepath.Join(t.TempDir(), "myoungji.sqlite")}

	first := startTestServer(t, overrides)
	client := loggedInClient(t, first)
	_, err := client.SubmitForm(ctx, "/admin/cases/2/delete", "/admin/cases/2/delete", nil)
	require.NoError(t, err)

	second := startTestServer(t, overrides)
	doc, err := second.Client().GetDoc(ctx, "/cases")
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Find("#cases-grid .case-card").Length(), "the seed is not restored over saved cases")
	assert.Zero(t, doc.Find("a[href='/cases/2']").Length())
}

func Test_application_inquiryRemote(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := startTestServer(t, map[string]string{
		"MYOUNGJI_INQUIRY_REMOTE_URL": "http://127.0.0.1:1",
		"MYOUNGJI_INQUIRY_REMOTE_KEY": "anon-key",
	})

	doc, err := newTestClient(t, server).SubmitForm(ctx, "/contact", "/contact", validInquiry())
	require.NoError(t, err)
	assert.Equal(t, "전송 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요.",
		doc.Find("#contact-form .message.error").Text(), "unreachable remote store")

	admin := loggedInClient(t, server)
	doc, err = admin.GetDoc(ctx, "/admin/inquiries")
	require.NoError(t, err)
	assert.Contains(t, doc.Find(".message").Text(), "외부 저장소")
}

func Test_application_adminLogoutRequiresCSRF(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := startTestServer(t, nil)
	client := loggedInClient(t, server)

	resp, err := client.PostForm(ctx, "/admin/logout", url.Values{})
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	doc, err := client.GetDoc(ctx, "/admin")
	require.NoError(t, err)
	assert.Equal(t, "포트폴리오 관리", doc.Find("h1").Text())
	_, err = e2etest.ExtractCSRFToken(doc, "/admin/logout")
	require.NoError(t, err)
}
