package e2etest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	neturl "net/url"
	"net/textproto"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/myoungji/website/internal/errors"
)

type Client struct {
	client *http.Client
	url    string
}

// NewClient creates an HTTP client that keeps the session and CSRF cookies between requests.
func NewClient(url string) (*Client, error) {
	jar, err := newUnsafeCookieJar()
	if err != nil {
		return nil, errors.Wrap(err, "create unsafe cookie jar")
	}
	return &Client{
		client: &http.Client{Jar: jar},
		url:    url,
	}, nil
}

// File is a file part of a multipart form submission.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	for {
		resp, err := c.Get(ctx, urlPath)
		if err == nil {
			if err = resp.Body.Close(); err != nil {
				return errors.Wrap(err, "close response body")
			}
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "context cancelled")
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Get fetches a URL and returns the response.
func (c *Client) Get(ctx context.Context, urlPath string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+urlPath, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	return c.do(req)
}

// GetDoc fetches a URL and returns a goquery document.
func (c *Client) GetDoc(ctx context.Context, urlPath string) (*goquery.Document, error) {
	resp, err := c.Get(ctx, urlPath)
	if err != nil {
		return nil, errors.Wrap(err, "client get")
	}
	return parseDocument(resp)
}

// PostForm posts values to urlPath without a CSRF token.
func (c *Client) PostForm(ctx context.Context, urlPath string, values neturl.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+urlPath, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// Login submits the admin secret and returns the document the login redirects to.
func (c *Client) Login(ctx context.Context, secret string) (*goquery.Document, error) {
	doc, err := c.SubmitForm(ctx, "/admin/login", "/admin/login", neturl.Values{"secret": {secret}})
	if err != nil {
		return nil, errors.Wrap(err, "submit login form")
	}
	return doc, nil
}

// Logout leaves the admin area and returns the front page document.
func (c *Client) Logout(ctx context.Context) (*goquery.Document, error) {
	doc, err := c.SubmitForm(ctx, "/admin", "/admin/logout", nil)
	if err != nil {
		return nil, errors.Wrap(err, "submit logout form")
	}
	return doc, nil
}

// ExtractCSRFToken returns the CSRF token of the first form in doc with action formActionURLPath.
func ExtractCSRFToken(doc *goquery.Document, formActionURLPath string) (string, error) {
	formSelector := fmt.Sprintf("form[action='%s']", formActionURLPath)
	form := doc.Find(formSelector).First()
	csrfToken, ok := form.Find("input[name=csrf_token]").Attr("value")
	if !ok {
		return "", errors.New("csrf_token not found in form", slog.String("action", formActionURLPath))
	}
	return csrfToken, nil
}

// SubmitForm fetches the page at formURLPath, posts values with the CSRF token of the form with action
// formActionURLPath and returns the response document after redirects.
func (c *Client) SubmitForm(
	ctx context.Context,
	formURLPath string,
	formActionURLPath string,
	values neturl.Values,
) (*goquery.Document, error) {
	csrfToken, err := c.csrfToken(ctx, formURLPath, formActionURLPath)
	if err != nil {
		return nil, err
	}

	formData := neturl.Values{}
	for key, vals := range values {
		formData[key] = append([]string(nil), vals...)
	}
	formData.Set("csrf_token", csrfToken)

	var resp *http.Response
	if resp, err = c.PostForm(ctx, formActionURLPath, formData); err != nil {
		return nil, errors.Wrap(err, "post form")
	}
	return parseDocument(resp)
}

// SubmitMultipartForm is SubmitForm for forms with file inputs.
func (c *Client) SubmitMultipartForm(
	ctx context.Context,
	formURLPath string,
	formActionURLPath string,
	values neturl.Values,
	files []File,
) (*goquery.Document, error) {
	req, err := c.newMultipartRequest(ctx, formURLPath, formActionURLPath, values, files)
	if err != nil {
		return nil, err
	}
	var resp *http.Response
	if resp, err = c.do(req); err != nil {
		return nil, err
	}
	return parseDocument(resp)
}

// HxSubmitMultipartForm submits the form the way htmx does and returns the raw response. The caller closes the
// body.
func (c *Client) HxSubmitMultipartForm(
	ctx context.Context,
	formURLPath string,
	formActionURLPath string,
	values neturl.Values,
	files []File,
) (*http.Response, error) {
	req, err := c.newMultipartRequest(ctx, formURLPath, formActionURLPath, values, files)
	if err != nil {
		return nil, err
	}
	req.Header.Set("HX-Request", "true")
	return c.do(req)
}

func (c *Client) newMultipartRequest(
	ctx context.Context,
	formURLPath string,
	formActionURLPath string,
	values neturl.Values,
	files []File,
) (*http.Request, error) {
	csrfToken, err := c.csrfToken(ctx, formURLPath, formActionURLPath)
	if err != nil {
		return nil, err
	}

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	if err = writer.WriteField("csrf_token", csrfToken); err != nil {
		return nil, errors.Wrap(err, "write csrf token")
	}
	for key, vals := range values {
		for _, v := range vals {
			if err = writer.WriteField(key, v); err != nil {
				return nil, errors.Wrap(err, "write field", slog.String("field", key))
			}
		}
	}
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.Field, f.Filename))
		if f.ContentType != "" {
			header.Set("Content-Type", f.ContentType)
		}
		var part io.Writer
		if part, err = writer.CreatePart(header); err != nil {
			return nil, errors.Wrap(err, "create file part", slog.String("field", f.Field))
		}
		if _, err = part.Write(f.Data); err != nil {
			return nil, errors.Wrap(err, "write file part", slog.String("field", f.Field))
		}
	}
	if err = writer.Close(); err != nil {
		return nil, errors.Wrap(err, "close multipart writer")
	}

	var req *http.Request
	if req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.url+formActionURLPath, body); err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req, nil
}

func (c *Client) csrfToken(ctx context.Context, formURLPath, formActionURLPath string) (string, error) {
	doc, err := c.GetDoc(ctx, formURLPath)
	if err != nil {
		return "", errors.Wrap(err, "get form document", slog.String("path", formURLPath))
	}
	var csrfToken string
	if csrfToken, err = ExtractCSRFToken(doc, formActionURLPath); err != nil {
		return "", errors.Wrap(err, "extract CSRF token")
	}
	return csrfToken, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	return resp, nil
}

// parseDocument reads and closes the body of a 200 OK response.
func parseDocument(resp *http.Response) (*goquery.Document, error) {
	defer func() {
		_ = resp.Body.Close()
	}()
	if http.StatusOK != resp.StatusCode {
		return nil, errors.New("unexpected status code", slog.Int("status", resp.StatusCode),
			slog.String("url", resp.Request.URL.String()))
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "create document from reader")
	}
	return doc, nil
}
