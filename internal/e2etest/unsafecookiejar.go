package e2etest

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/myoungji/website/internal/errors"
)

// unsafeCookieJar keeps Secure cookies over plain HTTP so that the session and CSRF cookies of the test server
// survive between requests.
type unsafeCookieJar struct {
	*cookiejar.Jar
}

func newUnsafeCookieJar() (*unsafeCookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "new cookie jar")
	}
	return &unsafeCookieJar{Jar: jar}, nil
}

func (u *unsafeCookieJar) SetCookies(url *url.URL, cookies []*http.Cookie) {
	relaxed := make([]*http.Cookie, 0, len(cookies))
	for _, cookie := range cookies {
		c := *cookie
		c.Secure = false
		relaxed = append(relaxed, &c)
	}
	u.Jar.SetCookies(url, relaxed)
}
