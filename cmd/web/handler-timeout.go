package main

import (
	"net/http"
	"time"
)

// timeoutBody is served without scripts because the CSP nonce of the timed out request is not available here.
const timeoutBody = `<!doctype html>
<html lang="ko">
<head><meta charset="utf-8"><title>요청 시간 초과 | MYOUNGJI 명지</title></head>
<body>
<h1>요청 시간이 초과되었습니다</h1>
<p>잠시 후 다시 시도해주세요.</p>
<p><a href="">다시 시도</a> · <a href="/">홈으로</a></p>
</body>
</html>
`

// timeoutHandler responds with a 503 Service Unavailable error when the handler does not meet the deadline.
func timeoutHandler(h http.Handler, defaultTimeout time.Duration) http.Handler {
	// We want the timeout to be a little shorter than the server's read timeout so that the
	// timeout handler has a chance to respond before the server closes the connection.
	httpHandlerTimeout := defaultTimeout - 500*time.Millisecond //nolint:mnd // 500ms
	return http.TimeoutHandler(h, httpHandlerTimeout, timeoutBody)
}
