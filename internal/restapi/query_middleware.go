package restapi

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// maxSemicolonBody bounds how much of a form body is buffered for the
// rewrite. Larger bodies pass through untouched and fail in ParseForm.
const maxSemicolonBody = 1 << 20

// noopHandler lets AllowQuerySemicolons mark a request as handled without
// its '&' rewrite reaching the router.
var noopHandler = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

type bodyReadCloser struct {
	io.Reader
	io.Closer
}

// preserveSemicolons escapes raw semicolons in the query string and in
// urlencoded form bodies. The item list separates fields with ';' and the
// platform does not encode them, but net/url drops any pair containing one.
func preserveSemicolons(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var r2 *http.Request
		clone := func() {
			if r2 == nil {
				r2 = new(http.Request)
				*r2 = *r
			}
		}

		if strings.Contains(r.URL.RawQuery, ";") {
			// Silences the server's per-request semicolon warning.
			http.AllowQuerySemicolons(noopHandler).ServeHTTP(w, r)

			clone()
			r2.URL = new(url.URL)
			*r2.URL = *r.URL
			r2.URL.RawQuery = escapeSemicolons(r.URL.RawQuery)
		}

		if isFormBody(r) {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxSemicolonBody+1))
			clone()
			switch {
			case err != nil || len(body) > maxSemicolonBody:
				r2.Body = bodyReadCloser{io.MultiReader(bytes.NewReader(body), r.Body), r.Body}
			default:
				escaped := []byte(escapeSemicolons(string(body)))
				r2.Body = bodyReadCloser{bytes.NewReader(escaped), r.Body}
				r2.ContentLength = int64(len(escaped))
			}
		}

		if r2 != nil {
			r = r2
		}
		next.ServeHTTP(w, r)
	})
}

func escapeSemicolons(s string) string {
	return strings.ReplaceAll(s, ";", "%3B")
}

func isFormBody(r *http.Request) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return false
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return false
	}
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}
