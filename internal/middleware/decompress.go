package middleware

import (
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Decompress returns a reader that decodes the body based on Content-Encoding.
// The caller is responsible for closing the returned reader if it implements
// io.Closer.
func Decompress(body io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "gzip":
		return gzip.NewReader(body)
	case "deflate":
		return flate.NewReader(body), nil
	case "identity", "":
		return body, nil
	default:
		return nil, fmt.Errorf("unsupported content-encoding: %s", encoding)
	}
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc readCloser) Close() error {
	var first error
	for _, c := range rc.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// DecompressRequest decodes gzip or deflate encoded request bodies so
// handlers always read plain HTML. Unknown encodings are rejected with
// 415 Unsupported Media Type.
func DecompressRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		encoding := r.Header.Get("Content-Encoding")
		if encoding == "" || r.Body == nil {
			next.ServeHTTP(w, r)
			return
		}

		body, err := Decompress(r.Body, encoding)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
			return
		}

		closers := []io.Closer{r.Body}
		if c, ok := body.(io.Closer); ok {
			closers = append(closers, c)
		}
		r.Body = readCloser{Reader: body, closers: closers}
		r.Header.Del("Content-Encoding")
		r.Header.Del("Content-Length")
		r.ContentLength = -1
		next.ServeHTTP(w, r)
	})
}
