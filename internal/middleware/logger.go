package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// LoggerMiddleware writes one access log line per request.
func LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(wrapped, r)

		status := wrapped.Status()
		if status == 0 {
			status = http.StatusOK
		}
		remoteAddr := r.RemoteAddr
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			remoteAddr = xff
		}

		log.Printf("[%s] %s %s %s %d %s %s %s %dB",
			middleware.GetReqID(r.Context()),
			r.Method,
			r.URL.RequestURI(),
			r.Proto,
			status,
			http.StatusText(status),
			remoteAddr,
			time.Since(start),
			wrapped.BytesWritten(),
		)
	})
}
