package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/esvchat/bible-chat/backend/pkg/log"
)

// RequestLogger writes one structured access log line per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.Infow("HTTP Request Log",
			"statusCode", ww.Status(),
			"bytes", ww.BytesWritten(),
			"latency", time.Since(start).String(),
			"clientIP", r.RemoteAddr,
			"method", r.Method,
			"path", r.URL.Path,
			"requestID", chimw.GetReqID(r.Context()),
		)
	})
}
