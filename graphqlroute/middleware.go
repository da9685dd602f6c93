package graphqlroute

import (
	"context"
	"net/http"
	"time"

	"github.com/Station-Manager/gqlkit/logging"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type traceKey struct{}

// traceID reuses a well-formed X-Trace-ID from the caller or mints a new
// one, echoes it on the response and logs the request outcome at debug level.
func traceID(log *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderTraceID)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.New().String()
			}
			w.Header().Set(HeaderTraceID, id)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), traceKey{}, id)))

			log.DebugFields(logging.Fields{
				FieldTraceID:    id,
				"http_method":   r.Method,
				"http_path":     r.URL.Path,
				"remote_addr":   r.RemoteAddr,
				"status_code":   ww.Status(),
				"bytes_written": ww.BytesWritten(),
				"duration_ms":   time.Since(start).Milliseconds(),
			}, "Request finished")
		})
	}
}

func traceIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}
