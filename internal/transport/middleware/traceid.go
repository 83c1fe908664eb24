package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/grupomivyca/mivyca-backend/pkg/logger"
)

const traceHeader = "X-Trace-ID"

// TraceID tags every request with a trace identifier. An inbound X-Trace-ID
// is honored so callers can correlate across services; otherwise one is
// minted. The id is echoed on the response and planted in the context logger.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(traceHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(traceHeader, id)
		next.ServeHTTP(w, r.WithContext(logger.WithTrace(r.Context(), id)))
	})
}
