package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	internal "github.com/grupomivyca/mivyca-backend/internal"
	"github.com/grupomivyca/mivyca-backend/pkg/logger"
)

// maxLoggedBody caps how much of a request body is read for logging.
const maxLoggedBody = 8 << 10

// credentialMarkers flag JSON field names whose values must never reach
// the log output. Matching is case-insensitive on substrings.
var credentialMarkers = []string{
	"password",
	"token",
	"secret",
	"authorization",
	"credential",
	"api_key",
}

// RequestLogger emits one structured line per request once the handler chain
// finishes. Mutating requests also log their JSON body with credential
// fields redacted. The tenant fields (user, company, role) come from the
// principal the auth middleware resolves further down the chain.
func RequestLogger(lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx, note := internal.ContextWithPrincipalNote(r.Context())
			r = r.WithContext(ctx)

			var body string
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				body = captureBody(r)
			}

			ww := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(ww, r)

			status := ww.status
			if status == 0 {
				status = http.StatusOK
			}

			fields := []any{
				"trace_id", logger.TraceID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes", ww.bytes,
				"remote_addr", r.RemoteAddr,
			}
			if body != "" {
				fields = append(fields, "request_body", body)
			}
			if p := note.Principal; p != nil {
				fields = append(fields,
					"user_id", p.UserID,
					"company_id", p.CompanyID,
					"role", p.Role,
				)
			}

			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			lg.Log(r.Context(), level, "http request", fields...)
		})
	}
}

// captureBody reads the request body for logging and puts it back so the
// handler still sees the full stream.
func captureBody(r *http.Request) string {
	if r.Body == nil {
		return ""
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody))
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(raw), r.Body))

	if len(raw) == maxLoggedBody {
		return "[TRUNCATED]"
	}
	return redactJSON(raw)
}

// redactJSON masks credential fields in a JSON document. Bodies that do not
// parse as JSON are never logged verbatim.
func redactJSON(raw []byte) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "[UNPARSED]"
	}

	out, err := json.Marshal(redactValue(parsed))
	if err != nil {
		return ""
	}
	return string(out)
}

func redactValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for key, val := range t {
			if isCredentialField(key) {
				t[key] = "[REDACTED]"
			} else {
				t[key] = redactValue(val)
			}
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = redactValue(item)
		}
		return t
	default:
		return v
	}
}

func isCredentialField(name string) bool {
	name = strings.ToLower(name)
	for _, marker := range credentialMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}
