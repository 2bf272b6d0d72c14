package httpx

import (
	"net/http"

	"github.com/google/uuid"
)

// HeaderRequestID is echoed on every response so clients and log readers can
// correlate a response with its server-side log lines.
const HeaderRequestID = "X-Request-Id"

// RequestIDMiddleware tags each request with an ID: the client-supplied
// header value when present, a fresh UUID otherwise. Downstream handlers
// read it through RequestIDFrom.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(ContextWithRequestID(r.Context(), id)))
	})
}
