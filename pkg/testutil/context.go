package testutil

import (
	"net/http"
	"time"

	"souzoku/pkg/requestcontext"
)

// WithRequestID stamps a request ID on the request context, simulating what
// the request-ID middleware does.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithFrozenTime pins the request-scoped clock so handlers produce
// deterministic timestamps.
func WithFrozenTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
