package middleware

import (
	"io"
	"net/http"

	"github.com/vyrodovalexey/avaroute/internal/observability"
)

// DefaultMaxBodySize is used when BodyLimit gets a non-positive limit.
const DefaultMaxBodySize int64 = 1 << 20

// BodyLimit returns a middleware that limits the request body size.
// Requests announcing a larger Content-Length are rejected with 413 up front;
// otherwise reads beyond the limit fail inside the handler.
func BodyLimit(maxSize int64, logger observability.Logger) func(http.Handler) http.Handler {
	if maxSize <= 0 {
		maxSize = DefaultMaxBodySize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxSize {
				logger.WithContext(r.Context()).Warn("request body too large",
					observability.Int64("content_length", r.ContentLength),
					observability.Int64("max_size", maxSize),
					observability.String("path", r.URL.Path),
				)

				w.Header().Set(HeaderContentType, ContentTypeJSON)
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_, _ = io.WriteString(w, ErrRequestEntityTooLarge)
				return
			}

			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxSize)
			}

			next.ServeHTTP(w, r)
		})
	}
}
