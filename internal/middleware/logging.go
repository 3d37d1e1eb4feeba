package middleware

import (
	"net/http"
	"time"

	"github.com/vyrodovalexey/avaroute/internal/observability"
	"github.com/vyrodovalexey/avaroute/internal/util"
)

// Logging returns a middleware that writes one access log entry per request.
// The route field holds the matched pattern recorded by the dispatcher.
func Logging(logger observability.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx, holder := util.EnsureRouteHolder(util.ContextWithStartTime(r.Context(), start))
			r = r.WithContext(ctx)
			rw := util.WrapResponseWriter(w)

			next.ServeHTTP(rw, r)

			fields := []observability.Field{
				observability.String("method", r.Method),
				observability.String("path", r.URL.Path),
				observability.String("route", holder.Get()),
				observability.Int("status", rw.Status),
				observability.Int("size", rw.Bytes),
				observability.Duration("duration", util.ElapsedTime(r.Context())),
				observability.String("remote_addr", r.RemoteAddr),
				observability.String("user_agent", r.UserAgent()),
			}
			if r.URL.RawQuery != "" {
				fields = append(fields, observability.String("query", r.URL.RawQuery))
			}

			l := logger.WithContext(r.Context())
			switch {
			case rw.Status >= http.StatusInternalServerError:
				l.Error("http request", fields...)
			case rw.Status >= http.StatusBadRequest:
				l.Warn("http request", fields...)
			default:
				l.Info("http request", fields...)
			}
		})
	}
}
