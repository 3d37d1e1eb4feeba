// Package middleware provides net/http middleware for the routing daemon.
//
//   - RequestID: request identifier injection (X-Request-ID)
//   - Recovery: panic recovery with stack trace logging
//   - Logging: structured access logging, including the matched route
//   - BodyLimit: request body size limiting for the RPC endpoint
//
// Middleware compose with Chain; the first middleware is the outermost:
//
//	handler := middleware.Chain(dispatcher,
//	    middleware.Recovery(logger),
//	    middleware.RequestID(),
//	    middleware.Logging(logger),
//	)
package middleware

import "net/http"

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies mws to h so that mws[0] runs first.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			h = mws[i](h)
		}
	}
	return h
}
