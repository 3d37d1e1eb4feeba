package util

import (
	"net/http"
)

// ResponseWriter records the status and body size written through it so that
// middleware can report them once the handler returns.
type ResponseWriter struct {
	http.ResponseWriter
	Status int
	Bytes  int
	Wrote  bool
}

// WrapResponseWriter wraps w. Status defaults to 200 until written.
func WrapResponseWriter(w http.ResponseWriter) *ResponseWriter {
	if rw, ok := w.(*ResponseWriter); ok {
		return rw
	}
	return &ResponseWriter{ResponseWriter: w, Status: http.StatusOK}
}

// WriteHeader records code. Only the first call reaches the client.
func (w *ResponseWriter) WriteHeader(code int) {
	if w.Wrote {
		return
	}
	w.Status = code
	w.Wrote = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	w.Wrote = true
	n, err := w.ResponseWriter.Write(b)
	w.Bytes += n
	return n, err
}

// Flush forwards to the wrapped writer when it supports flushing.
func (w *ResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		w.Wrote = true
		f.Flush()
	}
}

// Unwrap exposes the wrapped writer to http.ResponseController.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

var _ http.Flusher = (*ResponseWriter)(nil)
