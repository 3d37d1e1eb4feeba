package util

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseWriter(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w := WrapResponseWriter(rec)
	assert.Equal(t, http.StatusOK, w.Status)
	assert.False(t, w.Wrote)

	w.WriteHeader(http.StatusMethodNotAllowed)
	w.WriteHeader(http.StatusTeapot)

	n, err := w.Write([]byte("nope"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	w.Flush()

	assert.Equal(t, http.StatusMethodNotAllowed, w.Status)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, 4, w.Bytes)
	assert.True(t, w.Wrote)
	assert.Equal(t, "nope", rec.Body.String())
	assert.Same(t, rec, w.Unwrap())
}

func TestWrapResponseWriter_Reuses(t *testing.T) {
	t.Parallel()

	outer := WrapResponseWriter(httptest.NewRecorder())
	inner := WrapResponseWriter(outer)
	assert.Same(t, outer, inner)

	inner.WriteHeader(http.StatusNotFound)
	assert.Equal(t, http.StatusNotFound, outer.Status)
}
