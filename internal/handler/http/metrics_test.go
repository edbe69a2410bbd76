package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware(t *testing.T) {
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books/123", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"ok":true}`, rec.Body.String())
}

func TestMetricsMiddleware_StatusCodes(t *testing.T) {
	for _, code := range []int{200, 400, 404, 503} {
		handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recommend", nil))
		assert.Equal(t, code, rec.Code)
	}
}

func TestMetricsMiddleware_RequestBody(t *testing.T) {
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/recommend", strings.NewReader(`{"term":"dune"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResponseWriter(t *testing.T) {
	base := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: base, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusNotFound)
	n, err := rw.Write([]byte("missing"))

	assert.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, http.StatusNotFound, rw.statusCode)
	assert.Equal(t, 7, rw.size)
}

func TestResponseWriter_ImplicitOK(t *testing.T) {
	base := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: base, statusCode: http.StatusOK}

	_, _ = rw.Write([]byte("body"))
	assert.Equal(t, http.StatusOK, rw.statusCode)
}

func TestMetricsHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRecordCorpusLoad(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordCorpusLoad("csv", 120*time.Millisecond)
		RecordCorpusLoad("postgres", time.Second)
	})
}

func TestRecordDBQuery(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordDBQuery("load_books", 3*time.Millisecond)
	})
}

func TestUpdateBooksTotal(t *testing.T) {
	assert.NotPanics(t, func() {
		UpdateBooksTotal(10000)
		UpdateBooksTotal(0)
	})
}
