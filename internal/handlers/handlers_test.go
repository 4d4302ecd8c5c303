package handlers

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/bookbrief/internal/summary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSummarizer struct {
	got  []summary.Request
	resp summary.Response
}

func (r *recordingSummarizer) Summarize(ctx context.Context, req summary.Request) summary.Response {
	r.got = append(r.got, req)
	return r.resp
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) summary.Response {
	t.Helper()
	var resp summary.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleSummary(t *testing.T) {
	title := "해리 포터와 마법사의 돌"
	stub := &recordingSummarizer{resp: summary.Response{
		Found:          true,
		CorrectedTitle: &title,
		Intro:          "intro",
		Summary:        "One. Two.",
		RequestedCount: 2,
		DeliveredCount: 2,
	}}
	h := New(stub, t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/api/summary", strings.NewReader(`{"title":"해리포터","style":"brief","num":2}`))
	rec := httptest.NewRecorder()
	h.HandleSummary(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	require.Len(t, stub.got, 1)
	assert.Equal(t, "해리포터", stub.got[0].Title)
	assert.Equal(t, "brief", stub.got[0].Style)
	assert.Equal(t, 2, stub.got[0].Num)
	assert.Equal(t, rec.Header().Get("X-Request-ID"), stub.got[0].RequestID)

	resp := decodeResponse(t, rec)
	assert.True(t, resp.Found)
	require.NotNil(t, resp.CorrectedTitle)
	assert.Equal(t, title, *resp.CorrectedTitle)
	assert.Equal(t, "One. Two.", resp.Summary)
}

func TestHandleSummary_NullCorrectedTitle(t *testing.T) {
	h := New(&recordingSummarizer{resp: summary.Response{Intro: "not found"}}, "")

	rec := httptest.NewRecorder()
	h.HandleSummary(rec, httptest.NewRequest(http.MethodPost, "/api/summary", strings.NewReader(`{"title":"zzxq123nonexistent"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"correctedTitle":null`)
	assert.NotContains(t, rec.Body.String(), `"error"`)
}

func TestHandleSummary_NumForms(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"number", `{"title":"x","num":7}`, 7},
		{"string", `{"title":"x","num":"12"}`, 12},
		{"fraction", `{"title":"x","num":3.9}`, 3},
		{"missing", `{"title":"x"}`, 0},
		{"null", `{"title":"x","num":null}`, 0},
		{"garbage", `{"title":"x","num":"many"}`, 0},
		{"huge exponent", `{"title":"x","num":1e20}`, math.MaxInt32},
		{"huge integer", `{"title":"x","num":9999999999999999999}`, math.MaxInt32},
		{"huge negative", `{"title":"x","num":-1e20}`, math.MinInt32},
		{"NaN string", `{"title":"x","num":"NaN"}`, 0},
		{"infinity string", `{"title":"x","num":"+Inf"}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &recordingSummarizer{}
			h := New(stub, "")
			rec := httptest.NewRecorder()
			h.HandleSummary(rec, httptest.NewRequest(http.MethodPost, "/api/summary", strings.NewReader(tt.body)))

			require.Len(t, stub.got, 1)
			assert.Equal(t, tt.want, stub.got[0].Num)
		})
	}
}

func TestHandleSummary_InvalidBody(t *testing.T) {
	stub := &recordingSummarizer{}
	h := New(stub, "")

	rec := httptest.NewRecorder()
	h.HandleSummary(rec, httptest.NewRequest(http.MethodPost, "/api/summary", strings.NewReader(`{"title":`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, stub.got)
	resp := decodeResponse(t, rec)
	assert.Equal(t, summary.CodeInvalidRequest, resp.Error)
	assert.False(t, resp.Found)
}

func TestHandleSummary_MethodNotAllowed(t *testing.T) {
	h := New(&recordingSummarizer{}, "")

	rec := httptest.NewRecorder()
	h.HandleSummary(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestHandleSummary_KeepsClientRequestID(t *testing.T) {
	stub := &recordingSummarizer{}
	h := New(stub, "")

	req := httptest.NewRequest(http.MethodPost, "/api/summary", strings.NewReader(`{"title":"x"}`))
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.HandleSummary(rec, req)

	require.Len(t, stub.got, 1)
	assert.Equal(t, "abc-123", stub.got[0].RequestID)
}

func TestHandleStatic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>bookbrief</html>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0644))

	h := New(&recordingSummarizer{}, dir)

	tests := []struct {
		name        string
		path        string
		code        int
		contentType string
		body        string
	}{
		{"root serves index", "/", http.StatusOK, "text/html", "bookbrief"},
		{"static prefix", "/static/app.js", http.StatusOK, "application/javascript", "console.log"},
		{"traversal rejected", "/static/../secret", http.StatusBadRequest, "", "Invalid file path"},
		{"missing file", "/static/nope.css", http.StatusNotFound, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.URL.Path = tt.path
			rec := httptest.NewRecorder()
			h.HandleStatic(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			if tt.contentType != "" {
				assert.Contains(t, rec.Header().Get("Content-Type"), tt.contentType)
			}
			if tt.body != "" {
				assert.Contains(t, rec.Body.String(), tt.body)
			}
		})
	}
}
