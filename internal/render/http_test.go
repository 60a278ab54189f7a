package render

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestPreviewURLOmitsEndWhenAbsent(t *testing.T) {
	c, err := NewHTTPClient(HTTPOptions{BaseURL: "https://render.example.com/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw := c.PreviewURL(Request{Source: "https://cdn.example.com/a.mp3", Start: 1.5})
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("invalid url %q: %v", raw, err)
	}
	if u.Path != previewPath {
		t.Fatalf("unexpected path: %s", u.Path)
	}
	q := u.Query()
	if q.Get("file_url") != "https://cdn.example.com/a.mp3" {
		t.Fatalf("unexpected file_url: %q", q.Get("file_url"))
	}
	if q.Get("start_time") != "1.5" {
		t.Fatalf("unexpected start_time: %q", q.Get("start_time"))
	}
	if _, ok := q["end_time"]; ok {
		t.Fatalf("end_time should be omitted, got %q", raw)
	}

	raw = c.PreviewURL(Request{Source: "a.mp3", Start: 0, End: floatPtr(12)})
	u, _ = url.Parse(raw)
	if u.Query().Get("end_time") != "12" {
		t.Fatalf("unexpected end_time in %q", raw)
	}
}

func TestNewHTTPClientRejectsBadURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://render.example.com", "::bad"} {
		if _, err := NewHTTPClient(HTTPOptions{BaseURL: raw}); err == nil {
			t.Fatalf("%q: expected error", raw)
		}
	}
}

func TestRenderPreviewSendsHeadersAndStreamsBody(t *testing.T) {
	var gotMethod, gotID, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotID = r.Header.Get("X-Request-ID")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = io.WriteString(w, "ID3fake-audio")
	}))
	defer srv.Close()

	c, err := NewHTTPClient(HTTPOptions{BaseURL: srv.URL, Token: "secret", RateLimit: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := NewRequest("a.mp3", 2, floatPtr(4))
	body, err := c.RenderPreview(context.Background(), req)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "ID3fake-audio" {
		t.Fatalf("unexpected body: %q", data)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("expected POST, got %s", gotMethod)
	}
	if gotID != req.ID || gotID == "" {
		t.Fatalf("unexpected request id: %q (want %q)", gotID, req.ID)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected authorization header: %q", gotAuth)
	}
}

func TestRenderPreviewStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "file not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c, _ := NewHTTPClient(HTTPOptions{BaseURL: srv.URL, RateLimit: 100})
	_, err := c.RenderPreview(context.Background(), NewRequest("missing.mp3", 0, nil))

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusNotFound || !strings.Contains(se.Body, "file not found") {
		t.Fatalf("unexpected status error: %+v", se)
	}
}

func TestRenderPreviewEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, _ := NewHTTPClient(HTTPOptions{BaseURL: srv.URL, RateLimit: 100})
	if _, err := c.RenderPreview(context.Background(), NewRequest("a.mp3", 0, nil)); !errors.Is(err, ErrEmptyPreview) {
		t.Fatalf("expected ErrEmptyPreview, got %v", err)
	}
}

type flakyTransport struct {
	fails int32
	calls int32
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	n := atomic.AddInt32(&f.calls, 1)
	if n <= f.fails {
		return nil, errors.New("connection reset")
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader("ok")),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func TestRetryTransportRetriesBodylessRequests(t *testing.T) {
	base := &flakyTransport{fails: 2}
	rt := &retryTransport{Base: base, RetryMax: 2, Methods: map[string]bool{http.MethodPost: true}}

	req, _ := http.NewRequest(http.MethodPost, "http://render.local/x", nil)
	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	resp.Body.Close()
	if base.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", base.calls)
	}
}

func TestRetryTransportSkipsDisallowedMethod(t *testing.T) {
	base := &flakyTransport{fails: 1}
	rt := &retryTransport{Base: base, RetryMax: 3, Methods: map[string]bool{http.MethodGet: true}}

	req, _ := http.NewRequest(http.MethodPut, "http://render.local/x", nil)
	if _, err := rt.RoundTrip(req); err == nil {
		t.Fatalf("expected error without retry")
	}
	if base.calls != 1 {
		t.Fatalf("expected single attempt, got %d", base.calls)
	}
}
