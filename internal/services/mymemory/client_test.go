package mymemory_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"webtranslator/internal/logging"
	"webtranslator/internal/services"
	"webtranslator/internal/services/mymemory"
)

func TestTranslateSendsLangPair(t *testing.T) {
	var gotQuery, gotPair, gotEmail, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		gotPair = r.URL.Query().Get("langpair")
		gotEmail = r.URL.Query().Get("de")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"नमस्ते"},"responseStatus":200}`))
	}))
	defer server.Close()

	client := mymemory.NewClient(mymemory.Config{BaseURL: server.URL + "/", Email: "ops@example.com"}, logging.NewNop())
	got, err := client.Translate(context.Background(), "hello", "en", "hi")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got != "नमस्ते" {
		t.Fatalf("translation = %q", got)
	}
	if gotPath != "/get" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotQuery != "hello" || gotPair != "en|hi" {
		t.Fatalf("query = %q langpair = %q", gotQuery, gotPair)
	}
	if gotEmail != "ops@example.com" {
		t.Fatalf("de = %q", gotEmail)
	}
}

func TestTranslateAutoSourceUsesAutodetect(t *testing.T) {
	var gotPair string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPair = r.URL.Query().Get("langpair")
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"hola"},"responseStatus":"200"}`))
	}))
	defer server.Close()

	client := mymemory.NewClient(mymemory.Config{BaseURL: server.URL}, logging.NewNop())
	got, err := client.Translate(context.Background(), "hello", "auto", "es")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got != "hola" {
		t.Fatalf("translation = %q", got)
	}
	if gotPair != "autodetect|es" {
		t.Fatalf("langpair = %q", gotPair)
	}
}

func TestTranslateSkipsRequestWhenNothingToDo(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := mymemory.NewClient(mymemory.Config{BaseURL: server.URL}, logging.NewNop())
	for _, tc := range []struct{ source, target string }{{"en", ""}, {"hi", "hi"}} {
		got, err := client.Translate(context.Background(), "unchanged", tc.source, tc.target)
		if err != nil {
			t.Fatalf("Translate(%q,%q) returned error: %v", tc.source, tc.target, err)
		}
		if got != "unchanged" {
			t.Fatalf("Translate(%q,%q) = %q", tc.source, tc.target, got)
		}
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no requests, got %d", calls.Load())
	}
}

func TestTranslateQuotaError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":""},"responseStatus":429,"responseDetails":"MYMEMORY WARNING: YOU USED ALL AVAILABLE FREE TRANSLATIONS FOR TODAY"}`))
	}))
	defer server.Close()

	client := mymemory.NewClient(mymemory.Config{BaseURL: server.URL}, logging.NewNop())
	_, err := client.Translate(context.Background(), "hello", "en", "mr")
	if !errors.Is(err, services.ErrTranslation) {
		t.Fatalf("expected translation error, got %v", err)
	}
	if msg := services.ClientMessage(err); !strings.Contains(msg, "FREE TRANSLATIONS") {
		t.Fatalf("client message = %q", msg)
	}
}

func TestTranslateHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := mymemory.NewClient(mymemory.Config{BaseURL: server.URL}, logging.NewNop())
	_, err := client.Translate(context.Background(), "hello", "en", "hi")
	if !errors.Is(err, services.ErrTranslation) {
		t.Fatalf("expected translation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "http 502") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestTranslateChunksLongInput(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if n := len(r.URL.Query().Get("q")); n > 500 {
			t.Errorf("query of %d bytes exceeds limit", n)
		}
		calls.Add(1)
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"x"},"responseStatus":200}`))
	}))
	defer server.Close()

	text := strings.TrimSpace(strings.Repeat("word ", 250))
	client := mymemory.NewClient(mymemory.Config{BaseURL: server.URL}, logging.NewNop())
	got, err := client.Translate(context.Background(), text, "en", "hi")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 requests, got %d", calls.Load())
	}
	if got != "x x x" {
		t.Fatalf("joined translation = %q", got)
	}
}

func TestTranslateSendsMultilineTextUnchanged(t *testing.T) {
	var gotQuery string
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"पंक्ति एक।\n\nपंक्ति दो।"},"responseStatus":200}`))
	}))
	defer server.Close()

	text := "Line one.\n\nLine two."
	client := mymemory.NewClient(mymemory.Config{BaseURL: server.URL}, logging.NewNop())
	got, err := client.Translate(context.Background(), text, "en", "hi")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 request, got %d", calls.Load())
	}
	if gotQuery != text {
		t.Fatalf("q = %q, want %q", gotQuery, text)
	}
	if got != "पंक्ति एक।\n\nपंक्ति दो।" {
		t.Fatalf("translation = %q", got)
	}
}

func TestTranslateSplitsLongInputAtSentences(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if len(q) > 500 {
			t.Errorf("query of %d bytes exceeds limit", len(q))
		}
		queries = append(queries, q)
		body, _ := json.Marshal(map[string]any{
			"responseData":   map[string]string{"translatedText": strings.ToUpper(q)},
			"responseStatus": 200,
		})
		_, _ = w.Write(body)
	}))
	defer server.Close()

	paragraph := strings.TrimSpace(strings.Repeat("Alpha beta gamma. ", 20))
	text := "\n" + paragraph + "\n\n" + paragraph + "\n"
	client := mymemory.NewClient(mymemory.Config{BaseURL: server.URL}, logging.NewNop())
	got, err := client.Translate(context.Background(), text, "en", "hi")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if len(queries) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(queries))
	}
	for _, q := range queries {
		if !strings.HasSuffix(q, ".") {
			t.Fatalf("query %q does not end on a sentence boundary", q)
		}
	}
	if got != strings.ToUpper(text) {
		t.Fatalf("separators not preserved:\n got %q\nwant %q", got, strings.ToUpper(text))
	}
}
