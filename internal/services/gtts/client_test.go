package gtts_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"webtranslator/internal/logging"
	"webtranslator/internal/services"
	"webtranslator/internal/services/gtts"
)

func TestSynthesizeConcatenatesSegments(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate_tts" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("client") != "tw-ob" || q.Get("ie") != "UTF-8" {
			t.Errorf("missing fixed parameters: %v", q)
		}
		if utf8.RuneCountInString(q.Get("q")) > 100 {
			t.Errorf("chunk exceeds 100 runes: %q", q.Get("q"))
		}
		if q.Get("total") != "2" {
			t.Errorf("total = %q", q.Get("total"))
		}
		mu.Lock()
		seen = append(seen, q.Get("tl"))
		mu.Unlock()
		_, _ = w.Write([]byte("seg" + q.Get("idx") + ";"))
	}))
	defer server.Close()

	text := strings.TrimSpace(strings.Repeat("नमस्ते दुनिया ", 10))
	client := gtts.NewClient(gtts.Config{BaseURL: server.URL}, logging.NewNop())
	var out bytes.Buffer
	if err := client.Synthesize(context.Background(), text, "hi", &out); err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if out.String() != "seg0;seg1;" {
		t.Fatalf("audio = %q", out.String())
	}
	for _, tl := range seen {
		if tl != "hi" {
			t.Fatalf("tl = %q, want hi", tl)
		}
	}
}

func TestSynthesizeDefaultsToEnglish(t *testing.T) {
	var gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLang = r.URL.Query().Get("tl")
		_, _ = w.Write([]byte("mp3"))
	}))
	defer server.Close()

	client := gtts.NewClient(gtts.Config{BaseURL: server.URL}, logging.NewNop())
	var out bytes.Buffer
	if err := client.Synthesize(context.Background(), "hello", "", &out); err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if gotLang != "en" {
		t.Fatalf("tl = %q, want en", gotLang)
	}
}

func TestSynthesizeUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unsupported language", http.StatusBadRequest)
	}))
	defer server.Close()

	client := gtts.NewClient(gtts.Config{BaseURL: server.URL}, logging.NewNop())
	var out bytes.Buffer
	err := client.Synthesize(context.Background(), "hello", "xx", &out)
	if !errors.Is(err, services.ErrSynthesis) {
		t.Fatalf("expected synthesis error, got %v", err)
	}
	if !strings.Contains(err.Error(), "http "+strconv.Itoa(http.StatusBadRequest)) {
		t.Fatalf("expected status in error, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no audio, got %d bytes", out.Len())
	}
}

func TestSynthesizeRejectsBlankText(t *testing.T) {
	client := gtts.NewClient(gtts.Config{BaseURL: "http://127.0.0.1:1"}, logging.NewNop())
	err := client.Synthesize(context.Background(), "   ", "en", &bytes.Buffer{})
	if !errors.Is(err, services.ErrSynthesis) {
		t.Fatalf("expected synthesis error, got %v", err)
	}
}
