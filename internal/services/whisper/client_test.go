package whisper_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"webtranslator/internal/logging"
	"webtranslator/internal/services"
	"webtranslator/internal/services/whisper"
)

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(path, []byte("RIFF fake"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return path
}

func TestTranscribeVerboseJSON(t *testing.T) {
	var gotModel, gotFormat, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		gotFormat = r.FormValue("response_format")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"task":"transcribe","language":"hindi","duration":2.5,"text":" namaste duniya "}`))
	}))
	defer server.Close()

	client := whisper.New(whisper.Config{APIKey: "sk-test", BaseURL: server.URL}, logging.NewNop())
	result, err := client.Transcribe(context.Background(), writeAudio(t))
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if result.Text != "namaste duniya" {
		t.Fatalf("text = %q", result.Text)
	}
	if result.Language != "hi" {
		t.Fatalf("language = %q, want hi", result.Language)
	}
	if gotModel != "whisper-1" {
		t.Fatalf("model = %q", gotModel)
	}
	if gotFormat != "verbose_json" {
		t.Fatalf("response_format = %q", gotFormat)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("authorization = %q", gotAuth)
	}
}

func TestTranscribeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid file format.","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	client := whisper.New(whisper.Config{APIKey: "sk-test", BaseURL: server.URL + "/"}, logging.NewNop())
	_, err := client.Transcribe(context.Background(), writeAudio(t))
	if !errors.Is(err, services.ErrTranscription) {
		t.Fatalf("expected transcription error, got %v", err)
	}
	if msg := services.ClientMessage(err); !strings.HasPrefix(msg, "Invalid file format.") {
		t.Fatalf("client message = %q", msg)
	}
}
