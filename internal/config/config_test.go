package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"webtranslator/internal/config"
	"webtranslator/internal/language"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ASSEMBLYAI_API_KEY", "OPENAI_API_KEY", "WEBTRANSLATOR_BIND", "PORT"} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoadDefaultConfigUsesEnvKeyAndExpandsPaths(t *testing.T) {
	isolateEnv(t)
	t.Setenv("ASSEMBLYAI_API_KEY", "test-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantArtifacts := filepath.Join(tempHome, ".local", "share", "webtranslator", "generated")
	if cfg.Paths.ArtifactDir != wantArtifacts {
		t.Fatalf("unexpected artifact dir: got %q want %q", cfg.Paths.ArtifactDir, wantArtifacts)
	}
	if cfg.Server.Bind != "127.0.0.1:5000" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if cfg.Transcription.Provider != config.ProviderAssemblyAI {
		t.Fatalf("unexpected provider: %q", cfg.Transcription.Provider)
	}
	if cfg.Transcription.APIKey != "test-key" {
		t.Fatalf("expected key from env, got %q", cfg.Transcription.APIKey)
	}
	if cfg.RetentionMaxAge() != 24*time.Hour {
		t.Fatalf("unexpected max age: %s", cfg.RetentionMaxAge())
	}
	if cfg.RetentionSweepInterval() != time.Hour {
		t.Fatalf("unexpected sweep interval: %s", cfg.RetentionSweepInterval())
	}
	if cfg.MaxUploadBytes() != 50<<20 {
		t.Fatalf("unexpected upload cap: %d", cfg.MaxUploadBytes())
	}
	if cfg.Media.SampleRate != 44100 || cfg.Media.Channels != 1 {
		t.Fatalf("unexpected media defaults: %+v", cfg.Media)
	}
	if cfg.Detection.MinConfidence != language.DefaultMinConfidence {
		t.Fatalf("unexpected detection confidence: %g", cfg.Detection.MinConfidence)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	info, err := os.Stat(cfg.Paths.ArtifactDir)
	if err != nil {
		t.Fatalf("expected directory %q to exist: %v", cfg.Paths.ArtifactDir, err)
	}
	if !info.IsDir() {
		t.Fatalf("expected %q to be directory", cfg.Paths.ArtifactDir)
	}
}

func TestLoadFailsWithoutTranscriptionKey(t *testing.T) {
	isolateEnv(t)
	t.Setenv("HOME", t.TempDir())

	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected error when transcription key is missing")
	}
	if !strings.Contains(err.Error(), "ASSEMBLYAI_API_KEY") {
		t.Fatalf("expected error to name the env var, got %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	isolateEnv(t)
	configPath := filepath.Join(t.TempDir(), "webtranslator.toml")

	type payload struct {
		Server struct {
			Bind          string `toml:"bind"`
			PublicBaseURL string `toml:"public_base_url"`
		} `toml:"server"`
		Transcription struct {
			Provider string `toml:"provider"`
			APIKey   string `toml:"api_key"`
		} `toml:"transcription"`
		Retention struct {
			MaxAge string `toml:"max_age"`
		} `toml:"retention"`
		Detection struct {
			Candidates []string `toml:"candidates"`
		} `toml:"detection"`
	}
	custom := payload{}
	custom.Server.Bind = "0.0.0.0:8080"
	custom.Server.PublicBaseURL = "https://translate.example.com/"
	custom.Transcription.Provider = "OpenAI"
	custom.Transcription.APIKey = "abc123"
	custom.Retention.MaxAge = "90m"
	custom.Detection.Candidates = []string{"English", "hin", "hi-IN", "mar"}
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Server.Bind != "0.0.0.0:8080" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if cfg.Server.PublicBaseURL != "https://translate.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Server.PublicBaseURL)
	}
	if cfg.Transcription.Provider != config.ProviderOpenAI {
		t.Fatalf("expected provider normalized, got %q", cfg.Transcription.Provider)
	}
	if cfg.Transcription.Model != "whisper-1" {
		t.Fatalf("expected default whisper model, got %q", cfg.Transcription.Model)
	}
	if cfg.RetentionMaxAge() != 90*time.Minute {
		t.Fatalf("unexpected max age: %s", cfg.RetentionMaxAge())
	}
	if got := strings.Join(cfg.Detection.Candidates, ","); got != "en,hi,mr" {
		t.Fatalf("expected candidates normalized to iso codes, got %q", got)
	}
}

func TestEnvOverridesBind(t *testing.T) {
	isolateEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ASSEMBLYAI_API_KEY", "key")
	t.Setenv("PORT", "9000")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Bind != "0.0.0.0:9000" {
		t.Fatalf("expected PORT to set bind, got %q", cfg.Server.Bind)
	}

	t.Setenv("WEBTRANSLATOR_BIND", "127.0.0.1:7000")
	cfg, _, _, err = config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Bind != "127.0.0.1:7000" {
		t.Fatalf("expected WEBTRANSLATOR_BIND to win, got %q", cfg.Server.Bind)
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	isolateEnv(t)
	t.Setenv("HOME", t.TempDir())
	os.Unsetenv("OPENAI_API_KEY")
	t.Setenv("ASSEMBLYAI_API_KEY", "real-env")

	dotenv := "ASSEMBLYAI_API_KEY=from-dotenv\nOPENAI_API_KEY=dotenv-openai\n"
	if err := os.WriteFile(".env", []byte(dotenv), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Transcription.APIKey != "real-env" {
		t.Fatalf("expected real environment to win over .env, got %q", cfg.Transcription.APIKey)
	}
	if got := os.Getenv("OPENAI_API_KEY"); got != "dotenv-openai" {
		t.Fatalf("expected .env to populate unset variables, got %q", got)
	}
	os.Unsetenv("OPENAI_API_KEY")
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "ASSEMBLYAI_API_KEY") {
		t.Fatalf("sample config missing credential hint: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.ArtifactDir, "webtranslator") {
		t.Fatalf("expected artifact dir to contain webtranslator, got %q", cfg.Paths.ArtifactDir)
	}
	if cfg.Media.SampleRate != 44100 {
		t.Fatalf("unexpected sample rate: %d", cfg.Media.SampleRate)
	}
	if cfg.Detection.MinConfidence != language.DefaultMinConfidence {
		t.Fatalf("sample detection confidence %g differs from default", cfg.Detection.MinConfidence)
	}
}

func TestEncodeRedactsAPIKey(t *testing.T) {
	cfg := config.Default()
	cfg.Transcription.APIKey = "secret-value"
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if strings.Contains(string(data), "secret-value") {
		t.Fatalf("expected api key to be redacted: %s", data)
	}
	if cfg.Transcription.APIKey != "secret-value" {
		t.Fatal("Encode must not mutate the receiver")
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Transcription.APIKey = "key"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults with key to validate, got %v", err)
	}

	cfg = config.Default()
	cfg.Transcription.APIKey = "key"
	cfg.Transcription.Provider = "deepgram"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported provider")
	}

	cfg = config.Default()
	cfg.Transcription.APIKey = "key"
	cfg.Retention.MaxAge = "soon"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unparsable max age")
	}

	cfg = config.Default()
	cfg.Transcription.APIKey = "key"
	cfg.Retention.SweepInterval = "0"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when sweeping is enabled without an interval")
	}

	cfg = config.Default()
	cfg.Transcription.APIKey = "key"
	cfg.HTTP.RateLimitPerMinute = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative rate limit")
	}

	cfg = config.Default()
	cfg.Transcription.APIKey = "key"
	cfg.Server.PublicBaseURL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for relative public base url")
	}

	cfg = config.Default()
	cfg.Transcription.APIKey = "key"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported log format")
	}

	cfg = config.Default()
	cfg.Transcription.APIKey = "key"
	cfg.Detection.MinConfidence = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out of range detection confidence")
	}
}
