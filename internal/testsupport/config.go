package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"webtranslator/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with a unique artifact directory per
// test and a dummy transcription key, so it passes validation.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Transcription.APIKey = "test"
	cfgVal.Paths.ArtifactDir = filepath.Join(base, "generated")
	cfgVal.Server.Bind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithTranscriptionKey sets the transcription API key on the test config.
func WithTranscriptionKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcription.APIKey = key
	}
}

// WithRetention overrides the artifact retention settings.
func WithRetention(maxAge, interval string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Retention.MaxAge = maxAge
		b.cfg.Retention.SweepInterval = interval
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg and ffprobe are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		if tb, ok := b.t.(*testing.T); ok {
			tb.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
			return
		}
		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.ArtifactDir)
}
