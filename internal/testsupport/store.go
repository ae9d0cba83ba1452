package testsupport

import (
	"testing"

	"webtranslator/internal/artifacts"
	"webtranslator/internal/config"
	"webtranslator/internal/logging"
)

// MustOpenArtifacts opens the artifact store described by cfg.
func MustOpenArtifacts(t testing.TB, cfg *config.Config) *artifacts.Store {
	t.Helper()

	store, err := artifacts.New(artifacts.Config{
		Dir:           cfg.Paths.ArtifactDir,
		PublicBaseURL: cfg.Server.PublicBaseURL,
	}, logging.NewNop())
	if err != nil {
		t.Fatalf("artifacts.New: %v", err)
	}
	return store
}
