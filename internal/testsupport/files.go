package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"webtranslator/internal/artifacts"
)

// WriteArtifact creates an artifact file of size bytes directly in dir and
// backdates its modification time by age. It returns the servable name.
func WriteArtifact(t testing.TB, dir, ext string, size int64, age time.Duration) string {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	name := artifacts.NewID() + ext
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, int(size)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if age > 0 {
		stamp := time.Now().Add(-age)
		if err := os.Chtimes(path, stamp, stamp); err != nil {
			t.Fatalf("chtimes %s: %v", path, err)
		}
	}
	return name
}
