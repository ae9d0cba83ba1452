package artifacts_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"webtranslator/internal/artifacts"
)

func ageFile(t *testing.T, path string, age time.Duration) {
	t.Helper()
	old := time.Now().Add(-age)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("set old time: %v", err)
	}
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	store := newStore(t, "")
	ctx := context.Background()

	oldArtifact, err := store.Put(ctx, strings.NewReader("old"), ".mp3")
	if err != nil {
		t.Fatalf("Put old: %v", err)
	}
	ageFile(t, oldArtifact.Path, 2*time.Hour)

	fresh, err := store.Put(ctx, strings.NewReader("fresh"), ".mp3")
	if err != nil {
		t.Fatalf("Put fresh: %v", err)
	}

	stray := filepath.Join(store.Dir(), "notes.txt")
	if err := os.WriteFile(stray, []byte("keep"), 0o644); err != nil {
		t.Fatalf("write stray: %v", err)
	}
	ageFile(t, stray, 48*time.Hour)

	result := store.Sweep(ctx, time.Hour)
	if result.Skipped {
		t.Fatal("sweep unexpectedly skipped")
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", result.Errors)
	}
	if len(result.Removed) != 1 || result.Removed[0].ID != oldArtifact.ID {
		t.Fatalf("unexpected removal set: %+v", result.Removed)
	}
	if result.ReclaimedBytes() != 3 {
		t.Fatalf("reclaimed = %d, want 3", result.ReclaimedBytes())
	}
	if _, err := os.Stat(oldArtifact.Path); !os.IsNotExist(err) {
		t.Fatal("expired artifact should have been removed")
	}
	if _, err := os.Stat(fresh.Path); err != nil {
		t.Fatal("fresh artifact should still exist")
	}
	if _, err := os.Stat(stray); err != nil {
		t.Fatal("unrelated files must not be swept")
	}
}

func TestSweepRemovesAbandonedTempFiles(t *testing.T) {
	store := newStore(t, "")
	temp := filepath.Join(store.Dir(), "."+artifacts.NewID()+"-123.part")
	if err := os.WriteFile(temp, []byte("partial"), 0o644); err != nil {
		t.Fatalf("write temp: %v", err)
	}
	ageFile(t, temp, 3*time.Hour)

	result := store.Sweep(context.Background(), time.Hour)
	if len(result.Removed) != 0 {
		t.Fatalf("temp files are not reported as artifacts: %+v", result.Removed)
	}
	if _, err := os.Stat(temp); !os.IsNotExist(err) {
		t.Fatal("abandoned temp file should have been removed")
	}
}

func TestSweepDisabledForNonPositiveAge(t *testing.T) {
	store := newStore(t, "")
	artifact, err := store.Put(context.Background(), strings.NewReader("x"), ".wav")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	ageFile(t, artifact.Path, 1000*time.Hour)

	result := store.Sweep(context.Background(), 0)
	if len(result.Removed) != 0 {
		t.Fatalf("expected no removals when disabled, got %d", len(result.Removed))
	}
}

func TestSweepSkipsWhenLockHeld(t *testing.T) {
	store := newStore(t, "")
	artifact, err := store.Put(context.Background(), strings.NewReader("x"), ".wav")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	ageFile(t, artifact.Path, 2*time.Hour)

	holder := flock.New(filepath.Join(store.Dir(), ".sweep.lock"))
	locked, err := holder.TryLock()
	if err != nil || !locked {
		t.Fatalf("acquire lock: %v %v", locked, err)
	}
	defer holder.Unlock()

	result := store.Sweep(context.Background(), time.Hour)
	if !result.Skipped {
		t.Fatal("expected sweep to be skipped while lock is held")
	}
	if _, err := os.Stat(artifact.Path); err != nil {
		t.Fatal("artifact must survive a skipped sweep")
	}
}

func TestSweeperRunsUntilCancelled(t *testing.T) {
	store := newStore(t, "")
	artifact, err := store.Put(context.Background(), strings.NewReader("x"), ".wav")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	ageFile(t, artifact.Path, 2*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		artifacts.NewSweeper(store, time.Hour, 10*time.Millisecond, nil).Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := os.Stat(artifact.Path); os.IsNotExist(err) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("sweeper did not remove expired artifact")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestSweeperDisabledReturnsImmediately(t *testing.T) {
	store := newStore(t, "")
	done := make(chan struct{})
	go func() {
		artifacts.NewSweeper(store, 0, time.Hour, nil).Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled sweeper should return immediately")
	}
}
