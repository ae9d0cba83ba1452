package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Path != present {
		t.Fatalf("expected first requirement to resolve to %s, got %#v", present, results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}
}

func TestMediaRequirementsAreOptional(t *testing.T) {
	reqs := MediaRequirements("ffmpeg-does-not-exist", "ffprobe-does-not-exist")
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(reqs))
	}
	statuses := CheckBinaries(reqs)
	for _, s := range statuses {
		if s.Available {
			t.Fatalf("expected %s to be unavailable", s.Name)
		}
	}
	if missing := MissingRequired(statuses); len(missing) != 0 {
		t.Fatalf("optional tools must not count as missing, got %v", missing)
	}
}

func TestMissingRequired(t *testing.T) {
	statuses := []Status{
		{Name: "a", Available: true},
		{Name: "b", Optional: true},
		{Name: "c"},
	}
	missing := MissingRequired(statuses)
	if len(missing) != 1 || missing[0].Name != "c" {
		t.Fatalf("unexpected missing set: %v", missing)
	}
}
