package integrity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFingerprint_Deterministic(t *testing.T) {
	f := New()
	lines := []string{
		"2024-09-10 10:15:23 INFO Application started successfully",
		"2024-09-10 10:16:45 ERROR Failed to connect to database",
	}

	a := f.Fingerprint(lines)
	b := f.Fingerprint(lines)
	if a != b {
		t.Errorf("Same input produced different fingerprints: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("Expected 64 hex chars, got %d", len(a))
	}
}

func TestFingerprint_DiffersOnInput(t *testing.T) {
	f := New()
	a := f.Fingerprint([]string{"line one", "line two"})
	b := f.Fingerprint([]string{"line one", "line TWO"})
	if a == b {
		t.Error("Different input produced identical fingerprints")
	}
}

func TestFingerprint_LineBoundaries(t *testing.T) {
	f := New()
	a := f.Fingerprint([]string{"ab", "c"})
	b := f.Fingerprint([]string{"a", "bc"})
	if a == b {
		t.Error("Line boundary shift should change the fingerprint")
	}
}

func TestFingerprintFile_MatchesLines(t *testing.T) {
	lines := []string{
		"2024-09-10 10:15:23 INFO Application started successfully",
		"2024-09-10 10:17:02 WARNING High memory usage detected",
		"2024-09-10 10:19:30 CRITICAL Database connection timeout",
	}
	path := filepath.Join(t.TempDir(), "sample.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	f := New()
	fromFile, err := f.FingerprintFile(path)
	if err != nil {
		t.Fatalf("FingerprintFile failed: %v", err)
	}
	fromLines := f.Fingerprint(lines)
	if fromFile != fromLines {
		t.Errorf("File and line fingerprints disagree: %s vs %s", fromFile, fromLines)
	}
}

func TestFingerprintFile_Missing(t *testing.T) {
	f := New()
	if _, err := f.FingerprintFile(filepath.Join(t.TempDir(), "nope.log")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestFingerprintReader(t *testing.T) {
	f := New()
	a, err := f.FingerprintReader(strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("FingerprintReader failed: %v", err)
	}
	b, err := f.FingerprintReader(strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("FingerprintReader failed: %v", err)
	}
	if a != b {
		t.Error("Reader fingerprint not deterministic")
	}
}
