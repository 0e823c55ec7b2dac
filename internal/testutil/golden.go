// Package testutil provides golden-file comparison helpers for the
// concrete-scenario fixtures exercised by the jack and asm package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kylelemons/godebug/diff"
)

var updateGolden = os.Getenv("TEST_UPDATE_GOLDEN") != ""

// DiffGolden compares got against the contents of the golden file at
// path (relative to the test's working directory, e.g.
// "testdata/point.vm"). If TEST_UPDATE_GOLDEN is set in the
// environment, it writes got to the golden file instead of comparing.
func DiffGolden(t *testing.T, path, got string) {
	t.Helper()

	if updateGolden {
		if err := os.WriteFile(path, []byte(got), 0o644); err != nil {
			t.Fatal(err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading golden file %s: %v", path, err)
	}

	if patch := diff.Diff(string(want), got); patch != "" {
		t.Errorf("output mismatch for %s:\n%s", filepath.Base(path), patch)
	}
}
