package config

import (
	"os"
	"testing"
)

// testChdir changes the working directory to dir for the duration of the
// test and restores the previous one on cleanup (testing.T.Chdir needs Go 1.24).
func testChdir(t *testing.T, dir string) {
	t.Helper()

	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}

	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restoring working directory %s: %v", prev, err)
		}
	})
}
