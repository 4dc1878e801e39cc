// Package testutil provides utilities for testing installs in isolation.
package testutil

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// SetupTestEnv creates an isolated installation directory and points
// BASETOOLSBINS_INSTALL_DIR at it. The other BASETOOLSBINS_* variables are
// cleared so a developer's environment never leaks into a test.
//
// The returned path ends with a separator. Cleanup is handled by t.TempDir.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "install")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("failed to create test directory %s: %v", dir, err)
	}
	dir += string(os.PathSeparator)

	t.Setenv("BASETOOLSBINS_INSTALL_DIR", dir)
	t.Setenv("BASETOOLSBINS_LOG_LEVEL", "")
	t.Setenv("BASETOOLSBINS_LOG_FILE", "")
	t.Setenv("BASETOOLSBINS_NO_LOCK", "")

	return dir
}

// WriteRelease lays out a release in dir: version.ini naming archive and
// url, and the archive itself holding files.
func WriteRelease(t *testing.T, dir, archive, url string, files map[string]string) {
	t.Helper()

	ini := "[zip]\nfile: " + archive + "\nurl: " + url + "\n"
	if err := os.WriteFile(filepath.Join(dir, "version.ini"), []byte(ini), 0o644); err != nil {
		t.Fatalf("failed to write version.ini: %v", err)
	}
	WriteZip(t, filepath.Join(dir, archive), files)
}

// WriteZip writes a zip archive at path. Entries are added in name order.
func WriteZip(t *testing.T, path string, files map[string]string) {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to add %s: %v", name, err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to finish archive: %v", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
