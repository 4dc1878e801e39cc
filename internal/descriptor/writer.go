package descriptor

import (
	"fmt"
	"io"
	"os"
)

// Render writes the installed.ini content for archiveName to w.
func Render(w io.Writer, archiveName string) error {
	if _, err := fmt.Fprintf(w, "%s\n%s %s\n", SectionZip, KeyFile, archiveName); err != nil {
		return fmt.Errorf("write descriptor: %w", err)
	}
	return nil
}

// WriteInstalled replaces installed.ini at path with a [zip] section naming
// archiveName. The content goes to a temporary file beside path which is then
// renamed over it, so a reader never sees a half-written marker.
//
// Failure to create the file returns an error wrapping ErrWriteProtected.
func WriteInstalled(path, archiveName string) error {
	if archiveName == "" {
		return fmt.Errorf("archive name is required")
	}

	tmpPath := path + ".tmp"
	tmpFile, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w: %v", path, ErrWriteProtected, err)
	}

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	if err := Render(tmpFile, archiveName); err != nil {
		return err
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmpPath, err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w: %v", path, ErrWriteProtected, err)
	}

	cleanupNeeded = false
	return nil
}
