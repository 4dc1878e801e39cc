// Package lockfile provides an advisory lock that serializes concurrent
// installer runs against the same installation directory.
package lockfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// StaleLockThreshold is the maximum age of a lock before it's considered stale.
	StaleLockThreshold = 10 * time.Minute
)

var (
	ErrLockExists = errors.New("install lock exists: another installation may be in progress")
)

// Lock represents a held advisory lock.
type Lock struct {
	path string
	file *os.File
}

// Holder is the metadata written into a lock file.
type Holder struct {
	PID       string
	RunID     string
	Timestamp string
}

// AcquireLock attempts to acquire an exclusive lock at path.
// Uses O_CREATE|O_EXCL for atomic lock creation. A lock older than
// StaleLockThreshold is removed and acquisition is retried once.
func AcquireLock(ctx context.Context, path, runID string) (*Lock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create lock directory: %w", err)
		}
	}

	// Try to create lock file exclusively
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if err != nil {
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create lock file: %w", err)
		}

		if isStale, _ := isLockStale(path); !isStale {
			return nil, heldError(path)
		}

		// Remove stale lock and retry once
		os.Remove(path)
		file, err = os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
		if err != nil {
			return nil, heldError(path)
		}
	}

	// Write lock metadata (PID, run ID and timestamp)
	lockData := fmt.Sprintf("pid=%d\nrun=%s\ntimestamp=%s\n", os.Getpid(), runID, time.Now().UTC().Format(time.RFC3339))
	if _, err := file.WriteString(lockData); err != nil {
		file.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write lock data: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(path)
		return nil, fmt.Errorf("sync lock file: %w", err)
	}

	return &Lock{
		path: path,
		file: file,
	}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release releases the lock. It is safe to call more than once.
func (l *Lock) Release() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	if l.path != "" {
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove lock file: %w", err)
		}
		l.path = ""
	}

	return nil
}

// ReadHolder parses the metadata of an existing lock file.
func ReadHolder(path string) (*Holder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	holder := &Holder{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		switch key {
		case "pid":
			holder.PID = value
		case "run":
			holder.RunID = value
		case "timestamp":
			holder.Timestamp = value
		}
	}

	return holder, scanner.Err()
}

// heldError wraps ErrLockExists with whatever is known about the holder.
func heldError(path string) error {
	holder, err := ReadHolder(path)
	if err != nil || holder.PID == "" {
		return ErrLockExists
	}
	return fmt.Errorf("%w (pid %s since %s)", ErrLockExists, holder.PID, holder.Timestamp)
}

// isLockStale checks if a lock file is older than the stale lock threshold.
func isLockStale(lockPath string) (bool, error) {
	info, err := os.Stat(lockPath)
	if err != nil {
		return false, err
	}

	age := time.Since(info.ModTime())
	return age > StaleLockThreshold, nil
}
