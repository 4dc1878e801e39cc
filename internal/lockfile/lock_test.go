package lockfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testRunID = "4d1f0b7e-6c5a-4c1e-9d59-0c1b2f3a4e5d"

func TestAcquireLock(t *testing.T) {
	t.Run("creates lock file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "installed.ini.lock")

		lock, err := AcquireLock(context.Background(), path, testRunID)
		if err != nil {
			t.Fatalf("AcquireLock failed: %v", err)
		}
		defer lock.Release()

		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Error("lock file not created")
		}
		if lock.Path() != path {
			t.Errorf("Path() = %s, want %s", lock.Path(), path)
		}
	})

	t.Run("prevents concurrent locks", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "installed.ini.lock")

		lock1, err := AcquireLock(context.Background(), path, testRunID)
		if err != nil {
			t.Fatalf("first AcquireLock failed: %v", err)
		}
		defer lock1.Release()

		_, err = AcquireLock(context.Background(), path, "other")
		if !errors.Is(err, ErrLockExists) {
			t.Fatalf("expected ErrLockExists, got %v", err)
		}
		if !strings.Contains(err.Error(), "pid") {
			t.Errorf("error should name the holder, got %v", err)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "installed.ini.lock")
		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		_, err := AcquireLock(ctx, path, testRunID)
		if err == nil {
			t.Error("expected error for cancelled context")
		}
		if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
			t.Error("lock file should not be created for cancelled context")
		}
	})

	t.Run("creates directory if needed", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "install")
		path := filepath.Join(dir, "installed.ini.lock")

		lock, err := AcquireLock(context.Background(), path, testRunID)
		if err != nil {
			t.Fatalf("AcquireLock failed: %v", err)
		}
		defer lock.Release()

		if _, err := os.Stat(dir); os.IsNotExist(err) {
			t.Error("directory not created")
		}
	})

	t.Run("writes lock metadata", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "installed.ini.lock")

		lock, err := AcquireLock(context.Background(), path, testRunID)
		if err != nil {
			t.Fatalf("AcquireLock failed: %v", err)
		}
		defer lock.Release()

		holder, err := ReadHolder(path)
		if err != nil {
			t.Fatalf("ReadHolder failed: %v", err)
		}
		if holder.RunID != testRunID {
			t.Errorf("RunID = %q, want %q", holder.RunID, testRunID)
		}
		if holder.PID == "" || holder.Timestamp == "" {
			t.Errorf("incomplete metadata: %+v", holder)
		}
	})
}

func TestLockRelease(t *testing.T) {
	t.Run("removes lock file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "installed.ini.lock")

		lock, err := AcquireLock(context.Background(), path, testRunID)
		if err != nil {
			t.Fatalf("AcquireLock failed: %v", err)
		}

		if err := lock.Release(); err != nil {
			t.Fatalf("Release failed: %v", err)
		}

		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("lock file should be removed after release")
		}
	})

	t.Run("allows new lock after release", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "installed.ini.lock")

		lock1, err := AcquireLock(context.Background(), path, testRunID)
		if err != nil {
			t.Fatalf("first AcquireLock failed: %v", err)
		}
		lock1.Release()

		lock2, err := AcquireLock(context.Background(), path, testRunID)
		if err != nil {
			t.Fatalf("second AcquireLock should succeed: %v", err)
		}
		defer lock2.Release()
	})

	t.Run("is idempotent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "installed.ini.lock")

		lock, err := AcquireLock(context.Background(), path, testRunID)
		if err != nil {
			t.Fatalf("AcquireLock failed: %v", err)
		}

		// Release twice should not error
		if err := lock.Release(); err != nil {
			t.Fatalf("first Release failed: %v", err)
		}
		if err := lock.Release(); err != nil {
			t.Fatalf("second Release should not error: %v", err)
		}
	})

	t.Run("second release does not remove a newer lock", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "installed.ini.lock")

		lock1, err := AcquireLock(context.Background(), path, "first")
		if err != nil {
			t.Fatalf("AcquireLock failed: %v", err)
		}
		lock1.Release()

		lock2, err := AcquireLock(context.Background(), path, "second")
		if err != nil {
			t.Fatalf("AcquireLock failed: %v", err)
		}
		defer lock2.Release()

		lock1.Release()
		if _, err := os.Stat(path); err != nil {
			t.Errorf("newer lock was removed: %v", err)
		}
	})
}

func TestStaleLockHandling(t *testing.T) {
	t.Run("removes stale lock and acquires new one", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "installed.ini.lock")

		// Create a stale lock file manually
		if err := os.WriteFile(path, []byte("pid=99999\nrun=old\ntimestamp=2020-01-01T00:00:00Z\n"), 0600); err != nil {
			t.Fatalf("failed to create stale lock: %v", err)
		}

		// Set modification time to past (beyond stale threshold)
		staleTime := time.Now().Add(-StaleLockThreshold - time.Minute)
		if err := os.Chtimes(path, staleTime, staleTime); err != nil {
			t.Fatalf("failed to set stale time: %v", err)
		}

		// Should succeed by removing stale lock
		lock, err := AcquireLock(context.Background(), path, testRunID)
		if err != nil {
			t.Fatalf("AcquireLock should succeed with stale lock: %v", err)
		}
		defer lock.Release()

		holder, _ := ReadHolder(path)
		if holder == nil || holder.RunID != testRunID {
			t.Errorf("stale lock metadata was not replaced: %+v", holder)
		}
	})

	t.Run("fails for non-stale lock", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "installed.ini.lock")

		// Create a fresh lock file manually
		if err := os.WriteFile(path, []byte("pid=99999\ntimestamp=2020-01-01T00:00:00Z\n"), 0600); err != nil {
			t.Fatalf("failed to create lock: %v", err)
		}

		// Modification time is now (fresh), should fail
		_, err := AcquireLock(context.Background(), path, testRunID)
		if !errors.Is(err, ErrLockExists) {
			t.Errorf("expected ErrLockExists, got %v", err)
		}
		if !strings.Contains(err.Error(), "99999") {
			t.Errorf("error should include holder pid, got %v", err)
		}
	})
}
