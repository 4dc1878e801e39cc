// Package installer sequences an idempotent install: resolve the
// installation directory, read version.ini and installed.ini, and extract the
// archive only when the installed marker does not already name it.
package installer

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/ZebulonRouseFrantzich/basetoolsbins/internal/archive"
	"github.com/ZebulonRouseFrantzich/basetoolsbins/internal/descriptor"
	"github.com/ZebulonRouseFrantzich/basetoolsbins/internal/installdir"
	"github.com/ZebulonRouseFrantzich/basetoolsbins/internal/lockfile"
	"github.com/ZebulonRouseFrantzich/basetoolsbins/internal/logging"
)

// LockFile is the advisory lock taken around extraction and the marker write.
const LockFile = descriptor.InstalledFile + ".lock"

// Config holds configuration for an install run
type Config struct {
	// InvocationPath is the path the program was started with (argv[0]).
	InvocationPath string
	// Dir, when set, is used instead of resolving InvocationPath.
	Dir *installdir.Dir
	// Stdout receives operator-facing messages. Nil discards them.
	Stdout io.Writer
	// Logger receives structured logs. Nil discards them.
	Logger logging.Logger
	// DisableLock skips the advisory lock.
	DisableLock bool
	// MaxArchiveSize overrides archive.DefaultMaxArchiveSize when positive.
	MaxArchiveSize int64
}

// Context is the state threaded through the steps of one run.
type Context struct {
	RunID     string
	Dir       installdir.Dir
	Desired   *descriptor.Descriptor
	Installed *descriptor.Descriptor
}

// Installer runs the install procedure once.
type Installer struct {
	cfg    Config
	logger logging.Logger
	state  State
	run    Context
}

// New creates an installer from cfg.
func New(cfg Config) *Installer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	return &Installer{
		cfg:    cfg,
		logger: logger,
		state:  StateStart,
	}
}

// State returns the step the installer reached.
func (i *Installer) State() State {
	return i.state
}

// Context returns a copy of the run state.
func (i *Installer) Context() Context {
	return i.run
}

// Run performs the install. It returns OutcomeAlreadyInstalled when
// installed.ini already names the archive from version.ini, and
// OutcomeInstalled after extracting the archive and rewriting installed.ini.
// Every failure is an *Error carrying its Kind.
func (i *Installer) Run(ctx context.Context) (Outcome, error) {
	if i.state != StateStart {
		return OutcomeFailed, fmt.Errorf("installer already ran (state %s)", i.state)
	}

	i.run.RunID = uuid.NewString()
	i.logger = logging.With(i.logger, "run", i.run.RunID)

	i.resolveDir()

	desired, err := descriptor.ParseDesired(i.run.Dir.Join(descriptor.VersionFile))
	if err != nil {
		return i.abort(wrap("parse "+descriptor.VersionFile, err))
	}
	i.run.Desired = desired
	i.transition(StateDesiredParsed, "archive", desired.ArchiveFileName)

	i.run.Installed = i.parseInstalled()
	i.transition(StateInstalledParsed, "installed", i.run.Installed.InstalledArchiveFileName)

	if descriptor.Compare(i.run.Desired, i.run.Installed) == descriptor.AlreadyInstalled {
		return i.finishAlreadyInstalled()
	}
	i.transition(StateNeedsInstall)

	if !i.cfg.DisableLock {
		lock, err := lockfile.AcquireLock(ctx, i.run.Dir.Join(LockFile), i.run.RunID)
		if err != nil {
			e := wrap("acquire install lock", err)
			if e.Kind == KindUnknown {
				e.Kind = KindWriteProtected
			}
			return i.abort(e)
		}
		defer func() {
			if err := lock.Release(); err != nil {
				i.logger.Warn("failed to release install lock", "error", err)
			}
		}()

		// installed.ini may have changed before the lock was taken
		i.run.Installed = i.parseInstalled()
		if descriptor.Compare(i.run.Desired, i.run.Installed) == descriptor.AlreadyInstalled {
			return i.finishAlreadyInstalled()
		}
	}

	extractor := archive.NewExtractor(i.cfg.Stdout, i.logger)
	if i.cfg.MaxArchiveSize > 0 {
		extractor.MaxArchiveSize = i.cfg.MaxArchiveSize
	}

	result, err := extractor.ExtractZip(ctx, i.run.Dir, desired.ArchiveFileName, desired.ArchiveDownloadURL)
	if err != nil {
		e := wrap("install "+desired.ArchiveFileName, err)
		if e.Kind == KindUnknown {
			e.Kind = KindVolumeCorrupted
		}
		return i.abort(e)
	}
	i.transition(StateExtracted, "entries", len(result.Entries))

	// Files are already on disk; a failed marker write means the next run
	// extracts again.
	markerPath := i.run.Dir.Join(descriptor.InstalledFile)
	if err := descriptor.WriteInstalled(markerPath, desired.ArchiveFileName); err != nil {
		e := wrap("write "+descriptor.InstalledFile, err)
		if e.Kind == KindUnknown {
			e.Kind = KindWriteProtected
		}
		return i.abort(e)
	}
	i.transition(StateMarkerWritten, "path", markerPath)

	i.transition(StateDone)
	i.logger.Info("archive installed", "archive", desired.ArchiveFileName, "dir", i.run.Dir.String())
	return OutcomeInstalled, nil
}

func (i *Installer) resolveDir() {
	if i.cfg.Dir != nil {
		i.run.Dir = *i.cfg.Dir
	} else {
		i.run.Dir = installdir.Resolve(i.cfg.InvocationPath)
	}
	i.transition(StateDirResolved, "dir", i.run.Dir.String())
}

// parseInstalled reads installed.ini. Anything that prevents reading it is
// treated as nothing installed.
func (i *Installer) parseInstalled() *descriptor.Descriptor {
	path := i.run.Dir.Join(descriptor.InstalledFile)

	installed, err := descriptor.ParseInstalled(path)
	if err != nil {
		i.logger.Warn("ignoring unreadable installed marker", "path", path, "error", err)
		return &descriptor.Descriptor{Path: path}
	}
	if !installed.Exists() {
		i.logger.Debug("no installed marker", "path", path)
	}
	return installed
}

func (i *Installer) finishAlreadyInstalled() (Outcome, error) {
	i.transition(StateAlreadyInstalled)
	i.transition(StateDone)
	i.logger.Info("archive already installed", "archive", i.run.Desired.ArchiveFileName)
	return OutcomeAlreadyInstalled, nil
}

func (i *Installer) transition(to State, keysAndValues ...interface{}) {
	from := i.state
	i.state = to
	i.logger.Debug("state transition", append([]interface{}{"from", from.String(), "to", to.String()}, keysAndValues...)...)
}

func (i *Installer) abort(e *Error) (Outcome, error) {
	i.logger.Debug("install aborted", "state", i.state.String(), "kind", e.Kind.String(), "error", e.Err)
	i.state = StateAborted
	return OutcomeFailed, e
}
