package descriptor

import (
	"errors"
)

// File names of the two descriptors, relative to the installation directory.
const (
	VersionFile   = "version.ini"
	InstalledFile = "installed.ini"
)

// Format tokens.
const (
	SectionZip = "[zip]"
	KeyFile    = "file:"
	KeyURL     = "url:"
)

var (
	// ErrNotFound is returned when a required descriptor file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrArchiveNameMissing is returned when version.ini has no [zip] section
	// or no file: key inside it.
	ErrArchiveNameMissing = errors.New("zip filename not found")

	// ErrWriteProtected is returned when installed.ini cannot be written.
	ErrWriteProtected = errors.New("write protected")
)

// Role selects which descriptor a file is parsed as.
type Role int

const (
	// RoleDesired parses version.ini: file: and url: are read, and a missing
	// file or archive name is an error.
	RoleDesired Role = iota
	// RoleInstalled parses installed.ini: only file: is read, and a missing
	// file or section means nothing is installed yet.
	RoleInstalled
)

// String returns the descriptor file name for the role.
func (r Role) String() string {
	switch r {
	case RoleDesired:
		return VersionFile
	case RoleInstalled:
		return InstalledFile
	default:
		return "unknown"
	}
}

// Descriptor is the parsed view of one descriptor file. A desired descriptor
// populates ArchiveFileName and ArchiveDownloadURL. An installed descriptor
// populates InstalledArchiveFileName. An empty string means unset.
type Descriptor struct {
	ArchiveFileName          string
	ArchiveDownloadURL       string
	InstalledArchiveFileName string

	// Path is the file the descriptor was read from.
	Path string

	exists bool
}

// Exists reports whether the file existed and carried a [zip] section.
func (d *Descriptor) Exists() bool {
	return d != nil && d.exists
}

// State is the result of comparing the desired and installed descriptors.
type State int

const (
	// NeedsInstall means the archive must be extracted.
	NeedsInstall State = iota
	// AlreadyInstalled means installed.ini already names the desired archive.
	AlreadyInstalled
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case NeedsInstall:
		return "needs-install"
	case AlreadyInstalled:
		return "already-installed"
	default:
		return "unknown"
	}
}
