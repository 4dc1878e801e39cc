// Package archive extracts an installation zip into the installation
// directory.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/basetoolsbins/internal/installdir"
	"github.com/ZebulonRouseFrantzich/basetoolsbins/internal/logging"
)

const (
	defaultFileMode os.FileMode = 0644
	ownerWrite      os.FileMode = 0200

	// DefaultMaxArchiveSize bounds how much is read into memory.
	DefaultMaxArchiveSize int64 = 2 << 30
)

var (
	// ErrArchiveNotFound is returned when the archive is not present beside
	// the executable.
	ErrArchiveNotFound = errors.New("archive not found")

	// ErrCorrupted is returned when the archive cannot be opened or one of
	// its entries cannot be extracted.
	ErrCorrupted = errors.New("volume corrupted")

	// ErrIllegalPath is returned for entries that would be written outside
	// the installation directory. It wraps ErrCorrupted.
	ErrIllegalPath = fmt.Errorf("illegal file path: %w", ErrCorrupted)

	// ErrArchiveTooLarge is returned when the archive exceeds MaxArchiveSize.
	ErrArchiveTooLarge = errors.New("archive too large to load into memory")
)

// Extractor handles archive extraction
type Extractor struct {
	// MaxArchiveSize is the largest archive, in bytes, that will be loaded.
	MaxArchiveSize int64

	out    io.Writer
	logger logging.Logger
}

// NewExtractor creates a new extractor. Operator messages (entry counts,
// entry names, download guidance) are written to out.
func NewExtractor(out io.Writer, logger logging.Logger) *Extractor {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Extractor{
		MaxArchiveSize: DefaultMaxArchiveSize,
		out:            out,
		logger:         logger,
	}
}

// Result describes a completed extraction.
type Result struct {
	ArchivePath string
	Entries     []string
}

// ExtractZip extracts the archive named name from dir into dir. If the
// archive is missing, the download URL is printed and ErrArchiveNotFound is
// returned without touching the filesystem. Any failure while opening the
// archive or writing an entry stops extraction immediately; entries already
// written are left in place.
func (e *Extractor) ExtractZip(ctx context.Context, dir installdir.Dir, name, url string) (*Result, error) {
	archivePath := dir.Join(name)

	info, err := os.Stat(archivePath)
	if err != nil || info.IsDir() {
		fmt.Fprintf(e.out, "Unable to open %s\n", archivePath)
		fmt.Fprintf(e.out, "You can download this BaseTools bin release at:\n%s\n", url)
		return nil, fmt.Errorf("%s: %w", archivePath, ErrArchiveNotFound)
	}

	// Archives are small enough to hold in memory
	if info.Size() > e.MaxArchiveSize {
		return nil, fmt.Errorf("%s is %d bytes, limit %d: %w", archivePath, info.Size(), e.MaxArchiveSize, ErrArchiveTooLarge)
	}

	data, err := os.ReadFile(archivePath)
	if err != nil {
		return nil, fmt.Errorf("read archive %s: %w", archivePath, err)
	}

	// Insecure names are rejected per entry by ValidateEntryName
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		e.logger.Error("failed to open zip file", "archive", archivePath, "error", err)
		return nil, fmt.Errorf("failed to open zip file %s: %w: %v", archivePath, ErrCorrupted, err)
	}

	fmt.Fprintf(e.out, "Zip num files: %d\n", len(reader.File))
	e.logger.Debug("opened archive", "archive", archivePath, "entries", len(reader.File), "bytes", len(data))

	result := &Result{
		ArchivePath: archivePath,
		Entries:     make([]string, 0, len(reader.File)),
	}

	for _, f := range reader.File {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		fmt.Fprintf(e.out, "Zip archive name: %s\n", f.Name)

		if err := e.extractEntry(dir, f); err != nil {
			e.logger.Error("failed extract zip archive file", "entry", f.Name, "error", err)
			return result, err
		}

		result.Entries = append(result.Entries, f.Name)
	}

	return result, nil
}

// extractEntry writes a single archive entry below dir.
func (e *Extractor) extractEntry(dir installdir.Dir, f *zip.File) error {
	if err := ValidateEntryName(f.Name); err != nil {
		return err
	}

	target := dir.Join(f.Name)

	// Directory entries only need the directory itself
	if strings.HasSuffix(f.Name, "/") || f.FileInfo().IsDir() {
		if err := os.MkdirAll(target, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", target, err)
		}
		return nil
	}

	// Create parent directory if needed
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", target, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w: %v", f.Name, ErrCorrupted, err)
	}
	defer rc.Close()

	// Entries keep their permission bits plus owner write.
	mode := f.FileInfo().Mode().Perm()
	if mode == 0 {
		mode = defaultFileMode
	}
	mode |= ownerWrite

	if err := makeWritable(target); err != nil {
		return fmt.Errorf("make %s writable: %w: %v", target, ErrCorrupted, err)
	}

	outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create file %s: %w: %v", target, ErrCorrupted, err)
	}

	// Copy file contents; a checksum mismatch surfaces here
	if _, err := io.Copy(outFile, rc); err != nil {
		outFile.Close()
		return fmt.Errorf("write file %s: %w: %v", target, ErrCorrupted, err)
	}

	if err := outFile.Close(); err != nil {
		return fmt.Errorf("close file %s: %w: %v", target, ErrCorrupted, err)
	}

	e.logger.Debug("extracted entry", "entry", f.Name, "target", target, "bytes", f.UncompressedSize64)
	return nil
}

// makeWritable adds the owner-write bit to an existing regular file at path.
func makeWritable(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.Mode().IsRegular() || info.Mode().Perm()&ownerWrite != 0 {
		return nil
	}
	return os.Chmod(path, info.Mode().Perm()|ownerWrite)
}

// ValidateEntryName rejects entry names that would escape the installation
// directory: absolute paths, drive-qualified paths and ".." traversal.
// Both '/' and '\' are treated as separators.
func ValidateEntryName(name string) error {
	if name == "" {
		return fmt.Errorf("empty entry name: %w", ErrIllegalPath)
	}

	slashed := strings.ReplaceAll(name, `\`, "/")

	if strings.HasPrefix(slashed, "/") || filepath.IsAbs(name) {
		return fmt.Errorf("%s: %w", name, ErrIllegalPath)
	}

	if len(slashed) >= 2 && slashed[1] == ':' {
		return fmt.Errorf("%s: %w", name, ErrIllegalPath)
	}

	cleaned := path.Clean(slashed)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return fmt.Errorf("%s: %w", name, ErrIllegalPath)
	}

	return nil
}
