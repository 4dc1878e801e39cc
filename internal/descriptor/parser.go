package descriptor

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// asciiSpace is the set of characters stripped from the end of a value.
const asciiSpace = " \t\n\v\f\r"

const utf8BOM = "\xef\xbb\xbf"

// ParseDesired parses version.ini at path. A missing file returns an error
// wrapping ErrNotFound. A file without a [zip] section or without a file: key
// returns an error wrapping ErrArchiveNameMissing.
func ParseDesired(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file %s not found: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	d, err := Parse(bytes.NewReader(data), RoleDesired)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	d.Path = path

	if d.ArchiveFileName == "" {
		return d, fmt.Errorf("%s: %w", path, ErrArchiveNameMissing)
	}

	return d, nil
}

// ParseInstalled parses installed.ini at path. A missing file is the normal
// first-run state: it returns an empty descriptor whose Exists reports false
// and a nil error.
func ParseInstalled(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Descriptor{Path: path}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	d, err := Parse(bytes.NewReader(data), RoleInstalled)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	d.Path = path

	return d, nil
}

// Parse reads descriptor content from r for the given role. It never fails on
// missing keys; callers decide what a missing archive name means. The
// returned descriptor's Exists reports whether a [zip] section was found.
func Parse(r io.Reader, role Role) (*Descriptor, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	d := &Descriptor{}
	first := true
	inSection := false

	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if first {
			line = strings.TrimPrefix(line, utf8BOM)
			first = false
		}

		if !inSection {
			if line == SectionZip {
				inSection = true
				d.exists = true
			}
			continue
		}

		// Next section ends the [zip] section
		if strings.HasPrefix(line, "[") {
			break
		}

		switch {
		case strings.HasPrefix(line, KeyFile):
			value, _ := ParseValue(line)
			if role == RoleDesired {
				d.ArchiveFileName = value
			} else {
				d.InstalledArchiveFileName = value
			}
		case role == RoleDesired && strings.HasPrefix(line, KeyURL):
			d.ArchiveDownloadURL, _ = ParseValue(line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan lines: %w", err)
	}

	return d, nil
}

// ParseValue extracts the value of a "key: value" line. The value starts after
// the first ':' with leading spaces skipped, and trailing ASCII whitespace is
// removed. ok is false when the line has no ':'.
func ParseValue(line string) (value string, ok bool) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return "", false
	}

	value = strings.TrimLeft(line[idx+1:], " ")
	return strings.TrimRight(value, asciiSpace), true
}
