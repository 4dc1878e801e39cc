// Package platform describes the host the installer runs on.
//
// The information is attached to log entries so that an operator reading a
// log can tell which host produced it. Detection never blocks an install;
// when gopsutil cannot identify the distribution the fields are left empty.
package platform

import (
	"context"
)

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyGentoo  = "gentoo"  // Gentoo
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Info contains platform detection information.
type Info struct {
	OS       string // "linux", "darwin", "windows"
	Arch     string // normalized architecture ("amd64", "arm64", "386", ...)
	ArchRaw  string // original GOARCH
	Platform string // distro ID (Linux only, e.g., "ubuntu", "arch")
	Family   string // canonical family (e.g., "debian", "rhel", "arch")
	Version  string // distro version (Linux only, e.g., "22.04")
}

// Fields returns the info as alternating key-value pairs for structured logs.
func (i *Info) Fields() []interface{} {
	if i == nil {
		return nil
	}

	fields := []interface{}{"os", i.OS, "arch", i.Arch}
	if i.Platform != "" {
		fields = append(fields, "distro", i.Platform, "family", i.Family, "distro_version", i.Version)
	}
	return fields
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
