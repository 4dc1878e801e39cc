package platform

import (
	"context"
	"errors"
	"runtime"
	"testing"
)

func TestRealDetector_Detect(t *testing.T) {
	info, err := NewDetector().Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if info.OS != runtime.GOOS {
		t.Errorf("OS = %v, want %v", info.OS, runtime.GOOS)
	}
	if info.ArchRaw != runtime.GOARCH {
		t.Errorf("ArchRaw = %v, want %v", info.ArchRaw, runtime.GOARCH)
	}
	if info.Arch == "" {
		t.Error("Arch should not be empty")
	}

	// If platform is set, family should also be set ("unknown" at minimum)
	if info.Platform != "" && info.Family == "" {
		t.Error("Family should be set when Platform is set")
	}

	if runtime.GOOS != "linux" && info.Platform != "" {
		t.Errorf("Platform should be empty on non-Linux, got %v", info.Platform)
	}
}

func TestStaticDetector(t *testing.T) {
	want := &Info{OS: "windows", Arch: "amd64"}
	got, err := (&StaticDetector{Info: want}).Detect(context.Background())
	if err != nil || got != want {
		t.Errorf("Detect() = %v, %v", got, err)
	}

	boom := errors.New("boom")
	if _, err := (&StaticDetector{Err: boom}).Detect(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Detect() error = %v, want %v", err, boom)
	}
}

func TestInfoFields(t *testing.T) {
	info := &Info{OS: "linux", Arch: "amd64", Platform: "fedora", Family: "fedora", Version: "40"}
	fields := info.Fields()
	if len(fields)%2 != 0 {
		t.Fatalf("Fields() returned odd count: %v", fields)
	}
	if len(fields) != 10 {
		t.Errorf("Fields() = %v, want 5 pairs", fields)
	}

	bare := (&Info{OS: "darwin", Arch: "arm64"}).Fields()
	if len(bare) != 4 {
		t.Errorf("Fields() without distro = %v, want 2 pairs", bare)
	}

	var nilInfo *Info
	if nilInfo.Fields() != nil {
		t.Error("nil Info should have no fields")
	}
}
