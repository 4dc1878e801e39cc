package installdir

import (
	"os"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		invocation string
		want       Dir
	}{
		{name: "bare filename", invocation: "BaseToolsBins", want: ""},
		{name: "empty", invocation: "", want: ""},
		{name: "relative unix", invocation: "./bin/BaseToolsBins", want: "./bin/"},
		{name: "absolute unix", invocation: "/opt/edk2/BaseToolsBins", want: "/opt/edk2/"},
		{name: "absolute windows", invocation: `C:\edk2\BaseTools\Bin\BaseToolsBins.exe`, want: `C:\edk2\BaseTools\Bin\`},
		{name: "root only", invocation: "/", want: "/"},
		{name: "trailing separator", invocation: "tools/", want: "tools/"},
		{name: "mixed backslash last", invocation: `C:/edk2/Bin\BaseToolsBins.exe`, want: `C:/edk2/Bin\`},
		{name: "mixed slash last", invocation: `C:\edk2\Bin/BaseToolsBins.exe`, want: `C:\edk2\Bin/`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.invocation); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.invocation, got, tt.want)
			}
		})
	}
}

func TestDirJoin(t *testing.T) {
	tests := []struct {
		dir  Dir
		name string
		want string
	}{
		{dir: "", name: "version.ini", want: "version.ini"},
		{dir: "/opt/edk2/", name: "version.ini", want: "/opt/edk2/version.ini"},
		{dir: `C:\edk2\`, name: "bin/a", want: `C:\edk2\bin/a`},
	}

	for _, tt := range tests {
		if got := tt.dir.Join(tt.name); got != tt.want {
			t.Errorf("Dir(%q).Join(%q) = %q, want %q", tt.dir, tt.name, got, tt.want)
		}
	}
}

func TestFromEnv(t *testing.T) {
	if _, ok := FromEnv(""); ok {
		t.Error("FromEnv(\"\") should not be ok")
	}

	dir, ok := FromEnv("/srv/tools/")
	if !ok || dir != "/srv/tools/" {
		t.Errorf("FromEnv kept separator: got %q, %v", dir, ok)
	}

	dir, ok = FromEnv("/srv/tools")
	want := Dir("/srv/tools" + string(os.PathSeparator))
	if !ok || dir != want {
		t.Errorf("FromEnv appended separator: got %q, want %q", dir, want)
	}
}

func TestDirString(t *testing.T) {
	if got := Dir("").String(); got != "." {
		t.Errorf("empty Dir String() = %q, want \".\"", got)
	}
	if got := Dir("/a/").String(); got != "/a/" {
		t.Errorf("Dir String() = %q, want \"/a/\"", got)
	}
}
