package cpp

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveQuotedPrefersCurrentDirOverIncludePaths(t *testing.T) {
	dir := t.TempDir()
	incDir := filepath.Join(dir, "inc")
	if err := os.MkdirAll(incDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "h.h"), []byte("// local\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(incDir, "h.h"), []byte("// inc\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewIncludeResolver([]string{incDir}, nil)
	r.SetCurrentFile(filepath.Join(dir, "main.c"))

	got, err := r.Resolve("h.h", IncludeQuoted)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := filepath.Abs(filepath.Join(dir, "h.h"))
	if got != want {
		t.Errorf("Resolve quoted = %q, want %q", got, want)
	}
}

func TestResolveAngledSkipsCurrentDir(t *testing.T) {
	dir := t.TempDir()
	incDir := filepath.Join(dir, "inc")
	if err := os.MkdirAll(incDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "h.h"), []byte("// local\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(incDir, "h.h"), []byte("// inc\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewIncludeResolver([]string{incDir}, nil)
	r.SetCurrentFile(filepath.Join(dir, "main.c"))

	got, err := r.Resolve("h.h", IncludeAngled)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := filepath.Abs(filepath.Join(incDir, "h.h"))
	if got != want {
		t.Errorf("Resolve angled = %q, want %q", got, want)
	}
}

func TestResolveNotFound(t *testing.T) {
	r := NewIncludeResolver(nil, nil)
	if _, err := r.Resolve("nope.h", IncludeAngled); err == nil {
		t.Fatal("expected an IncludeError")
	}
}

func TestPushFileDetectsCircularInclude(t *testing.T) {
	r := NewIncludeResolver(nil, nil)
	if err := r.PushFile("/a/b.h"); err != nil {
		t.Fatal(err)
	}
	if err := r.PushFile("/a/b.h"); err == nil {
		t.Fatal("expected a CircularIncludeError")
	}
}

func TestPragmaOnceTracking(t *testing.T) {
	r := NewIncludeResolver(nil, nil)
	if r.IsAlreadyIncluded("/a/b.h") {
		t.Fatal("should not be marked included yet")
	}
	r.MarkPragmaOnce("/a/b.h")
	if !r.IsAlreadyIncluded("/a/b.h") {
		t.Fatal("should be marked included after MarkPragmaOnce")
	}
}

func TestExpandSystemGlobs(t *testing.T) {
	dir := t.TempDir()
	for _, v := range []string{"v1", "v2"} {
		if err := os.MkdirAll(filepath.Join(dir, v, "include"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	pattern := filepath.Join(dir, "*", "include")
	got := expandSystemGlobs([]string{pattern})
	if len(got) != 2 {
		t.Fatalf("expected the glob to expand to 2 directories, got %v", got)
	}
}
