package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveAbsolutePath_Existing(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	got, err := ResolveAbsolutePath(dir)
	if err != nil {
		t.Fatalf("ResolveAbsolutePath() error = %v", err)
	}
	if got != dir {
		t.Errorf("expected %s, got %s", dir, got)
	}
}

func TestResolveAbsolutePath_NonExistentTail(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	target := filepath.Join(dir, "converted", "today")
	got, err := ResolveAbsolutePath(target)
	if err != nil {
		t.Fatalf("ResolveAbsolutePath() error = %v", err)
	}
	if got != target {
		t.Errorf("expected %s, got %s", target, got)
	}
}

func TestResolveAbsolutePath_Symlink(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	real := filepath.Join(dir, "real")
	if err := os.Mkdir(real, 0755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	got, err := ResolveAbsolutePath(filepath.Join(link, "out"))
	if err != nil {
		t.Fatalf("ResolveAbsolutePath() error = %v", err)
	}
	if want := filepath.Join(real, "out"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestResolveAbsolutePath_Home(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ResolveAbsolutePath("~/sheetconv-out-does-not-exist")
	if err != nil {
		t.Fatalf("ResolveAbsolutePath() error = %v", err)
	}
	if filepath.Base(got) != "sheetconv-out-does-not-exist" {
		t.Errorf("unexpected result %s", got)
	}
	resolvedHome, _ := filepath.EvalSymlinks(home)
	if filepath.Dir(got) != home && filepath.Dir(got) != resolvedHome {
		t.Errorf("expected %s under home %s", got, home)
	}
}

func TestResolveAbsolutePath_Empty(t *testing.T) {
	wd, _ := os.Getwd()
	got, err := ResolveAbsolutePath("")
	if err != nil || got != wd {
		t.Errorf("expected working directory %s, got %s (%v)", wd, got, err)
	}
}
