package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestUniquePath_NoCollision(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "output.zip")

	if got := UniquePath(p); got != p {
		t.Errorf("expected %s, got %s", p, got)
	}
}

func TestUniquePath_Collisions(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "output.zip")

	if err := os.WriteFile(p, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "output_1.zip")
	if got := UniquePath(p); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	if err := os.WriteFile(want, []byte("b"), 0644); err != nil {
		t.Fatal(err)
	}
	want2 := filepath.Join(dir, "output_2.zip")
	if got := UniquePath(p); got != want2 {
		t.Errorf("expected %s, got %s", want2, got)
	}
}

func TestUniquePath_NoExtension(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "result")
	if err := os.WriteFile(p, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}

	want := filepath.Join(dir, "result_1")
	if got := UniquePath(p); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
