package cover

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover.txt")
	if err := os.WriteFile(path, []byte("an unremarkable note"), 0o600); err != nil {
		t.Fatalf("write cover: %v", err)
	}
	got, err := FileProvider{Path: path}.Cover(5)
	if err != nil {
		t.Fatalf("cover failed: %v", err)
	}
	if got != "an unremarkable note" {
		t.Fatalf("cover = %q", got)
	}
}

func TestFileProviderMissing(t *testing.T) {
	if _, err := (FileProvider{Path: filepath.Join(t.TempDir(), "gone.txt")}).Cover(1); err == nil {
		t.Fatal("missing cover file must error")
	}
}

func TestStatic(t *testing.T) {
	got, err := Static("fixed").Cover(100)
	if err != nil {
		t.Fatalf("cover failed: %v", err)
	}
	if got != "fixed" {
		t.Fatalf("cover = %q", got)
	}
}
