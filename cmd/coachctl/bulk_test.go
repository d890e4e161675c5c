package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadResumeDir(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"b.txt":     "Bob, SQL",
		"a.md":      "# Alice",
		"notes.csv": "skip,me",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.txt"), 0o700); err != nil {
		t.Fatal(err)
	}

	files, err := loadResumeDir(dir)
	if err != nil {
		t.Fatalf("loadResumeDir: %v", err)
	}
	if len(files) != 2 || files[0].Filename != "a.md" || files[1].Filename != "b.txt" {
		t.Fatalf("files=%+v", files)
	}
	if string(files[1].Data) != "Bob, SQL" {
		t.Fatalf("data=%q", files[1].Data)
	}
}

func TestLoadResumeDirEmpty(t *testing.T) {
	if _, err := loadResumeDir(t.TempDir()); err == nil {
		t.Fatal("expected error for a directory with no résumés")
	}
}
