package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"rapport-2024_final.pdf", "rapport-2024_final.pdf"},
		{"mon rapport (v2).pdf", "mon_rapport__v2_.pdf"},
		{"../../etc/passwd", ".._.._etc_passwd"},
		{"résumé.pdf", "r_sum_.pdf"},
	}
	for _, tc := range cases {
		if got := SanitizeFileName(tc.in); got != tc.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCopyFileWithTimestamp(t *testing.T) {
	srcDir := t.TempDir()
	uploadDir := filepath.Join(t.TempDir(), "uploads")

	srcPath := filepath.Join(srcDir, "mon rapport.pdf")
	if err := os.WriteFile(srcPath, []byte("%PDF-1.4 contenu"), 0644); err != nil {
		t.Fatal(err)
	}

	destPath, err := CopyFileWithTimestamp(srcPath, uploadDir)
	if err != nil {
		t.Fatal(err)
	}

	base := filepath.Base(destPath)
	if !strings.HasPrefix(base, "mon_rapport_") || !strings.HasSuffix(base, ".pdf") {
		t.Errorf("unexpected destination name %q", base)
	}
	content, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "%PDF-1.4 contenu" {
		t.Errorf("copied content mismatch: %q", content)
	}
}
