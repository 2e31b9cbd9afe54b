package knowledge

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInspect_RejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Inspect(path); !errors.Is(err, ErrNotPDF) {
		t.Fatalf("expected ErrNotPDF, got %v", err)
	}
}

func TestInspect_CorruptPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("definitely not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Inspect(path); !errors.Is(err, ErrNotPDF) {
		t.Fatalf("expected ErrNotPDF for corrupt file, got %v", err)
	}
}

func TestInspect_MissingAndDirectory(t *testing.T) {
	if _, err := Inspect(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Inspect(t.TempDir()); err == nil {
		t.Error("expected error for directory")
	}
}

func TestInspect_TextPDF(t *testing.T) {
	report, err := Inspect(filepath.Join("testdata", "lecture.pdf"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Pages != 1 {
		t.Errorf("expected 1 page, got %d", report.Pages)
	}
	if !report.HasText {
		t.Fatal("expected extractable text")
	}
	if want := len("Retrievalaugmentedgeneration"); report.Chars != want {
		t.Errorf("expected %d characters, got %d", want, report.Chars)
	}
	if len(report.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", report.Warnings)
	}
	if report.Size == 0 {
		t.Error("expected file size to be reported")
	}
}

func TestInspect_PDFWithoutText(t *testing.T) {
	report, err := Inspect(filepath.Join("testdata", "scanned.pdf"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Pages != 1 {
		t.Errorf("expected 1 page, got %d", report.Pages)
	}
	if report.HasText || report.Chars != 0 {
		t.Errorf("expected no text, got %d characters", report.Chars)
	}
	if len(report.Warnings) == 0 || !strings.Contains(report.Warnings[len(report.Warnings)-1], "no extractable text") {
		t.Errorf("expected a no-text warning, got %v", report.Warnings)
	}
}

func TestCountNonSpace(t *testing.T) {
	if n := countNonSpace(" a b\n\tc "); n != 3 {
		t.Errorf("expected 3, got %d", n)
	}
}
