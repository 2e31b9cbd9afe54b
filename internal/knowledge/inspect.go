// Package knowledge looks at a document before it is uploaded. The backend
// only indexes PDFs, so the CLI warns about files it will silently skip.
package knowledge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var ErrNotPDF = errors.New("not a PDF document")

type Report struct {
	Path     string
	Size     int64
	Pages    int
	HasText  bool
	Chars    int
	Warnings []string
}

// Inspect opens the PDF at path, counts its pages and extracts the plain
// text to tell whether the backend will find anything to index.
func Inspect(path string) (*Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, ErrNotPDF
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPDF, err)
	}
	defer f.Close()

	report := &Report{Path: path, Size: info.Size(), Pages: reader.NumPage()}

	var b strings.Builder
	for pageIndex := 1; pageIndex <= report.Pages; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("page %d: %v", pageIndex, err))
			continue
		}
		b.WriteString(content)
	}

	report.Chars = countNonSpace(b.String())
	report.HasText = report.Chars > 0
	if !report.HasText {
		report.Warnings = append(report.Warnings, "no extractable text; scanned documents need OCR before upload")
	}
	return report, nil
}

// countNonSpace matches how the backend measures chunk length: whitespace is
// not counted.
func countNonSpace(s string) int {
	n := 0
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			continue
		}
		n++
	}
	return n
}
