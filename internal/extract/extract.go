// Package extract pulls raw text out of txt, pdf and docx files.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	docx "github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
)

// Extractor produces raw text from a file on disk.
type Extractor interface {
	Extract(path string) (string, error)
}

// Supported reports whether ext (with or without leading dot, any case)
// has an extractor.
func Supported(ext string) bool {
	switch normalizeExt(ext) {
	case ".txt", ".pdf", ".docx":
		return true
	}
	return false
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// File extracts text directly from the filesystem.
type File struct{}

// Extract dispatches on the file extension. The extension is validated
// before any file I/O is attempted.
func (File) Extract(path string) (string, error) {
	ext := normalizeExt(filepath.Ext(path))
	switch ext {
	case ".txt":
		return extractTxt(path)
	case ".pdf":
		return extractPDF(path)
	case ".docx":
		return extractDocx(path)
	default:
		return "", &UnsupportedFormatError{Ext: ext}
	}
}

func extractTxt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Err: err}
	}
	return string(data), nil
}

func extractPDF(path string) (text string, err error) {
	// The pdf package panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Path: path, Err: fmt.Errorf("malformed pdf: %v", r)}
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Err: err}
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pageText, err := p.GetPlainText(nil)
		if err != nil {
			return "", &ExtractionError{Path: path, Err: fmt.Errorf("page %d: %w", i, err)}
		}
		// A page with no text contributes an empty string, not an error.
		sb.WriteString(pageText)
	}
	return sb.String(), nil
}

func extractDocx(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", &ExtractionError{Path: path, Err: err}
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return "", &ExtractionError{Path: path, Err: err}
	}

	var sb strings.Builder
	for _, item := range doc.Document.Body.Items {
		if para, ok := item.(*docx.Paragraph); ok {
			sb.WriteString(para.String())
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}
