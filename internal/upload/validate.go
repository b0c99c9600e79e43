// Package upload validates documents before they are sent to the
// backend for analysis: extension allowlist, size limit, and a PDF
// sanity pass that flags likely scans.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// AllowedExtensions are the document types the backend analyzes.
var AllowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
	".rtf":  true,
}

var (
	// ErrUnsupportedType means the file extension is not analyzable.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrTooLarge means the file exceeds the configured size cap.
	ErrTooLarge = errors.New("file too large")
	// ErrEmpty means the file has no content.
	ErrEmpty = errors.New("file is empty")
	// ErrCorruptPDF means the file claims to be a PDF but cannot be read.
	ErrCorruptPDF = errors.New("unreadable PDF")
)

// Result summarizes the validation of one candidate file.
type Result struct {
	Filename       string
	Size           int64
	PageCount      int  // PDFs only
	ScannedWarning bool // set when a PDF yields no extractable text
}

// Validator checks candidate documents against the configured limits.
type Validator struct {
	maxBytes  int64
	warnScans bool
}

// NewValidator creates a Validator with the given size cap in megabytes.
func NewValidator(maxSizeMB int, warnScans bool) *Validator {
	return &Validator{maxBytes: int64(maxSizeMB) << 20, warnScans: warnScans}
}

// Validate reads the full file and checks it. A warning (ScannedWarning)
// does not block the upload; errors do.
func (v *Validator) Validate(filename string, r io.Reader) (Result, error) {
	res := Result{Filename: filename}

	ext := strings.ToLower(filepath.Ext(filename))
	if !AllowedExtensions[ext] {
		return res, fmt.Errorf("%w: %s (allowed: %s)", ErrUnsupportedType, ext, extList())
	}

	data, err := io.ReadAll(io.LimitReader(r, v.maxBytes+1))
	if err != nil {
		return res, fmt.Errorf("reading %s: %w", filename, err)
	}
	res.Size = int64(len(data))
	if res.Size == 0 {
		return res, ErrEmpty
	}
	if res.Size > v.maxBytes {
		return res, fmt.Errorf("%w: over %d MB", ErrTooLarge, v.maxBytes>>20)
	}

	if ext == ".pdf" {
		if err := v.checkPDF(data, &res); err != nil {
			return res, err
		}
	}
	return res, nil
}

// checkPDF opens the document to confirm it parses, records its page
// count, and flags it as a likely scan when no text comes out.
func (v *Validator) checkPDF(data []byte, res *Result) error {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptPDF, err)
	}
	res.PageCount = reader.NumPage()

	if !v.warnScans {
		return nil
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		res.ScannedWarning = true
		return nil
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		res.ScannedWarning = true
		return nil
	}
	if strings.TrimSpace(buf.String()) == "" {
		res.ScannedWarning = true
	}
	return nil
}

func extList() string {
	return strings.Join([]string{".pdf", ".doc", ".docx", ".txt", ".rtf"}, ", ")
}
