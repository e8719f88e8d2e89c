package validation

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/anirudhhgupta/portfolio-investment-tracker/src/logger"
)

// StatementType is the detected container format of an input document.
type StatementType string

const (
	StatementPDF  StatementType = "pdf"
	StatementXLSX StatementType = "xlsx"
	StatementXLS  StatementType = "xls"
)

var (
	pdfMagic = []byte("%PDF")
	zipMagic = []byte{0x50, 0x4B, 0x03, 0x04} // .xlsx is a zip container
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0} // legacy .xls compound file
)

// DetectStatementType checks the actual file content signature (magic bytes)
// before a parser is allowed to touch the document. Extensions lie; magic
// bytes mostly do not.
func DetectStatementType(path string) (StatementType, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for content type checking: %w", err)
	}
	defer f.Close()

	buffer := make([]byte, 8)
	n, err := f.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file for content type checking: %w", err)
	}
	buffer = buffer[:n]

	switch {
	case bytes.HasPrefix(buffer, pdfMagic):
		return StatementPDF, nil
	case bytes.HasPrefix(buffer, zipMagic):
		return StatementXLSX, nil
	case bytes.HasPrefix(buffer, oleMagic):
		return StatementXLS, nil
	}

	if logger.L != nil {
		logger.L.Warn("Unrecognized statement file signature", "path", path)
	}
	return "", fmt.Errorf("file %q is not a recognized statement format (PDF or Excel)", path)
}

// RequireType validates that the document at path has the expected container
// format, returning a descriptive error otherwise.
func RequireType(path string, want StatementType) error {
	got, err := DetectStatementType(path)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("file %q is %s, expected %s", path, got, want)
	}
	return nil
}
