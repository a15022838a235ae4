package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeTXT  = "text/plain"
)

var (
	// ErrUnsupportedFormat is returned for file types outside PDF/DOCX/TXT.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrCorruptFile is returned when the underlying parser cannot decode the
	// content. Terminal for the upload; the caller reports it and moves on.
	ErrCorruptFile = errors.New("corrupt document")
)

// Result is the output of loading a document: plain text plus any tables
// detected in the PDF text layer.
type Result struct {
	Text   string
	Tables []Table
}

// Load extracts plain text and tables from an in-memory document.
// Libraries used: github.com/ledongthuc/pdf (PDF); DOCX is unpacked directly
// from the OOXML zip.
func Load(ctx context.Context, data []byte, mimeType string, fileName string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	switch normalizeMimeType(mimeType, fileName, data) {
	case mimePDF:
		return loadPDF(data)
	case mimeDOCX:
		text, err := extractDOCX(data)
		if err != nil {
			return Result{}, err
		}
		return Result{Text: text}, nil
	case mimeTXT:
		return Result{Text: loadText(data)}, nil
	default:
		return Result{}, fmt.Errorf("mime type %s: %w", mimeType, ErrUnsupportedFormat)
	}
}

func loadPDF(data []byte) (Result, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("pdf open: %v: %w", err, ErrCorruptFile)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return Result{}, fmt.Errorf("pdf text: %v: %w", err, ErrCorruptFile)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return Result{}, fmt.Errorf("pdf text read: %v: %w", err, ErrCorruptFile)
	}

	// Table detection is best-effort; a PDF whose text layer defeats the row
	// heuristic still loads with zero tables.
	tables := extractPDFTables(pdfReader)

	return Result{Text: buf.String(), Tables: tables}, nil
}

func loadText(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty docx data: %w", ErrCorruptFile)
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("docx open: %v: %w", err, ErrCorruptFile)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("document.xml not found: %w", ErrCorruptFile)
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("docx entry open: %v: %w", err, ErrCorruptFile)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("docx entry read: %v: %w", err, ErrCorruptFile)
	}

	return stripDocxXML(string(raw)), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if last := buf.Len(); last > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func normalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch clean {
	case mimePDF, mimeDOCX, mimeTXT:
		return clean
	case "application/zip":
		if hasZipEntry(data, "word/document.xml") {
			return mimeDOCX
		}
	case "", "application/octet-stream":
		// fall through to extension mapping
	default:
		if strings.HasPrefix(clean, "text/") {
			return mimeTXT
		}
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return mimePDF
	case ".docx", ".doc":
		return mimeDOCX
	case ".txt":
		return mimeTXT
	default:
		return clean
	}
}

func hasZipEntry(data []byte, entry string) bool {
	if len(data) == 0 {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == entry {
			return true
		}
	}
	return false
}
