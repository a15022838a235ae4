package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create docx entry: %v", err)
	}
	if _, err := w.Write([]byte(body)); err != nil {
		t.Fatalf("write docx entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close docx zip: %v", err)
	}
	return buf.Bytes()
}

func TestLoadPlainText(t *testing.T) {
	text := "Rent: $2,000/month\nTenant: Jane Doe\n"
	res, err := Load(context.Background(), []byte(text), "text/plain", "lease.txt")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Text != text {
		t.Fatalf("unexpected text %q", res.Text)
	}
	if len(res.Tables) != 0 {
		t.Fatalf("expected no tables for txt, got %d", len(res.Tables))
	}
}

func TestLoadPlainTextStripsInvalidUTF8(t *testing.T) {
	data := append([]byte("Rent: $2,000"), 0xff, 0xfe)
	res, err := Load(context.Background(), data, "text/plain", "lease.txt")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.HasPrefix(res.Text, "Rent: $2,000") {
		t.Fatalf("unexpected text %q", res.Text)
	}
	if strings.ContainsRune(res.Text, 0xfffd) {
		t.Fatalf("expected invalid bytes dropped, got %q", res.Text)
	}
}

func TestLoadDocx(t *testing.T) {
	doc := `<?xml version="1.0"?><w:document><w:body><w:p><w:r><w:t>Tenant: Jane Doe</w:t></w:r></w:p><w:p><w:r><w:t>Rent: $2,000/month</w:t></w:r></w:p></w:body></w:document>`
	data := buildDocx(t, doc)

	res, err := Load(context.Background(), data, "application/zip", "lease.docx")
	if err != nil {
		t.Fatalf("load docx: %v", err)
	}
	if !strings.Contains(res.Text, "Tenant: Jane Doe") {
		t.Fatalf("missing paragraph in %q", res.Text)
	}
	if !strings.Contains(res.Text, "\n") {
		t.Fatalf("expected paragraph breaks in %q", res.Text)
	}
}

func TestLoadCorruptDocx(t *testing.T) {
	_, err := Load(context.Background(), []byte("definitely not a zip"), mimeDOCX, "lease.docx")
	if !errors.Is(err, ErrCorruptFile) {
		t.Fatalf("expected ErrCorruptFile, got %v", err)
	}
}

func TestLoadCorruptPDF(t *testing.T) {
	_, err := Load(context.Background(), []byte("%PDF-not really"), "application/pdf", "lease.pdf")
	if !errors.Is(err, ErrCorruptFile) {
		t.Fatalf("expected ErrCorruptFile, got %v", err)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = Load(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestNormalizeMimeType(t *testing.T) {
	cases := []struct {
		mime string
		name string
		want string
	}{
		{"application/pdf; charset=binary", "a.pdf", mimePDF},
		{"", "lease.PDF", mimePDF},
		{"application/octet-stream", "lease.docx", mimeDOCX},
		{"text/markdown", "notes.md", mimeTXT},
		{"", "lease.txt", mimeTXT},
		{"image/png", "scan.png", "image/png"},
	}
	for _, tc := range cases {
		if got := normalizeMimeType(tc.mime, tc.name, nil); got != tc.want {
			t.Fatalf("normalizeMimeType(%q, %q) = %q, want %q", tc.mime, tc.name, got, tc.want)
		}
	}
}
