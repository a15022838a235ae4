package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"lease-backend/internal/fields"
	"lease-backend/internal/qa"
)

func baseSummary() Summary {
	return Summary{
		FileName:    "lease.pdf",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Lines: []fields.Line{
			{Key: "tenant", Label: "Tenant", Text: "Jane Doe"},
			{Key: "rent", Label: "Rent", Text: "$2,000/month"},
		},
	}
}

func TestRenderPDFProducesPDF(t *testing.T) {
	data, err := RenderPDF(baseSummary())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected PDF magic, got %q", data[:8])
	}
}

func TestRenderPDFSurvivesUnicode(t *testing.T) {
	s := baseSummary()
	s.FileName = "契約書.pdf"
	s.Lines = append(s.Lines, fields.Line{Key: "notes", Label: "Notes", Text: "Ñ € 中文 – ok"})
	s.Valuation = "Rent of €1.500 looks low for Müllerstraße."

	data, err := RenderPDF(s)
	if err != nil {
		t.Fatalf("render with unicode: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("expected PDF output")
	}
}

func TestRenderPDFOptionalSections(t *testing.T) {
	s := baseSummary()
	bare, err := RenderPDF(s)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	s.Valuation = "About market rate."
	s.Exchanges = []qa.Exchange{{Question: "Pets?", Answer: "Cats allowed."}}
	full, err := RenderPDF(s)
	if err != nil {
		t.Fatalf("render with sections: %v", err)
	}
	if len(full) <= len(bare) {
		t.Fatal("expected optional sections to grow the document")
	}
}

func TestRenderPDFEmptyFieldMap(t *testing.T) {
	s := Summary{FileName: "lease.txt", GeneratedAt: time.Now()}
	data, err := RenderPDF(s)
	if err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("expected PDF output for empty summary")
	}
}

func TestSummaryLabelsMatchSchema(t *testing.T) {
	fm := fields.Empty()
	for _, key := range fields.SchemaKeys {
		fm[key] = "value"
	}
	lines := fields.Format(fm)
	for _, line := range lines {
		if strings.TrimSpace(line.Label) == "" {
			t.Fatalf("missing label for key %s", line.Key)
		}
	}
}
