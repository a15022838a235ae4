// Package export renders document summaries as downloadable files.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"lease-backend/internal/fields"
	"lease-backend/internal/qa"
)

// Summary collects everything the PDF renderer needs. Optional sections are
// included when non-zero.
type Summary struct {
	FileName    string
	GeneratedAt time.Time
	Lines       []fields.Line
	Valuation   string
	Exchanges   []qa.Exchange
}

// RenderPDF writes the summary as a single-column PDF. The core font set is
// cp1252; the translator substitutes unencodable glyphs with a placeholder so
// arbitrary Unicode input never breaks the export.
func RenderPDF(s Summary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Document Summary"), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Document Summary"), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 6, tr(s.FileName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Generated "+s.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC")), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	if len(s.Lines) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.MultiCell(0, 6, tr("No fields could be extracted from this document."), "", "L", false)
	}
	for _, line := range s.Lines {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(48, 7, tr(line.Label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 7, tr(line.Text), "", "L", false)
	}

	if s.Valuation != "" {
		section(pdf, tr, "Valuation Estimate")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(s.Valuation), "", "L", false)
	}

	if len(s.Exchanges) > 0 {
		section(pdf, tr, "Questions & Answers")
		for _, e := range s.Exchanges {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.MultiCell(0, 6, tr("Q: "+e.Question), "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, tr("A: "+e.Answer), "", "L", false)
			pdf.Ln(2)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
}
