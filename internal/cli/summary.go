package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"lease-backend/internal/export"
	"lease-backend/internal/fields"
	"lease-backend/internal/ingest"
	"lease-backend/internal/llm"
)

func init() {
	cmd := &cobra.Command{
		Use:   "summary <file>",
		Short: "Render a PDF summary of a document's extracted content",
		Args:  cobra.ExactArgs(1),
		Run:   runSummary,
	}
	cmd.Flags().StringP("out", "o", "summary.pdf", "Output PDF path")
	RootCmd.AddCommand(cmd)
}

const excerptBudget = 1200

func runSummary(cmd *cobra.Command, args []string) {
	out, _ := cmd.Flags().GetString("out")

	data, mimeType, err := readDocument(args[0])
	if err != nil {
		exitErr("read document", err)
	}

	res, err := ingest.Load(cmd.Context(), data, mimeType, args[0])
	if err != nil {
		exitErr("load document", err)
	}

	// Offline summary: an excerpt plus detected tables, no oracle fields.
	lines := []fields.Line{
		{Key: "notes", Label: "Excerpt", Text: llm.TruncateForPrompt(res.Text, "", excerptBudget)},
	}
	if tableText := ingest.RenderTables(res.Tables); tableText != "" {
		lines = append(lines, fields.Line{Key: "utilities", Label: "Detected Tables", Text: tableText})
	}

	pdfBytes, err := export.RenderPDF(export.Summary{
		FileName:    filepath.Base(args[0]),
		GeneratedAt: time.Now().UTC(),
		Lines:       lines,
	})
	if err != nil {
		exitErr("render summary", err)
	}
	if err := os.WriteFile(out, pdfBytes, 0o644); err != nil {
		exitErr("write summary", err)
	}
	fmt.Printf("wrote %s (%d tables detected)\n", out, len(res.Tables))
}
