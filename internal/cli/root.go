// Package cli implements leasectl, a local inspection tool that runs the
// same extraction pipeline as the API against files on disk. No oracle calls
// are made; everything here is offline.
package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "leasectl",
	Short: "Inspect real estate documents from the command line",
	Long:  "Runs the document pipeline locally: extract text, detect tables, and render summaries from PDF, DOCX and TXT files.",
}

func readDocument(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	return data, mimeType, nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
