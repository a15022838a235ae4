package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"lease-backend/internal/ingest"
)

func init() {
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract plain text from a document",
		Args:  cobra.ExactArgs(1),
		Run:   runExtract,
	}
	RootCmd.AddCommand(cmd)
}

func runExtract(cmd *cobra.Command, args []string) {
	data, mimeType, err := readDocument(args[0])
	if err != nil {
		exitErr("read document", err)
	}

	res, err := ingest.Load(cmd.Context(), data, mimeType, args[0])
	if err != nil {
		exitErr("extract", err)
	}
	fmt.Println(res.Text)
}
