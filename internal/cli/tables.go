package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lease-backend/internal/export"
	"lease-backend/internal/ingest"
)

func init() {
	cmd := &cobra.Command{
		Use:   "tables <file>",
		Short: "Detect tables in a document",
		Args:  cobra.ExactArgs(1),
		Run:   runTables,
	}
	cmd.Flags().Bool("json", false, "Emit tables as JSON instead of text")
	cmd.Flags().String("xlsx", "", "Write tables to an XLSX workbook at this path")
	RootCmd.AddCommand(cmd)
}

func runTables(cmd *cobra.Command, args []string) {
	asJSON, _ := cmd.Flags().GetBool("json")
	xlsxOut, _ := cmd.Flags().GetString("xlsx")

	data, mimeType, err := readDocument(args[0])
	if err != nil {
		exitErr("read document", err)
	}

	res, err := ingest.Load(cmd.Context(), data, mimeType, args[0])
	if err != nil {
		exitErr("detect tables", err)
	}

	if xlsxOut != "" {
		workbook, err := export.RenderXLSX(res.Tables)
		if err != nil {
			exitErr("render xlsx", err)
		}
		if err := os.WriteFile(xlsxOut, workbook, 0o644); err != nil {
			exitErr("write xlsx", err)
		}
		fmt.Printf("wrote %s (%d tables)\n", xlsxOut, len(res.Tables))
		return
	}

	if asJSON {
		b, _ := json.MarshalIndent(res.Tables, "", "  ")
		fmt.Println(string(b))
		return
	}
	if len(res.Tables) == 0 {
		fmt.Println("no tables detected")
		return
	}
	fmt.Println(ingest.RenderTables(res.Tables))
}
