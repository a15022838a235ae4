package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"lease-backend/internal/ingest"
)

// RenderXLSX writes detected tables as a workbook, one sheet per table with
// the header row in bold.
func RenderXLSX(tables []ingest.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}

	for i, table := range tables {
		sheet := fmt.Sprintf("Table %d", i+1)
		if i == 0 {
			f.SetSheetName("Sheet1", sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("xlsx sheet: %w", err)
			}
		}

		if err := writeRow(f, sheet, 1, table.Header); err != nil {
			return nil, err
		}
		lastCell, err := excelize.CoordinatesToCellName(max(len(table.Header), 1), 1)
		if err != nil {
			return nil, fmt.Errorf("xlsx header range: %w", err)
		}
		if err := f.SetCellStyle(sheet, "A1", lastCell, headerStyle); err != nil {
			return nil, fmt.Errorf("xlsx header style: %w", err)
		}

		for r, row := range table.Rows {
			if err := writeRow(f, sheet, r+2, row); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	for c, value := range cells {
		cell, err := excelize.CoordinatesToCellName(c+1, rowNum)
		if err != nil {
			return fmt.Errorf("xlsx cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("xlsx cell write: %w", err)
		}
	}
	return nil
}
