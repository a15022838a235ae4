package ingest

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Table is a detected tabular region: a header row and data rows of cells.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

const (
	// Horizontal gap (in PDF points) that splits two runs into separate cells.
	cellGapPoints = 14.0
	// Gap below which adjacent runs are joined without a space.
	joinGapPoints = 1.5
	minTableRows  = 2
	minTableCols  = 2
)

type textRun struct {
	x float64
	w float64
	s string
}

// extractPDFTables walks the text layer row by row and groups consecutive
// multi-cell rows into tables. First row of each group becomes the header.
func extractPDFTables(r *pdf.Reader) []Table {
	var tables []Table
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}

		var cellRows [][]string
		for _, row := range rows {
			runs := make([]textRun, 0, len(row.Content))
			for _, t := range row.Content {
				if t.S == "" {
					continue
				}
				runs = append(runs, textRun{x: t.X, w: t.W, s: t.S})
			}
			cellRows = append(cellRows, clusterCells(runs))
		}
		tables = append(tables, groupTables(cellRows)...)
	}
	return tables
}

// clusterCells merges X-sorted text runs into cell strings, splitting on
// horizontal gaps wider than cellGapPoints.
func clusterCells(runs []textRun) []string {
	if len(runs) == 0 {
		return nil
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].x < runs[j].x })

	var cells []string
	var cell strings.Builder
	prevEnd := runs[0].x
	for i, run := range runs {
		gap := run.x - prevEnd
		switch {
		case i == 0:
		case gap > cellGapPoints:
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		case gap > joinGapPoints && !strings.HasSuffix(cell.String(), " "):
			cell.WriteByte(' ')
		}
		cell.WriteString(run.s)
		prevEnd = run.x + run.w
	}
	if trimmed := strings.TrimSpace(cell.String()); trimmed != "" {
		cells = append(cells, trimmed)
	}
	return cells
}

// groupTables collects runs of consecutive rows that all have at least
// minTableCols cells and a consistent-enough width to read as one grid.
func groupTables(cellRows [][]string) []Table {
	var tables []Table
	var current [][]string

	flush := func() {
		if len(current) >= minTableRows {
			tables = append(tables, buildTable(current))
		}
		current = nil
	}

	for _, cells := range cellRows {
		if len(cells) >= minTableCols {
			current = append(current, cells)
			continue
		}
		flush()
	}
	flush()
	return tables
}

func buildTable(rows [][]string) Table {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	padded := make([][]string, len(rows))
	for i, row := range rows {
		out := make([]string, width)
		copy(out, row)
		padded[i] = out
	}
	return Table{Header: padded[0], Rows: padded[1:]}
}

// RenderTables flattens tables into pipe-separated lines for prompt context.
func RenderTables(tables []Table) string {
	if len(tables) == 0 {
		return ""
	}
	var b strings.Builder
	for i, table := range tables {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.Join(table.Header, " | "))
		b.WriteString("\n")
		for _, row := range table.Rows {
			b.WriteString(strings.Join(row, " | "))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
