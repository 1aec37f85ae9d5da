package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders a Table into a printable report. Result exports are
// wide, so pages are laid out in landscape with a shaded header row.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// landscape A4 printable width with 10mm margins.
const pageWidth = 277.0

// Render creates the PDF document: title, column header, rows, and a
// footer stating the row count and generation date.
func (e *PDFExporter) Render(table Table) ([]byte, error) {
	if len(table.Columns) == 0 {
		return nil, fmt.Errorf("pdf requires at least one column")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()

	if table.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 9, table.Title, "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	widths := columnWidths(table)

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, column := range table.Columns {
		pdf.CellFormat(widths[i], 8, column, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range table.Rows {
		if len(row) != len(table.Columns) {
			return nil, fmt.Errorf("pdf row has %d cells, want %d", len(row), len(table.Columns))
		}
		for i, value := range row {
			pdf.CellFormat(widths[i], 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 6, fmt.Sprintf("%d rows, generated %s", len(table.Rows), time.Now().Format("2006-01-02")),
		"", 1, "R", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// columnWidths splits the page among the columns, weighted by the longest
// cell in each so name and title columns do not truncate before numeric ones.
func columnWidths(table Table) []float64 {
	longest := make([]int, len(table.Columns))
	total := 0
	for i, column := range table.Columns {
		longest[i] = len(column)
	}
	for _, row := range table.Rows {
		for i := 0; i < len(row) && i < len(longest); i++ {
			if len(row[i]) > longest[i] {
				longest[i] = len(row[i])
			}
		}
	}
	for _, n := range longest {
		total += n
	}
	if total == 0 {
		widths := make([]float64, len(longest))
		for i := range widths {
			widths[i] = pageWidth / float64(len(longest))
		}
		return widths
	}

	widths := make([]float64, len(longest))
	for i, n := range longest {
		widths[i] = pageWidth * float64(n) / float64(total)
	}
	return widths
}
