package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultTable() Table {
	return Table{
		Title:   "Results",
		Columns: []string{"ID", "Student", "Score"},
		Rows: [][]string{
			{"1", "Alex Kid", "88"},
			{"2", "Billie Moreau-Santiago", "74"},
		},
	}
}

func TestCSVExporterKeepsColumnOrder(t *testing.T) {
	payload, err := NewCSVExporter().Render(resultTable())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Student,Score", lines[0])
	assert.Equal(t, "1,Alex Kid,88", lines[1])
}

func TestCSVExporterRejectsRaggedRow(t *testing.T) {
	table := resultTable()
	table.Rows = append(table.Rows, []string{"3", "short"})
	_, err := NewCSVExporter().Render(table)
	require.Error(t, err)
}

func TestPDFExporterRendersDocument(t *testing.T) {
	payload, err := NewPDFExporter().Render(resultTable())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestColumnWidthsFavourLongCells(t *testing.T) {
	widths := columnWidths(resultTable())
	require.Len(t, widths, 3)
	// The student column carries the longest values and must get the
	// widest share of the page.
	assert.Greater(t, widths[1], widths[0])
	assert.Greater(t, widths[1], widths[2])

	var total float64
	for _, w := range widths {
		total += w
	}
	assert.InDelta(t, pageWidth, total, 0.01)
}
