package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Title:   "Enrollments",
		Columns: []string{"Student", "Email", "Status"},
		Rows: [][]string{
			{"Ann", "ann@example.com", "pending"},
			{"Bob", "bob@example.com", "approved"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	content, err := NewCSVExporter().Render(sampleTable())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Student,Email,Status", lines[0])
	assert.Equal(t, "Ann,ann@example.com,pending", lines[1])
}

func TestCSVExporterPadsShortRows(t *testing.T) {
	table := sampleTable()
	table.Rows = [][]string{{"Ann"}}

	content, err := NewCSVExporter().Render(table)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	assert.Equal(t, "Ann,,", lines[1])
}

func TestCSVExporterRequiresColumns(t *testing.T) {
	_, err := NewCSVExporter().Render(Table{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	content, err := NewPDFExporter().Render(sampleTable())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "%PDF"))
	assert.NotEmpty(t, content)
}

func TestPDFExporterRequiresColumns(t *testing.T) {
	_, err := NewPDFExporter().Render(Table{Title: "Empty"})
	require.Error(t, err)
}
