package render

import (
	"strings"
	"testing"

	"posterforge/internal/poster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() *poster.Document {
	doc := poster.DefaultDocument()
	doc.Title = "Reef Monitoring"
	doc.Authors = []string{"J. Kim", "A. Osei"}
	doc.University = "Pacific State University"
	doc.Sections = []poster.Section{
		{
			ID:      "s1",
			Title:   "Introduction",
			Content: "Reefs are **critical** habitats.",
			Column:  poster.ColumnLeft,
			Visuals: []poster.Visual{},
		},
		{
			ID:      "s2",
			Title:   "Results",
			Content: "Accuracy reached 94%.",
			Column:  poster.ColumnRight,
			Visuals: []poster.Visual{
				{Type: poster.VisualTable, Headers: []string{"Metric", "Value"}, Rows: [][]string{{"IoU", "0.82"}}},
				{Type: poster.VisualDonutChart, Items: []poster.Segment{{Label: "Healthy", Value: 61}}},
			},
		},
	}
	return doc
}

func TestHTML_RendersThemeSectionsAndVisuals(t *testing.T) {
	out, err := HTML(testDocument())
	require.NoError(t, err)

	assert.Contains(t, out, "--primary: #0f4c81")
	assert.Contains(t, out, "<h1>Reef Monitoring</h1>")
	assert.Contains(t, out, "J. Kim, A. Osei")
	assert.Contains(t, out, "<strong>critical</strong>", "section content goes through markdown")
	assert.Contains(t, out, "<th>Metric</th>")
	assert.Contains(t, out, "<td>Healthy</td>")
	assert.Contains(t, out, `id="s1"`)
}

func TestHTML_SplitsColumns(t *testing.T) {
	out, err := HTML(testDocument())
	require.NoError(t, err)

	intro := indexOf(t, out, "Introduction")
	results := indexOf(t, out, "Results")
	assert.Less(t, intro, results, "left column renders before right column")
}

func TestHTML_EscapesUntrustedContent(t *testing.T) {
	doc := poster.DefaultDocument()
	doc.Title = `<script>alert(1)</script>`
	doc.Sections = []poster.Section{{
		ID:     "s1",
		Title:  "Data",
		Column: poster.ColumnRight,
		Visuals: []poster.Visual{
			{Type: poster.VisualTable, Headers: []string{`<img onerror=x>`}, Rows: [][]string{}},
		},
	}}

	out, err := HTML(doc)
	require.NoError(t, err)

	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.NotContains(t, out, "<img onerror=x>")
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	i := strings.Index(haystack, needle)
	require.GreaterOrEqual(t, i, 0, "%q not found", needle)
	return i
}
