package poster

import "strings"

// Column is the layout column a section is placed in.
type Column string

const (
	ColumnLeft  Column = "1"
	ColumnRight Column = "2"
)

// Section titles that read like front matter belong in the left column.
var leftColumnKeywords = []string{
	"introduction",
	"background",
	"objective",
	"aim",
	"motivation",
	"method",
	"material",
	"hypothesis",
	"approach",
}

// ParseColumn coerces whatever the model emitted for a column label into a
// valid Column. The model frequently writes "Column 2", "col 1" or prose;
// anything that does not reduce to "1" or "2" falls back to a keyword
// heuristic over the section title so both columns stay populated.
func ParseColumn(raw, sectionTitle string) Column {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = strings.TrimPrefix(v, "column")
	v = strings.TrimPrefix(v, "col")
	v = strings.Trim(v, " .:#-")

	switch v {
	case "1", "one", "left":
		return ColumnLeft
	case "2", "two", "right":
		return ColumnRight
	}

	title := strings.ToLower(sectionTitle)
	for _, kw := range leftColumnKeywords {
		if strings.Contains(title, kw) {
			return ColumnLeft
		}
	}
	return ColumnRight
}
