package poster

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidateFromJSON(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

func TestFromCandidate_EmptyObjectIsTotal(t *testing.T) {
	doc := FromCandidate(map[string]any{})

	assert.Equal(t, "", doc.Title)
	assert.Equal(t, []string{}, doc.Authors)
	assert.Equal(t, DefaultTheme(), doc.Theme)
	assert.Equal(t, Contact{}, doc.ContactInfo)
	assert.NotNil(t, doc.Sections)
	assert.NotNil(t, doc.Warnings)
}

func TestFromCandidate_NilCandidateIsTotal(t *testing.T) {
	doc := FromCandidate(nil)
	assert.Equal(t, DefaultDocument(), doc)
}

func TestFromCandidate_IsIdempotent(t *testing.T) {
	doc := FromCandidate(candidateFromJSON(t, `{
		"title": "T",
		"authors": ["A", "B"],
		"theme": {"primaryColor": "#123456", "accentColor": "nonsense"},
		"sections": [
			{"title": "Methods", "content": "m", "column": "Column 1",
			 "design": {"icon": "flask"},
			 "visuals": [
				{"type": "donut", "items": [{"label": "x", "value": 4}]},
				{"type": "barChart"}
			 ]}
		]
	}`))

	again, err := Renormalize(doc)
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}

func TestFromCandidate_ColumnCoercion(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		title  string
		expect Column
	}{
		{"labelled column two", "Column 2", "Results", ColumnRight},
		{"labelled column one", "column 1", "Results", ColumnLeft},
		{"bare digit", "2", "Anything", ColumnRight},
		{"word form", "one", "Anything", ColumnLeft},
		{"garbage with intro title", "main", "Introduction", ColumnLeft},
		{"garbage with methods title", "", "Materials and Methods", ColumnLeft},
		{"garbage with other title", "somewhere", "Conclusions", ColumnRight},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, ParseColumn(tc.raw, tc.title))
		})
	}
}

func TestFromCandidate_GeneratesUniqueSectionIDs(t *testing.T) {
	raw := `{"sections": [{"title": "A"}, {"title": "B"}, {"title": "C"}]}`

	first := FromCandidate(candidateFromJSON(t, raw))
	second := FromCandidate(candidateFromJSON(t, raw))

	seen := map[string]bool{}
	for _, d := range []*Document{first, second} {
		for _, s := range d.Sections {
			assert.NotEmpty(t, s.ID)
			assert.False(t, seen[s.ID], "id %q assigned twice", s.ID)
			seen[s.ID] = true
		}
	}
}

func TestFromCandidate_KeepsProvidedSectionID(t *testing.T) {
	doc := FromCandidate(candidateFromJSON(t, `{"sections": [{"id": "abc", "title": "A"}]}`))
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "abc", doc.Sections[0].ID)
}

func TestFromCandidate_MigratesSingularVisual(t *testing.T) {
	doc := FromCandidate(candidateFromJSON(t, `{"sections": [{
		"title": "Data",
		"visual": {"type": "table", "headers": ["a"], "rows": [["1"]]},
		"visuals": [{"type": "image", "url": "https://x/y.png"}]
	}]}`))

	require.Len(t, doc.Sections, 1)
	visuals := doc.Sections[0].Visuals
	require.Len(t, visuals, 2)
	assert.Equal(t, VisualTable, visuals[0].Type)
	assert.Equal(t, VisualImage, visuals[1].Type)
}

func TestFromCandidate_DropsVisualsMissingRequiredFields(t *testing.T) {
	doc := FromCandidate(candidateFromJSON(t, `{"sections": [{
		"title": "Data",
		"visuals": [
			{"type": "donutChart"},
			{"type": "image"},
			{"type": "lineChart", "labels": ["a"]},
			{"type": "hologram"},
			{"type": "donutChart", "items": [{"label": "ok", "value": 1}]}
		]
	}]}`))

	require.Len(t, doc.Sections, 1)
	require.Len(t, doc.Sections[0].Visuals, 1)
	assert.Equal(t, VisualDonutChart, doc.Sections[0].Visuals[0].Type)
	assert.Len(t, doc.Warnings, 4, "each dropped visual leaves a warning")
}

func TestFromCandidate_ThemeFallsBackPerField(t *testing.T) {
	doc := FromCandidate(candidateFromJSON(t, `{"theme": {
		"primaryColor": "#ABC",
		"secondaryColor": "dark blue",
		"bodyTextColor": "#12345"
	}}`))

	assert.Equal(t, "#abc", doc.Theme.PrimaryColor)
	assert.Equal(t, DefaultTheme().SecondaryColor, doc.Theme.SecondaryColor)
	assert.Equal(t, DefaultTheme().BodyTextColor, doc.Theme.BodyTextColor)
}

func TestFromCandidate_LegacySingularAuthor(t *testing.T) {
	doc := FromCandidate(candidateFromJSON(t, `{"author": "M. Curie"}`))
	assert.Equal(t, []string{"M. Curie"}, doc.Authors)
}

func TestFromCandidate_DonutValueCoercion(t *testing.T) {
	doc := FromCandidate(candidateFromJSON(t, `{"sections": [{
		"title": "Data",
		"visuals": [{"type": "donut", "segments": [
			{"label": "a", "value": "42%"},
			{"label": "b", "value": 13.5}
		]}]
	}]}`))

	require.Len(t, doc.Sections, 1)
	require.Len(t, doc.Sections[0].Visuals, 1)
	items := doc.Sections[0].Visuals[0].Items
	require.Len(t, items, 2)
	assert.Equal(t, 42.0, items[0].Value)
	assert.Equal(t, 13.5, items[1].Value)
}
