package poster

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stageSchema(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	_, currentFile, _, ok := runtime.Caller(0)
	require.True(t, ok)
	schemaSrc := filepath.Join(filepath.Dir(currentFile), "..", "..", "docs", "poster.schema.json")
	schemaBytes, err := os.ReadFile(schemaSrc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "poster.schema.json"), schemaBytes, 0644))
	return tmp
}

func TestSaveDocument_NormalizedDocumentPassesSchema(t *testing.T) {
	tmp := stageSchema(t)

	doc := FromCandidate(map[string]any{
		"title": "T",
		"sections": []any{
			map[string]any{"title": "Methods", "content": "m"},
		},
	})

	path := filepath.Join(tmp, "poster.json")
	require.NoError(t, SaveDocument(path, doc))

	loaded, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}

func TestSaveDocument_RejectsInvalidColumn(t *testing.T) {
	tmp := stageSchema(t)

	doc := DefaultDocument()
	doc.Sections = append(doc.Sections, Section{
		ID:      "s1",
		Column:  Column("3"),
		Visuals: []Visual{},
	})

	err := SaveDocument(filepath.Join(tmp, "poster.json"), doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation")
}

func TestSectionByID(t *testing.T) {
	doc := DefaultDocument()
	doc.Sections = []Section{{ID: "a"}, {ID: "b"}}

	require.NotNil(t, doc.SectionByID("b"))
	assert.Nil(t, doc.SectionByID("missing"))
}
