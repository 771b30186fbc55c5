package pipeline

import (
	"errors"
	"testing"

	"posterforge/internal/poster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_ParseWellFormedReply(t *testing.T) {
	raw := "```json\n" + `{
		"title": "Deep Learning for Coral Reef Monitoring",
		"authors": ["J. Kim", "A. Osei"],
		"university": "Pacific State University",
		"sections": [
			{"title": "Introduction", "content": "Reefs are in decline.", "column": "1"},
			{"title": "Results", "content": "Accuracy reached 94%.", "column": "2"}
		]
	}` + "\n```"

	doc, err := New().Parse(raw)

	require.NoError(t, err)
	assert.Equal(t, "Deep Learning for Coral Reef Monitoring", doc.Title)
	assert.Equal(t, []string{"J. Kim", "A. Osei"}, doc.Authors)
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, poster.ColumnLeft, doc.Sections[0].Column)
	assert.NotEmpty(t, doc.Sections[0].ID)
}

// Missing comma between array elements: the strict parse fails, the repair
// pass recovers both sections.
func TestPipeline_MissingCommaBetweenSections(t *testing.T) {
	raw := `{"title": "Foo", "sections": [{"title":"A","content":"x"} {"title":"B","content":"y"}]}`

	doc, err := New().Parse(raw)

	require.NoError(t, err)
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "A", doc.Sections[0].Title)
	assert.Equal(t, "B", doc.Sections[1].Title)
}

func TestPipeline_TruncatedReply(t *testing.T) {
	raw := `{"title": "Foo", "sections": [{"title":"A","content":"x`

	doc, err := New().Parse(raw)

	require.NoError(t, err)
	assert.Equal(t, "Foo", doc.Title)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "x", doc.Sections[0].Content)
}

func TestPipeline_DuplicateSectionsAreMerged(t *testing.T) {
	raw := `{"sections": [
		{"title": "Results", "content": "p1"},
		{"title": "results ", "content": "p2"}
	]}`

	doc, err := New().Parse(raw)

	require.NoError(t, err)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "Results", doc.Sections[0].Title)
	assert.Contains(t, doc.Sections[0].Content, "p1")
	assert.Contains(t, doc.Sections[0].Content, "p2")
}

func TestPipeline_MergeKeyOptionKeepsDistinctSameTitledSections(t *testing.T) {
	raw := `{"sections": [
		{"title": "Results", "content": "first experiment"},
		{"title": "Results", "content": "second experiment"}
	]}`

	doc, err := New(WithMergeKey(poster.MergeByTitleContent)).Parse(raw)

	require.NoError(t, err)
	assert.Len(t, doc.Sections, 2)
}

func TestPipeline_UnparseableReplyReturnsTypedError(t *testing.T) {
	doc, err := New().Parse("I could not produce the poster, sorry!")

	assert.Nil(t, doc)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, UserFacingParseMessage, perr.UserMessage())
}

func TestPipeline_TopLevelArrayIsRejected(t *testing.T) {
	doc, err := New().Parse(`[1, 2, 3]`)

	assert.Nil(t, doc)
	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestPipeline_EmptyObjectIsTotal(t *testing.T) {
	doc, err := New().Parse(`{}`)

	require.NoError(t, err)
	assert.NotNil(t, doc.Sections)
	assert.NotNil(t, doc.Authors)
	assert.NotNil(t, doc.Warnings)
	assert.Equal(t, poster.DefaultTheme(), doc.Theme)
}
