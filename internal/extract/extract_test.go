package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeText(t *testing.T) {
	in := "Coral   reefs\r\nare de-\nclining.\n\n\n\nRapidly.  \n"

	got := NormalizeText(in)

	assert.Equal(t, "Coral reefs\nare declining.\n\nRapidly.", got)
}

func TestNormalizeText_ComposesUnicode(t *testing.T) {
	// 'e' followed by a combining acute accent composes to U+00E9.
	got := NormalizeText("café")
	assert.Equal(t, "café", got)
}

func TestTruncate_PrefersParagraphBoundary(t *testing.T) {
	first := strings.Repeat("a", 40)
	second := strings.Repeat("b", 40)
	in := first + "\n\n" + second

	got := Truncate(in, 60)

	assert.Equal(t, first, got)
}

func TestTruncate_FallsBackToWordBoundary(t *testing.T) {
	in := "alpha beta gamma delta"

	got := Truncate(in, 13)

	assert.Equal(t, "alpha beta", got)
	assert.LessOrEqual(t, len(got), 13)
}

func TestTruncate_ShortInputUnchanged(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 100))
}

func TestReadSource(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "paper.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello  world\r\n"), 0644))

	got, err := ReadSource(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)

	_, err = ReadSource(filepath.Join(tmp, "paper.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported source format")
}
