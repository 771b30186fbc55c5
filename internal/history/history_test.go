package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStack_UndoRedoWalk(t *testing.T) {
	s := New[string](10)
	s.Push("v1")
	s.Push("v2")
	s.Push("v3")

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "v3", cur)

	v, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, "v2", v)

	v, ok = s.Undo()
	require.True(t, ok)
	assert.Equal(t, "v1", v)

	_, ok = s.Undo()
	assert.False(t, ok, "cannot undo past the first snapshot")

	v, ok = s.Redo()
	require.True(t, ok)
	assert.Equal(t, "v2", v)
}

func TestStack_PushTruncatesRedoTail(t *testing.T) {
	s := New[int](10)
	s.Push(1)
	s.Push(2)
	s.Push(3)
	s.Undo()
	s.Undo()

	s.Push(9)

	assert.False(t, s.CanRedo())
	cur, _ := s.Current()
	assert.Equal(t, 9, cur)
	assert.Equal(t, 2, s.Len())
}

func TestStack_LimitDropsOldest(t *testing.T) {
	s := New[int](3)
	for i := 1; i <= 5; i++ {
		s.Push(i)
	}

	assert.Equal(t, 3, s.Len())
	v, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, 4, v)
	v, ok = s.Undo()
	require.True(t, ok)
	assert.Equal(t, 3, v)
	_, ok = s.Undo()
	assert.False(t, ok)
}

func TestStack_EmptyStack(t *testing.T) {
	s := New[string](0)
	_, ok := s.Current()
	assert.False(t, ok)
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
}
