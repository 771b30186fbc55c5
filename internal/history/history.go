// Package history is a generic linear undo/redo stack over arbitrary
// snapshots. Pushing a new snapshot discards any redo tail, like every
// editor history does.
package history

// Stack holds up to limit snapshots. The zero value is not usable; create
// one with New.
type Stack[T any] struct {
	entries []T
	pos     int // index of the current snapshot; -1 when empty
	limit   int
}

const DefaultLimit = 100

func New[T any](limit int) *Stack[T] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack[T]{pos: -1, limit: limit}
}

// Push records a new current snapshot, truncating the redo tail. When the
// stack is full the oldest snapshot is dropped.
func (s *Stack[T]) Push(snapshot T) {
	s.entries = append(s.entries[:s.pos+1], snapshot)
	if len(s.entries) > s.limit {
		s.entries = s.entries[1:]
	}
	s.pos = len(s.entries) - 1
}

// Current returns the active snapshot.
func (s *Stack[T]) Current() (T, bool) {
	var zero T
	if s.pos < 0 {
		return zero, false
	}
	return s.entries[s.pos], true
}

func (s *Stack[T]) CanUndo() bool { return s.pos > 0 }
func (s *Stack[T]) CanRedo() bool { return s.pos >= 0 && s.pos < len(s.entries)-1 }

// Undo steps back one snapshot and returns it.
func (s *Stack[T]) Undo() (T, bool) {
	var zero T
	if !s.CanUndo() {
		return zero, false
	}
	s.pos--
	return s.entries[s.pos], true
}

// Redo steps forward one snapshot and returns it.
func (s *Stack[T]) Redo() (T, bool) {
	var zero T
	if !s.CanRedo() {
		return zero, false
	}
	s.pos++
	return s.entries[s.pos], true
}

// Len reports how many snapshots are held.
func (s *Stack[T]) Len() int { return len(s.entries) }
