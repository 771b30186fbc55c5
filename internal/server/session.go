package server

import (
	"encoding/json"
	"sync"

	"posterforge/internal/history"
	"posterforge/internal/poster"

	"github.com/google/uuid"
)

// session is one editing session: the document plus its undo history. Each
// model turn replaces the document wholesale, so snapshots are full copies.
type session struct {
	id string

	mu    sync.Mutex
	stack *history.Stack[*poster.Document]
}

func (s *session) current() (*poster.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.Current()
}

func (s *session) currentJSON() (string, error) {
	doc, ok := s.current()
	if !ok {
		return "", nil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *session) push(doc *poster.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stack.Push(doc)
}

func (s *session) undo() (*poster.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.Undo()
}

func (s *session) redo() (*poster.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.Redo()
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*session)}
}

func (s *sessionStore) create(doc *poster.Document) *session {
	sess := &session{
		id:    uuid.NewString(),
		stack: history.New[*poster.Document](history.DefaultLimit),
	}
	sess.stack.Push(doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.id] = sess
	return sess
}

func (s *sessionStore) get(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}
