// Package memory provides in-process implementations of the dialogue
// persistence contracts. Used when the external backends are disabled and
// throughout the test suites. All stores are safe for concurrent use.
package memory

import (
	"context"
	"sync"

	"github.com/xavierdev25/barton-mobile-chatbot/internal/domain/dialogue"
)

// ══════════════════════════════════════════════════════════════
// Sessions
// ══════════════════════════════════════════════════════════════

// SessionStore keeps sessions in a map.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]dialogue.Session
}

// NewSessionStore builds an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]dialogue.Session)}
}

// Load returns the stored session, or a fresh one for unknown ids.
func (s *SessionStore) Load(_ context.Context, id string) (dialogue.Session, error) {
	if id == "" {
		return dialogue.Session{}, dialogue.ErrEmptySessionID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[id]; ok {
		// Context is mutable, hand out a copy.
		sess.Context = sess.Context.Clone()
		return sess, nil
	}
	return dialogue.NewSession(id), nil
}

// Save stores the session.
func (s *SessionStore) Save(_ context.Context, sess dialogue.Session) error {
	if sess.ID == "" {
		return dialogue.ErrEmptySessionID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.Context = sess.Context.Clone()
	s.sessions[sess.ID] = sess
	return nil
}

// SetContact merges contact fields into the stored session. Unknown ids get
// a fresh start-state session carrying the contact.
func (s *SessionStore) SetContact(_ context.Context, id, name, phone string) error {
	if id == "" {
		return dialogue.ErrEmptySessionID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = dialogue.NewSession(id)
	}
	if name != "" {
		sess.Name = name
	}
	if phone != "" {
		sess.Phone = phone
	}
	s.sessions[id] = sess
	return nil
}

// Delete removes the session.
func (s *SessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return dialogue.ErrEmptySessionID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return dialogue.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Count returns the number of stored sessions.
func (s *SessionStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}

// ══════════════════════════════════════════════════════════════
// History
// ══════════════════════════════════════════════════════════════

// HistoryStore keeps conversation logs in per-session slices.
type HistoryStore struct {
	mu    sync.RWMutex
	turns map[string][]dialogue.Turn
}

// NewHistoryStore builds an empty in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{turns: make(map[string][]dialogue.Turn)}
}

// Append records one turn.
func (h *HistoryStore) Append(_ context.Context, sessionID string, turn dialogue.Turn) error {
	if sessionID == "" {
		return dialogue.ErrEmptySessionID
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns[sessionID] = append(h.turns[sessionID], turn)
	return nil
}

// List returns the session's turns in chronological order.
func (h *HistoryStore) List(_ context.Context, sessionID string) ([]dialogue.Turn, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	turns := h.turns[sessionID]
	out := make([]dialogue.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

// DeleteBySession removes the session's log.
func (h *HistoryStore) DeleteBySession(_ context.Context, sessionID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.turns, sessionID)
	return nil
}

// Count returns the total number of recorded turns.
func (h *HistoryStore) Count(_ context.Context) (int, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, turns := range h.turns {
		n += len(turns)
	}
	return n, nil
}

// ══════════════════════════════════════════════════════════════
// Documents
// ══════════════════════════════════════════════════════════════

// DocumentStore keeps document metadata in per-session slices.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string][]dialogue.Document
}

// NewDocumentStore builds an empty in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string][]dialogue.Document)}
}

// Save records one document.
func (d *DocumentStore) Save(_ context.Context, doc dialogue.Document) error {
	if doc.SessionID == "" {
		return dialogue.ErrEmptySessionID
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.docs[doc.SessionID] = append(d.docs[doc.SessionID], doc)
	return nil
}

// ListBySession returns the session's documents, most recent first.
func (d *DocumentStore) ListBySession(_ context.Context, sessionID string) ([]dialogue.Document, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	docs := d.docs[sessionID]
	out := make([]dialogue.Document, len(docs))
	for i, doc := range docs {
		out[len(docs)-1-i] = doc
	}
	return out, nil
}

// DeleteBySession removes the session's document records.
func (d *DocumentStore) DeleteBySession(_ context.Context, sessionID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.docs, sessionID)
	return nil
}

// Count returns the total number of stored documents.
func (d *DocumentStore) Count(_ context.Context) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := 0
	for _, docs := range d.docs {
		n += len(docs)
	}
	return n, nil
}

// ══════════════════════════════════════════════════════════════
// Files
// ══════════════════════════════════════════════════════════════

// FileStore keeps raw file bytes in memory, keyed by name.
type FileStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewFileStore builds an empty in-memory file store.
func NewFileStore() *FileStore {
	return &FileStore{files: make(map[string][]byte)}
}

// Save stores the bytes under the given name and returns the name as path.
func (f *FileStore) Save(_ context.Context, name string, content []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	buf := make([]byte, len(content))
	copy(buf, content)
	f.files[name] = buf
	return name, nil
}

// Read returns the stored bytes for a name.
func (f *FileStore) Read(name string) ([]byte, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	content, ok := f.files[name]
	return content, ok
}
