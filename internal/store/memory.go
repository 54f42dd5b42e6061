package store

import (
	"encoding/json"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and throwaway sessions.
// It mirrors SQLiteStore's behavior, including keeping the raw blob so an
// unvalidated import round-trips the same way.
type MemoryStore struct {
	mu  sync.Mutex
	raw []byte
}

var _ Store = (*MemoryStore)(nil)

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.raw == nil {
		doc := Defaults()
		s.raw, _ = json.Marshal(doc)
		return doc
	}
	doc, clean := decode(s.raw)
	if !clean {
		s.raw, _ = json.Marshal(doc)
	}
	return doc
}

func (s *MemoryStore) Save(doc Document) error {
	doc.SchemaVersion = SchemaVersion
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.raw = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Reset() error {
	return s.Save(Defaults())
}

func (s *MemoryStore) Export() ([]byte, error) {
	return json.MarshalIndent(s.Load(), "", "  ")
}

func (s *MemoryStore) Import(blob []byte) bool {
	if !json.Valid(blob) {
		return false
	}
	s.mu.Lock()
	s.raw = append([]byte(nil), blob...)
	s.mu.Unlock()
	return true
}
