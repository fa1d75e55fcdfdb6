package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hoopdesk/gm-league-backend/internal/engine"
)

// Memory keeps league documents in-process. It stores the encoded form so
// dev mode and tests round-trip through the same JSON as the database store.
type memoryRecord struct {
	doc     []byte
	version int64
}

type Memory struct {
	mu   sync.Mutex
	docs map[string]memoryRecord
}

func NewMemory() *Memory {
	return &Memory{docs: map[string]memoryRecord{}}
}

func (m *Memory) Load(_ context.Context, id string) (*engine.League, error) {
	m.mu.Lock()
	rec, ok := m.docs[id]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	var l engine.League
	if err := json.Unmarshal(rec.doc, &l); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return &l, nil
}

// Save applies the same optimistic version check as the database store: an
// existing document at the same or newer version refuses the write.
func (m *Memory) Save(_ context.Context, l *engine.League) error {
	doc, err := json.Marshal(l)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.docs[l.ID]; ok && rec.version >= l.Version {
		return ErrVersionConflict
	}
	m.docs[l.ID] = memoryRecord{doc: doc, version: l.Version}
	return nil
}

// PutRaw writes an arbitrary document, bypassing encoding. Test hook for
// corrupt-snapshot behavior.
func (m *Memory) PutRaw(id string, doc []byte) {
	m.mu.Lock()
	m.docs[id] = memoryRecord{doc: doc, version: -1}
	m.mu.Unlock()
}
