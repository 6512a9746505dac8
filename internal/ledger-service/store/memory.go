package store

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory implementa Backend em memória, com um mutex serializando todas as
// operações (o equivalente local do ator único por índice). Usado nos testes
// e em execuções locais com POSTGRES_DSN=memory.
type Memory struct {
	mu      sync.Mutex
	docs    map[string]map[string]json.RawMessage // kind -> id -> doc
	entries map[string][]memEntry                 // kind -> sequência de inserção
	members map[string]map[string]bool            // kind -> ids presentes no índice
	seq     int64
}

type memEntry struct {
	seq int64
	id  string
}

func NewMemory() *Memory {
	return &Memory{
		docs:    make(map[string]map[string]json.RawMessage),
		entries: make(map[string][]memEntry),
		members: make(map[string]map[string]bool),
	}
}

func (m *Memory) Exists(_ context.Context, kind, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.docs[kind][id]
	return ok, nil
}

func (m *Memory) Read(_ context.Context, kind, id string) (json.RawMessage, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[kind][id]
	if !ok {
		return nil, false, nil
	}
	return doc, true, nil
}

func (m *Memory) Write(_ context.Context, kind, id string, doc json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.write(kind, id, doc)
	return nil
}

func (m *Memory) Patch(_ context.Context, kind, id string, partial json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[kind][id]
	if !ok {
		return ErrNotFound
	}

	merged, err := mergeShallow(doc, partial)
	if err != nil {
		return err
	}
	m.docs[kind][id] = merged
	return nil
}

func (m *Memory) Append(_ context.Context, kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.append(kind, id)
	return nil
}

func (m *Memory) List(_ context.Context, kind string, cursor *string, limit int) ([]string, *string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, nil, err
	}

	var ids []string
	var lastSeq int64
	for _, e := range m.entries[kind] {
		if e.seq <= after {
			continue
		}
		ids = append(ids, e.id)
		lastSeq = e.seq
		if len(ids) == limit {
			break
		}
	}

	return ids, nextCursor(len(ids), limit, lastSeq), nil
}

func (m *Memory) IsEmpty(_ context.Context, kind string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries[kind]) == 0, nil
}

func (m *Memory) CreateIndexed(_ context.Context, kind, id string, doc json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// mesma semântica idempotente do backend Postgres: não sobrescreve doc
	// existente nem duplica entrada de índice
	if _, ok := m.docs[kind][id]; !ok {
		m.write(kind, id, doc)
	}
	m.append(kind, id)
	return nil
}

func (m *Memory) write(kind, id string, doc json.RawMessage) {
	if m.docs[kind] == nil {
		m.docs[kind] = make(map[string]json.RawMessage)
	}
	m.docs[kind][id] = doc
}

func (m *Memory) append(kind, id string) {
	if m.members[kind] == nil {
		m.members[kind] = make(map[string]bool)
	}
	if m.members[kind][id] {
		return
	}
	m.seq++
	m.members[kind][id] = true
	m.entries[kind] = append(m.entries[kind], memEntry{seq: m.seq, id: id})
}

func mergeShallow(doc, partial json.RawMessage) (json.RawMessage, error) {
	var cur map[string]any
	if err := json.Unmarshal(doc, &cur); err != nil {
		return nil, err
	}
	var patch map[string]any
	if err := json.Unmarshal(partial, &patch); err != nil {
		return nil, err
	}
	for k, v := range patch {
		cur[k] = v
	}
	return json.Marshal(cur)
}
