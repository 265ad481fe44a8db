package record

import (
	"sync"
)

// Store is a thread-safe, in-memory system of record for the request table.
// It is the only mutable state in the system: the metrics engine always works
// on copies handed out by All, so a computation never observes a partial
// in-place edit.
type Store struct {
	mu      sync.RWMutex
	records RecordSet
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Replace swaps the entire table for a new one. Load semantics are wholesale:
// there is no incremental merge.
func (s *Store) Replace(rs RecordSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = rs.Clone()
}

// All returns a deep copy of the current table.
func (s *Store) All() RecordSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records.Clone()
}

// Len returns the number of rows.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// RequestIDs returns the unique non-blank values of idField in order of first
// appearance.
func (s *Store) RequestIDs(idField string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var ids []string
	for _, r := range s.records {
		id, ok := r.Get(idField)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// ForRequest returns copies of all rows whose idField equals id.
func (s *Store) ForRequest(idField, id string) RecordSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out RecordSet
	for _, r := range s.records {
		if v, ok := r.Get(idField); ok && v == id {
			out = append(out, r.Clone())
		}
	}
	return out
}

// UpdateField sets field to value on every row whose idField equals id and
// returns the number of rows changed.
func (s *Store) UpdateField(idField, id, field, value string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for _, r := range s.records {
		if v, ok := r.Get(idField); ok && v == id {
			r[field] = value
			changed++
		}
	}
	return changed
}

// UpdateDatasetField sets field to value on rows matching both the request id
// and the dataset id, for dataset-level edits within one request.
func (s *Store) UpdateDatasetField(reqField, reqID, dsField, dsID, field, value string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for _, r := range s.records {
		rv, rok := r.Get(reqField)
		dv, dok := r.Get(dsField)
		if rok && dok && rv == reqID && dv == dsID {
			r[field] = value
			changed++
		}
	}
	return changed
}
