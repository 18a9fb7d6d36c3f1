// Package memstore implements a content-addressed repotree.Store entirely
// in memory, the reference backend used by tests and by the CLI's
// ephemeral commands. Persistence is handled separately by
// internal/treestore/boltstore.
package memstore

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"sync"

	"github.com/steveyegge/treestore/internal/objid"
	"github.com/steveyegge/treestore/internal/repotree"
)

// Store is an in-memory, goroutine-safe content store.
type Store struct {
	mu        sync.RWMutex
	trees     map[string]*repotree.EntryTable
	files     map[string][]byte
	conflicts map[string]repotree.Conflict
	emptyID   objid.TreeId
}

// New returns an empty Store, already seeded with the canonical empty
// tree.
func New() *Store {
	s := &Store{
		trees:     map[string]*repotree.EntryTable{},
		files:     map[string][]byte{},
		conflicts: map[string]repotree.Conflict{},
	}
	s.emptyID, _ = objid.TreeIdFromHex(hashHex(nil))
	s.trees[s.emptyID.Hex()] = repotree.NewEntryTable(nil)
	return s
}

func hashHex(data []byte) string {
	sum := sha256.Sum256(data)
	return objid.ID(sum[:]).Hex()
}

func (s *Store) EmptyTreeID() objid.TreeId { return s.emptyID }

func (s *Store) GetTree(_ repotree.RepoPath, id objid.TreeId) (*repotree.EntryTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trees[id.Hex()]
	if !ok {
		return nil, fmt.Errorf("memstore: unknown tree %s", id.Hex())
	}
	return t, nil
}

func (s *Store) WriteTree(_ repotree.RepoPath, data *repotree.EntryTable) (objid.TreeId, error) {
	var buf bytes.Buffer
	for _, e := range data.Entries() {
		fmt.Fprintf(&buf, "%s\x00%d%s%s%s%s%t\n", e.Name, e.Value.Kind, e.Value.FileID.Hex(), e.Value.TreeID.Hex(), e.Value.SubmoduleID.Hex(), e.Value.ConflictID.Hex(), e.Value.Executable)
	}
	id, err := objid.TreeIdFromHex(hashHex(buf.Bytes()))
	if err != nil {
		return objid.TreeId{}, err
	}
	s.mu.Lock()
	s.trees[id.Hex()] = data
	s.mu.Unlock()
	return id, nil
}

func (s *Store) ReadFile(_ repotree.RepoPath, id objid.FileId) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[id.Hex()]
	if !ok {
		return nil, fmt.Errorf("memstore: unknown file %s", id.Hex())
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *Store) WriteFile(_ repotree.RepoPath, r io.Reader) (objid.FileId, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return objid.FileId{}, fmt.Errorf("memstore: read file content: %w", err)
	}
	id, err := objid.FileIdFromHex(hashHex(data))
	if err != nil {
		return objid.FileId{}, err
	}
	s.mu.Lock()
	s.files[id.Hex()] = data
	s.mu.Unlock()
	return id, nil
}

func (s *Store) ReadConflict(id objid.ConflictId) (repotree.Conflict, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.conflicts[id.Hex()]
	if !ok {
		return repotree.Conflict{}, fmt.Errorf("memstore: unknown conflict %s", id.Hex())
	}
	return c, nil
}

func (s *Store) WriteConflict(c repotree.Conflict) (objid.ConflictId, error) {
	var buf bytes.Buffer
	for _, t := range c.Removes {
		writeTerm(&buf, 'r', t)
	}
	for _, t := range c.Adds {
		writeTerm(&buf, 'a', t)
	}
	id, err := objid.ConflictIdFromHex(hashHex(buf.Bytes()))
	if err != nil {
		return objid.ConflictId{}, err
	}
	s.mu.Lock()
	s.conflicts[id.Hex()] = c
	s.mu.Unlock()
	return id, nil
}

func writeTerm(buf *bytes.Buffer, side byte, t repotree.ConflictTerm) {
	buf.WriteByte(side)
	if t.Value == nil {
		buf.WriteString("-\n")
		return
	}
	fmt.Fprintf(buf, "%d%s%s%s%s%t\n", t.Value.Kind, t.Value.FileID.Hex(), t.Value.TreeID.Hex(), t.Value.SubmoduleID.Hex(), t.Value.ConflictID.Hex(), t.Value.Executable)
}
