package repotree

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"io"

	"github.com/steveyegge/treestore/internal/objid"
)

// fakeStore is a minimal in-memory Store used only by this package's own
// tests: content-addressed by sha256, with no on-disk persistence.
type fakeStore struct {
	trees     map[string]*EntryTable
	files     map[string][]byte
	conflicts map[string]Conflict
	emptyID   objid.TreeId
}

func newFakeStore() *fakeStore {
	s := &fakeStore{
		trees:     map[string]*EntryTable{},
		files:     map[string][]byte{},
		conflicts: map[string]Conflict{},
	}
	s.emptyID, _ = objid.TreeIdFromHex(sha256Hex(nil))
	s.trees[s.emptyID.Hex()] = NewEntryTable(nil)
	return s
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return objid.ID(sum[:]).Hex()
}

func (s *fakeStore) EmptyTreeID() objid.TreeId { return s.emptyID }

func (s *fakeStore) GetTree(dir RepoPath, id objid.TreeId) (*EntryTable, error) {
	t, ok := s.trees[id.Hex()]
	if !ok {
		return nil, errors.New("fakestore: unknown tree " + id.Hex())
	}
	return t, nil
}

func (s *fakeStore) WriteTree(dir RepoPath, data *EntryTable) (objid.TreeId, error) {
	// Content-address by a stable encoding of the entry list.
	var buf bytes.Buffer
	for _, e := range data.Entries() {
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.WriteByte(byte(e.Value.Kind))
		buf.WriteString(e.Value.FileID.Hex())
		buf.WriteString(e.Value.TreeID.Hex())
		buf.WriteString(e.Value.SubmoduleID.Hex())
		buf.WriteString(e.Value.ConflictID.Hex())
		if e.Value.Executable {
			buf.WriteByte('x')
		}
		buf.WriteByte('\n')
	}
	id, _ := objid.TreeIdFromHex(sha256Hex(buf.Bytes()))
	s.trees[id.Hex()] = data
	return id, nil
}

func (s *fakeStore) ReadFile(path RepoPath, id objid.FileId) (io.ReadCloser, error) {
	data, ok := s.files[id.Hex()]
	if !ok {
		return nil, errors.New("fakestore: unknown file " + id.Hex())
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStore) WriteFile(path RepoPath, r io.Reader) (objid.FileId, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return objid.FileId{}, err
	}
	id, _ := objid.FileIdFromHex(sha256Hex(data))
	s.files[id.Hex()] = data
	return id, nil
}

func (s *fakeStore) ReadConflict(id objid.ConflictId) (Conflict, error) {
	c, ok := s.conflicts[id.Hex()]
	if !ok {
		return Conflict{}, errors.New("fakestore: unknown conflict " + id.Hex())
	}
	return c, nil
}

func (s *fakeStore) WriteConflict(c Conflict) (objid.ConflictId, error) {
	var buf bytes.Buffer
	for _, t := range c.Removes {
		buf.WriteString("r:")
		writeTermBytes(&buf, t)
	}
	for _, t := range c.Adds {
		buf.WriteString("a:")
		writeTermBytes(&buf, t)
	}
	id, _ := objid.ConflictIdFromHex(sha256Hex(buf.Bytes()))
	s.conflicts[id.Hex()] = c
	return id, nil
}

func writeTermBytes(buf *bytes.Buffer, t ConflictTerm) {
	if t.isAbsent() {
		buf.WriteString("-\n")
		return
	}
	buf.WriteByte(byte(t.Value.Kind))
	buf.WriteString(t.Value.FileID.Hex())
	buf.WriteString(t.Value.TreeID.Hex())
	buf.WriteString(t.Value.SubmoduleID.Hex())
	buf.WriteString(t.Value.ConflictID.Hex())
	if t.Value.Executable {
		buf.WriteByte('x')
	}
	buf.WriteByte('\n')
}

func (s *fakeStore) putFile(content string) objid.FileId {
	id, err := s.WriteFile(RootPath(), bytes.NewReader([]byte(content)))
	if err != nil {
		panic(err)
	}
	return id
}

func (s *fakeStore) putTree(entries ...Entry) objid.TreeId {
	id, err := s.WriteTree(RootPath(), NewEntryTable(entries))
	if err != nil {
		panic(err)
	}
	return id
}

type everythingMatcher struct{}

func (everythingMatcher) Visit(RepoPath) VisitSet { return VisitAll }
func (everythingMatcher) Matches(RepoPath) bool   { return true }
