package boltstore

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/steveyegge/treestore/internal/repotree"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.bolt")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBoltStoreFileRoundTrip(t *testing.T) {
	s := openTestStore(t)
	id, err := s.WriteFile(repotree.RootPath(), bytes.NewReader([]byte("content\n")))
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	r, err := s.ReadFile(repotree.RootPath(), id)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	defer r.Close()
	var buf bytes.Buffer
	buf.ReadFrom(r)
	if buf.String() != "content\n" {
		t.Fatalf("got %q, want %q", buf.String(), "content\n")
	}
}

func TestBoltStoreTreeRoundTrip(t *testing.T) {
	s := openTestStore(t)
	fileID, err := s.WriteFile(repotree.RootPath(), bytes.NewReader([]byte("x\n")))
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	table := repotree.NewEntryTable([]repotree.Entry{
		{Name: "a.txt", Value: repotree.NewFileValue(fileID, false)},
	})
	treeID, err := s.WriteTree(repotree.RootPath(), table)
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	got, err := s.GetTree(repotree.RootPath(), treeID)
	if err != nil {
		t.Fatalf("GetTree: %v", err)
	}
	v, ok := got.Value("a.txt")
	if !ok || !v.FileID.Equal(fileID) {
		t.Fatalf("roundtrip mismatch: %+v ok=%v", v, ok)
	}
}

func TestBoltStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.bolt")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	fileID, err := s1.WriteFile(repotree.RootPath(), bytes.NewReader([]byte("persisted\n")))
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	r, err := s2.ReadFile(repotree.RootPath(), fileID)
	if err != nil {
		t.Fatalf("ReadFile after reopen: %v", err)
	}
	defer r.Close()
	var buf bytes.Buffer
	buf.ReadFrom(r)
	if buf.String() != "persisted\n" {
		t.Fatalf("got %q, want %q", buf.String(), "persisted\n")
	}
}
