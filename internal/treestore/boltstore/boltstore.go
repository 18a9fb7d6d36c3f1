// Package boltstore implements a persistent, content-addressed
// repotree.Store backed by a single bbolt database file. Opening the file
// retries through a bounded backoff, since bbolt takes an exclusive file
// lock and a concurrent process (or a previous run shutting down) can hold
// it briefly.
package boltstore

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	bolt "go.etcd.io/bbolt"

	"github.com/steveyegge/treestore/internal/objid"
	"github.com/steveyegge/treestore/internal/repotree"
)

var (
	bucketTrees     = []byte("trees")
	bucketFiles     = []byte("files")
	bucketConflicts = []byte("conflicts")
)

const openMaxElapsed = 10 * time.Second

// newOpenBackoff returns a fresh exponential backoff for retrying a locked
// database open. BackOff implementations are stateful, so a new one is
// built per Open call rather than shared.
func newOpenBackoff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = openMaxElapsed
	return bo
}

// Store is a bbolt-backed repotree.Store.
type Store struct {
	db      *bolt.DB
	emptyID objid.TreeId
}

// Open opens (creating if necessary) the bbolt database at path, retrying
// any open error (a file lock held elsewhere among them) until
// openMaxElapsed has passed.
func Open(path string) (*Store, error) {
	var db *bolt.DB
	err := backoff.Retry(func() error {
		var openErr error
		db, openErr = bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
		return openErr
	}, newOpenBackoff())
	if err != nil {
		return nil, fmt.Errorf("boltstore: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketTrees, bucketFiles, bucketConflicts} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("boltstore: init buckets: %w", err)
	}

	s := &Store{db: db}
	s.emptyID, err = objid.TreeIdFromHex(hashHex(nil))
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := s.writeTreeBytes(s.emptyID, nil); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database file.
func (s *Store) Close() error { return s.db.Close() }

func hashHex(data []byte) string {
	sum := sha256.Sum256(data)
	return objid.ID(sum[:]).Hex()
}

func (s *Store) EmptyTreeID() objid.TreeId { return s.emptyID }

func (s *Store) GetTree(_ repotree.RepoPath, id objid.TreeId) (*repotree.EntryTable, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketTrees).Get([]byte(id.Hex()))
		if v == nil {
			return fmt.Errorf("boltstore: unknown tree %s", id.Hex())
		}
		raw = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decodeEntryTable(raw)
}

func (s *Store) WriteTree(_ repotree.RepoPath, data *repotree.EntryTable) (objid.TreeId, error) {
	encoded := encodeEntryTable(data)
	id, err := objid.TreeIdFromHex(hashHex(encoded))
	if err != nil {
		return objid.TreeId{}, err
	}
	if err := s.writeTreeBytes(id, encoded); err != nil {
		return objid.TreeId{}, err
	}
	return id, nil
}

func (s *Store) writeTreeBytes(id objid.TreeId, encoded []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTrees).Put([]byte(id.Hex()), encoded)
	})
}

func (s *Store) ReadFile(_ repotree.RepoPath, id objid.FileId) (io.ReadCloser, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketFiles).Get([]byte(id.Hex()))
		if v == nil {
			return fmt.Errorf("boltstore: unknown file %s", id.Hex())
		}
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *Store) WriteFile(_ repotree.RepoPath, r io.Reader) (objid.FileId, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return objid.FileId{}, fmt.Errorf("boltstore: read file content: %w", err)
	}
	id, err := objid.FileIdFromHex(hashHex(data))
	if err != nil {
		return objid.FileId{}, err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFiles).Put([]byte(id.Hex()), data)
	})
	if err != nil {
		return objid.FileId{}, err
	}
	return id, nil
}

func (s *Store) ReadConflict(id objid.ConflictId) (repotree.Conflict, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketConflicts).Get([]byte(id.Hex()))
		if v == nil {
			return fmt.Errorf("boltstore: unknown conflict %s", id.Hex())
		}
		raw = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return repotree.Conflict{}, err
	}
	return decodeConflict(raw)
}

func (s *Store) WriteConflict(c repotree.Conflict) (objid.ConflictId, error) {
	encoded := encodeConflict(c)
	id, err := objid.ConflictIdFromHex(hashHex(encoded))
	if err != nil {
		return objid.ConflictId{}, err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketConflicts).Put([]byte(id.Hex()), encoded)
	})
	if err != nil {
		return objid.ConflictId{}, err
	}
	return id, nil
}
