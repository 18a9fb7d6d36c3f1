// Package objid implements the opaque content-addressed identifiers used
// throughout the tree engine: raw bytes with a lowercase-hex view, plus the
// handful of named identifier kinds (file, tree, change, commit, conflict)
// that share that abstraction.
package objid

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// ID is an opaque, content-addressed byte sequence. Equality and ordering
// are byte-lexicographic.
type ID []byte

// Bytes returns the raw identifier bytes.
func (id ID) Bytes() []byte { return id }

// Hex returns the lowercase hex view of id.
func (id ID) Hex() string { return hex.EncodeToString(id) }

// Compare returns -1, 0, or 1 as id is less than, equal to, or greater than
// other, byte-lexicographically.
func (id ID) Compare(other ID) int { return bytes.Compare(id, other) }

// Equal reports whether id and other contain the same bytes.
func (id ID) Equal(other ID) bool { return bytes.Equal(id, other) }

// FromHex decodes a hex string into an ID.
func FromHex(s string) (ID, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("objid: invalid hex %q: %w", s, err)
	}
	return ID(b), nil
}

// Identifier is the constraint satisfied by every named id kind below; it
// lets IdIndex and HexPrefix operate generically over whichever kind of id
// a caller plugs in.
type Identifier interface {
	Bytes() []byte
	Hex() string
}

// FileId identifies the content of a file blob.
type FileId struct{ ID }

// TreeId identifies the content of a tree object (a directory snapshot).
type TreeId struct{ ID }

// ChangeId identifies a change across rewrites of the commit that records it.
type ChangeId struct{ ID }

// CommitId identifies a commit object.
type CommitId struct{ ID }

// ConflictId identifies a persisted conflict object.
type ConflictId struct{ ID }

// FileIdFromHex parses a hex string into a FileId.
func FileIdFromHex(s string) (FileId, error) { id, err := FromHex(s); return FileId{id}, err }

// TreeIdFromHex parses a hex string into a TreeId.
func TreeIdFromHex(s string) (TreeId, error) { id, err := FromHex(s); return TreeId{id}, err }

// ChangeIdFromHex parses a hex string into a ChangeId.
func ChangeIdFromHex(s string) (ChangeId, error) { id, err := FromHex(s); return ChangeId{id}, err }

// CommitIdFromHex parses a hex string into a CommitId.
func CommitIdFromHex(s string) (CommitId, error) { id, err := FromHex(s); return CommitId{id}, err }

// ConflictIdFromHex parses a hex string into a ConflictId.
func ConflictIdFromHex(s string) (ConflictId, error) {
	id, err := FromHex(s)
	return ConflictId{id}, err
}

// Equal reports whether two FileIds refer to the same content.
func (f FileId) Equal(other FileId) bool { return f.ID.Equal(other.ID) }

// Equal reports whether two TreeIds refer to the same content.
func (t TreeId) Equal(other TreeId) bool { return t.ID.Equal(other.ID) }

// Equal reports whether two ChangeIds refer to the same change.
func (c ChangeId) Equal(other ChangeId) bool { return c.ID.Equal(other.ID) }

// Equal reports whether two CommitIds refer to the same commit.
func (c CommitId) Equal(other CommitId) bool { return c.ID.Equal(other.ID) }

// Equal reports whether two ConflictIds refer to the same conflict.
func (c ConflictId) Equal(other ConflictId) bool { return c.ID.Equal(other.ID) }

// Compare orders two FileIds byte-lexicographically; it lets FileId satisfy
// idindex.Key.
func (f FileId) Compare(other FileId) int { return f.ID.Compare(other.ID) }

// Compare orders two TreeIds byte-lexicographically.
func (t TreeId) Compare(other TreeId) int { return t.ID.Compare(other.ID) }

// Compare orders two ChangeIds byte-lexicographically.
func (c ChangeId) Compare(other ChangeId) int { return c.ID.Compare(other.ID) }

// Compare orders two CommitIds byte-lexicographically.
func (c CommitId) Compare(other CommitId) int { return c.ID.Compare(other.ID) }

// Compare orders two ConflictIds byte-lexicographically.
func (c ConflictId) Compare(other ConflictId) int { return c.ID.Compare(other.ID) }
