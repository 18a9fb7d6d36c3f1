package repotree

import (
	"fmt"
	"io"

	"github.com/steveyegge/treestore/internal/objid"
)

// Store is the content-addressed backend a Tree snapshot reads from and
// that tree construction writes back to. Implementations live in
// internal/treestore (an in-memory reference store and a bbolt-backed
// persistent one); this package only ever consumes the interface.
type Store interface {
	// GetTree loads the direct-child entries of the tree identified by id,
	// which was itself recorded at dir.
	GetTree(dir RepoPath, id objid.TreeId) (*EntryTable, error)

	// WriteTree persists data as the entries of a tree recorded at dir and
	// returns its content-derived id.
	WriteTree(dir RepoPath, data *EntryTable) (objid.TreeId, error)

	// ReadFile opens the content of the file blob id, recorded at path.
	ReadFile(path RepoPath, id objid.FileId) (io.ReadCloser, error)

	// WriteFile persists the content read from r as a file blob recorded at
	// path and returns its content-derived id.
	WriteFile(path RepoPath, r io.Reader) (objid.FileId, error)

	// ReadConflict loads a previously persisted conflict by id.
	ReadConflict(id objid.ConflictId) (Conflict, error)

	// WriteConflict persists c and returns its content-derived id.
	WriteConflict(c Conflict) (objid.ConflictId, error)

	// EmptyTreeID returns the id of the canonical tree with no entries.
	EmptyTreeID() objid.TreeId
}

// VisitSet summarizes how a Matcher treats the descendants of a directory,
// without the caller needing to inspect every path up front.
type VisitSet int

const (
	// VisitNothing means no path under the directory can match.
	VisitNothing VisitSet = iota
	// VisitAll means every path under the directory matches.
	VisitAll
	// VisitSome means some paths under the directory may match; the caller
	// must still consult Matches per path.
	VisitSome
)

// IsNothing reports whether the directory can be skipped entirely.
func (v VisitSet) IsNothing() bool { return v == VisitNothing }

// IsNonempty reports whether at least one path under the directory might
// match, i.e. the directory is worth descending into.
func (v VisitSet) IsNonempty() bool { return v != VisitNothing }

// Matcher decides which paths a tree walk or diff should consider. Visit is
// a coarse per-directory pre-filter that lets recursive operations prune
// whole subtrees before listing their entries; Matches is the precise
// per-path test.
type Matcher interface {
	Visit(dir RepoPath) VisitSet
	Matches(path RepoPath) bool
}

// TreeMergeError reports a failure encountered while merging or diffing
// trees, wrapping the underlying Store error and the path it occurred at.
type TreeMergeError struct {
	Path RepoPath
	Op   string
	Err  error
}

func (e *TreeMergeError) Error() string {
	if e.Path.IsRoot() {
		return fmt.Sprintf("repotree: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("repotree: %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *TreeMergeError) Unwrap() error { return e.Err }

func wrapErr(op string, path RepoPath, err error) error {
	if err == nil {
		return nil
	}
	return &TreeMergeError{Path: path, Op: op, Err: err}
}
