package repotree

import "github.com/steveyegge/treestore/internal/objid"

// Tree is an immutable snapshot of one directory's content: a store handle,
// the path the directory was recorded at, its content id, and its already
// fetched entry table. Because the entry table is fetched eagerly and
// shared rather than lazily re-borrowed, a Tree is cheap to copy and safe
// to hold onto across calls — unlike a self-borrowing iterator, nothing
// here needs to outlive anything else.
type Tree struct {
	store Store
	dir   RepoPath
	id    objid.TreeId
	data  *EntryTable
}

// NewTree loads the tree recorded at dir with content id id from store.
func NewTree(store Store, dir RepoPath, id objid.TreeId) (*Tree, error) {
	data, err := store.GetTree(dir, id)
	if err != nil {
		return nil, wrapErr("load tree", dir, err)
	}
	return &Tree{store: store, dir: dir, id: id, data: data}, nil
}

// Empty returns the canonical empty tree recorded at dir.
func Empty(store Store, dir RepoPath) (*Tree, error) {
	return NewTree(store, dir, store.EmptyTreeID())
}

func (t *Tree) Store() Store      { return t.store }
func (t *Tree) Dir() RepoPath     { return t.dir }
func (t *Tree) Id() objid.TreeId  { return t.id }
func (t *Tree) IsEmpty() bool     { return t.data.IsEmpty() }
func (t *Tree) Data() *EntryTable { return t.data }

// Entries returns the tree's direct, non-recursive children in name order.
func (t *Tree) Entries() []Entry { return t.data.Entries() }

// Entry looks up a direct child by basename.
func (t *Tree) Entry(basename string) (Entry, bool) {
	v, ok := t.data.Value(basename)
	if !ok {
		return Entry{}, false
	}
	return Entry{Name: basename, Value: v}, true
}

// Value looks up a direct child's value by basename.
func (t *Tree) Value(basename string) (TreeValue, bool) { return t.data.Value(basename) }

// SubTree loads the child directory named basename as a Tree. It returns
// (nil, nil) if basename is absent or is not a directory.
func (t *Tree) SubTree(basename string) (*Tree, error) {
	v, ok := t.data.Value(basename)
	if !ok || v.Kind != KindTree {
		return nil, nil
	}
	return NewTree(t.store, t.dir.Join(basename), v.TreeID)
}

// PathValue resolves path, relative to t's own directory, to a value by
// walking one component at a time through nested trees.
func (t *Tree) PathValue(path RepoPath) (TreeValue, bool, error) {
	if path.IsRoot() {
		return NewTreeValueRef(t.id), true, nil
	}
	components := path.Components()
	cur := t
	for i, name := range components {
		last := i == len(components)-1
		v, ok := cur.data.Value(name)
		if !ok {
			return TreeValue{}, false, nil
		}
		if last {
			return v, true, nil
		}
		if v.Kind != KindTree {
			return TreeValue{}, false, nil
		}
		next, err := NewTree(cur.store, cur.dir.Join(name), v.TreeID)
		if err != nil {
			return TreeValue{}, false, err
		}
		cur = next
	}
	return TreeValue{}, false, nil
}

// HasConflict reports whether any entry reachable under t, recursively, is
// a conflict value.
func (t *Tree) HasConflict() (bool, error) {
	found := false
	err := t.walkConflicts(func(RepoPath, TreeValue) error {
		found = true
		return errStopWalk
	})
	if err == errStopWalk {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return found, nil
}

// Conflicts returns every (path, value) pair reachable under t, recursively,
// whose value is a conflict. Each returned Entry's Name holds the full path
// of the conflict, not just its basename.
func (t *Tree) Conflicts() ([]Entry, error) {
	var out []Entry
	err := t.walkConflicts(func(path RepoPath, v TreeValue) error {
		out = append(out, Entry{Name: path.String(), Value: v})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Diff walks the entries that differ between t and other, restricted to
// matcher, in path order.
func (t *Tree) Diff(other *Tree, matcher Matcher) (*TreeDiffIterator, error) {
	return NewTreeDiff(t, other, matcher)
}

// DiffSummary is a convenience wrapper around Diff that collects the
// modified/added/removed path lists directly.
func (t *Tree) DiffSummary(other *Tree, matcher Matcher) (DiffSummary, error) {
	it, err := NewTreeDiff(t, other, matcher)
	if err != nil {
		return DiffSummary{}, err
	}
	return it.Summary(), nil
}

var errStopWalk = stopWalkSentinel{}

type stopWalkSentinel struct{}

func (stopWalkSentinel) Error() string { return "repotree: walk stopped" }

func (t *Tree) walkConflicts(visit func(path RepoPath, v TreeValue) error) error {
	for _, e := range t.data.Entries() {
		path := t.dir.Join(e.Name)
		switch e.Value.Kind {
		case KindConflict:
			if err := visit(path, e.Value); err != nil {
				return err
			}
		case KindTree:
			sub, err := NewTree(t.store, path, e.Value.TreeID)
			if err != nil {
				return err
			}
			if err := sub.walkConflicts(visit); err != nil {
				return err
			}
		}
	}
	return nil
}
