package repotree

// TreeEntriesIterator walks a Tree's entries recursively, in pre-order over
// directories and name order within each directory, pruned by a Matcher.
// Unlike a self-borrowing iterator over a single pinned tree, each frame
// owns the *Tree it's iterating, so there's no lifetime trick needed: a
// frame is simply popped once exhausted and its Tree goes out of scope
// normally.
type TreeEntriesIterator struct {
	matcher Matcher
	stack   []entriesFrame
	err     error
}

type entriesFrame struct {
	tree *Tree
	idx  int
}

// NewTreeEntriesIterator returns an iterator over t's entries, including
// t's own descendants, restricted to paths matcher allows.
func NewTreeEntriesIterator(t *Tree, matcher Matcher) *TreeEntriesIterator {
	it := &TreeEntriesIterator{matcher: matcher}
	if matcher.Visit(t.Dir()).IsNonempty() {
		it.stack = append(it.stack, entriesFrame{tree: t})
	}
	return it
}

// Next advances the iterator and returns the next (path, value) pair. It
// returns ok=false once the walk is exhausted or an error occurred; check
// Err in that case to distinguish the two.
func (it *TreeEntriesIterator) Next() (path RepoPath, value TreeValue, ok bool) {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		entries := top.tree.Entries()
		if top.idx >= len(entries) {
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}
		entry := entries[top.idx]
		top.idx++
		entryPath := top.tree.Dir().Join(entry.Name)

		if entry.Value.Kind == KindTree {
			visit := it.matcher.Visit(entryPath)
			if !visit.IsNonempty() {
				continue
			}
			sub, err := top.tree.SubTree(entry.Name)
			if err != nil {
				it.err = wrapErr("walk entries", entryPath, err)
				it.stack = nil
				return RepoPath{}, TreeValue{}, false
			}
			it.stack = append(it.stack, entriesFrame{tree: sub})
			continue
		}

		if !it.matcher.Matches(entryPath) {
			continue
		}
		return entryPath, entry.Value, true
	}
	return RepoPath{}, TreeValue{}, false
}

// Err returns the error that stopped the walk, if any.
func (it *TreeEntriesIterator) Err() error { return it.err }
