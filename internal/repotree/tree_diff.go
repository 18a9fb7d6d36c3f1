package repotree

// PathDiff is one changed leaf value, with the full path from the root of
// the diff rather than just a basename.
type PathDiff struct {
	Path RepoPath
	Diff Diff[TreeValue]
}

// TreeDiffIterator walks two trees in parallel and yields, for every path
// whose leaf value changed, a PathDiff. Tree-to-tree entries are descended
// into rather than yielded directly, matching ordinary directory-diff
// semantics. The walk is computed eagerly into a buffered queue rather than
// pulled lazily subtree-by-subtree: a Tree snapshot is already a cheap,
// fully-owned value (see Tree), so there is no lifetime pressure pushing
// toward a lazy, self-referential walk the way there would be over
// borrowed data.
type TreeDiffIterator struct {
	items []PathDiff
	pos   int
}

// NewTreeDiff computes the diff between before and after, pruned by
// matcher, and returns an iterator over the results in a well-defined
// order: when a directory is replaced by a non-directory value, every
// removal nested under the old directory is yielded before the replacing
// leaf's own Added event; when a non-directory value is replaced by a
// directory, the leaf's Removed event is yielded first, followed by the
// additions under the new directory. Either way a consumer replaying the
// diff never sees the replacement appear underneath wreckage it hasn't
// cleared yet.
func NewTreeDiff(before, after *Tree, matcher Matcher) (*TreeDiffIterator, error) {
	var items []PathDiff
	if err := diffInto(&items, RootPath(), before, after, matcher); err != nil {
		return nil, err
	}
	return &TreeDiffIterator{items: items}, nil
}

// Next returns the next PathDiff in order, or ok=false once exhausted.
func (it *TreeDiffIterator) Next() (PathDiff, bool) {
	if it.pos >= len(it.items) {
		return PathDiff{}, false
	}
	d := it.items[it.pos]
	it.pos++
	return d, true
}

// Summary collects the iterator's not-yet-returned items into coarse
// add/remove/modify path buckets, without advancing the iterator. It is
// most useful called right after NewTreeDiff.
func (it *TreeDiffIterator) Summary() DiffSummary {
	var s DiffSummary
	for _, item := range it.items[it.pos:] {
		switch {
		case item.Diff.IsAdded():
			s.Added = append(s.Added, item.Path)
		case item.Diff.IsRemoved():
			s.Removed = append(s.Removed, item.Path)
		default:
			s.Modified = append(s.Modified, item.Path)
		}
	}
	return s
}

func entriesOf(t *Tree) []Entry {
	if t == nil {
		return nil
	}
	return t.Entries()
}

func loadSubtree(t *Tree, path RepoPath, v TreeValue) (*Tree, error) {
	if t == nil || v.Kind != KindTree {
		return nil, nil
	}
	return NewTree(t.store, path, v.TreeID)
}

// diffInto walks beforeTree and afterTree (either may be nil, meaning
// empty) at dir, appending PathDiffs to *out in emission order. The
// per-name pairing itself is delegated to entryDiffPairs, the same
// single-directory primitive MergeTrees drives its merge loop from.
func diffInto(out *[]PathDiff, dir RepoPath, beforeTree, afterTree *Tree, matcher Matcher) error {
	if !matcher.Visit(dir).IsNonempty() {
		return nil
	}

	for _, nd := range entryDiffPairs(entriesOf(beforeTree), entriesOf(afterTree)) {
		entryPath := dir.Join(nd.Name)
		if err := diffEntry(out, entryPath, beforeTree, nd.Diff.Before, afterTree, nd.Diff.After, matcher); err != nil {
			return err
		}
	}
	return nil
}

// diffEntry handles a single name present on at least one side, including
// the directory-vs-non-directory replacement cases that require ordering
// nested removals/additions relative to the replacing leaf event.
func diffEntry(out *[]PathDiff, path RepoPath, beforeTree *Tree, beforeVal *TreeValue, afterTree *Tree, afterVal *TreeValue, matcher Matcher) error {
	beforeIsTree := beforeVal != nil && beforeVal.Kind == KindTree
	afterIsTree := afterVal != nil && afterVal.Kind == KindTree

	switch {
	case beforeIsTree && afterIsTree:
		if beforeVal.Equal(*afterVal) {
			return nil
		}
		beforeSub, err := loadSubtree(beforeTree, path, *beforeVal)
		if err != nil {
			return wrapErr("diff tree", path, err)
		}
		afterSub, err := loadSubtree(afterTree, path, *afterVal)
		if err != nil {
			return wrapErr("diff tree", path, err)
		}
		return diffInto(out, path, beforeSub, afterSub, matcher)

	case beforeIsTree && !afterIsTree:
		// Directory replaced by a leaf (or removed outright): every nested
		// change under the old directory must be yielded first.
		beforeSub, err := loadSubtree(beforeTree, path, *beforeVal)
		if err != nil {
			return wrapErr("diff tree", path, err)
		}
		if err := diffInto(out, path, beforeSub, nil, matcher); err != nil {
			return err
		}
		if afterVal != nil && matcher.Matches(path) {
			*out = append(*out, PathDiff{Path: path, Diff: Diff[TreeValue]{After: afterVal}})
		}
		return nil

	case !beforeIsTree && afterIsTree:
		// Leaf replaced by a directory: emit the leaf's removal first, then
		// everything added under the new directory.
		if beforeVal != nil && matcher.Matches(path) {
			*out = append(*out, PathDiff{Path: path, Diff: Diff[TreeValue]{Before: beforeVal}})
		}
		afterSub, err := loadSubtree(afterTree, path, *afterVal)
		if err != nil {
			return wrapErr("diff tree", path, err)
		}
		return diffInto(out, path, nil, afterSub, matcher)

	default:
		if beforeVal != nil && afterVal != nil && beforeVal.Equal(*afterVal) {
			return nil
		}
		if !matcher.Matches(path) {
			return nil
		}
		*out = append(*out, PathDiff{Path: path, Diff: Diff[TreeValue]{Before: beforeVal, After: afterVal}})
		return nil
	}
}
