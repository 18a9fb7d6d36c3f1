package repotree

import (
	"github.com/steveyegge/treestore/internal/filemerge"
	"github.com/steveyegge/treestore/internal/objid"
)

// MergeTrees performs a recursive three-way merge of side1 and side2
// against base, pruned by matcher, writing any newly merged subdirectories
// through store and returning the id of the resulting tree. Paths where
// the merge can't resolve to a single value are written as Conflict
// values instead of failing the whole merge.
//
// The per-name loop is driven off the base/side2 diff rather than a
// three-way union of all names: starting from a clone of side1's entries,
// a name only needs attention when base and side2 disagree about it, and
// genuine conflict construction only kicks in when side1 also disagrees
// with both (a name where side1 matches base or side2 is a clean pick,
// not a conflict).
func MergeTrees(store Store, base, side1, side2 *Tree, matcher Matcher) (*Tree, error) {
	dir := mergeDir(base, side1, side2)
	if sameID(base, side1) {
		return loadOrEmpty(store, dir, side2)
	}
	if sameID(base, side2) {
		return loadOrEmpty(store, dir, side1)
	}
	if sameID(side1, side2) {
		return loadOrEmpty(store, dir, side1)
	}

	result := NewEntryTable(entriesOf(side1))

	for _, nd := range entryDiffPairs(entriesOf(base), entriesOf(side2)) {
		name := nd.Name
		path := dir.Join(name)
		if !matcher.Matches(path) && !matcher.Visit(path).IsNonempty() {
			// Outside the matcher's scope entirely: leave side1's value
			// (already in result) untouched, mirroring an ordinary partial
			// merge.
			continue
		}

		baseVal, side2Val := nd.Diff.Before, nd.Diff.After
		side1Val := valueOrNil(side1, name)

		switch {
		case equalValuePtr(side1Val, baseVal):
			// side1 left this name alone; side2's change wins outright.
			setOrRemove(result, name, side2Val)
		case equalValuePtr(side1Val, side2Val):
			// side1 already agrees with side2; nothing to change.
		default:
			merged, err := mergeEntry(store, path, baseVal, side1Val, side2Val, matcher)
			if err != nil {
				return nil, err
			}
			setOrRemove(result, name, merged)
		}
	}

	id, err := store.WriteTree(dir, result)
	if err != nil {
		return nil, wrapErr("write merged tree", dir, err)
	}
	return NewTree(store, dir, id)
}

func setOrRemove(t *EntryTable, name string, v *TreeValue) {
	if v != nil {
		t.Set(name, *v)
	} else {
		t.Remove(name)
	}
}

func mergeDir(trees ...*Tree) RepoPath {
	for _, t := range trees {
		if t != nil {
			return t.Dir()
		}
	}
	return RootPath()
}

func sameID(a, b *Tree) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Id().Equal(b.Id())
}

func loadOrEmpty(store Store, dir RepoPath, t *Tree) (*Tree, error) {
	if t == nil {
		return Empty(store, dir)
	}
	return NewTree(store, dir, t.Id())
}

func valueOf(t *Tree, name string) (TreeValue, bool) {
	if t == nil {
		return TreeValue{}, false
	}
	return t.Value(name)
}

func valueOrNil(t *Tree, name string) *TreeValue {
	if v, ok := valueOf(t, name); ok {
		return &v
	}
	return nil
}

// equalValuePtr compares two optional TreeValues, treating "both absent" as
// equal and "one absent, one present" as unequal.
func equalValuePtr(a, b *TreeValue) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// mergeEntry resolves a single name where side1 disagrees with both base
// and side2. It returns a nil value when the name should be absent from
// the result.
func mergeEntry(store Store, path RepoPath, base, v1, v2 *TreeValue, matcher Matcher) (*TreeValue, error) {
	if v1 == nil && v2 == nil {
		return nil, nil
	}

	if isTreeOrAbsent(base) && isTreeOrAbsent(v1) && isTreeOrAbsent(v2) && (isTree(v1) || isTree(v2)) {
		baseSub, err := loadOptionalSubtree(store, path, base)
		if err != nil {
			return nil, err
		}
		side1Sub, err := loadOptionalSubtree(store, path, v1)
		if err != nil {
			return nil, err
		}
		side2Sub, err := loadOptionalSubtree(store, path, v2)
		if err != nil {
			return nil, err
		}
		merged, err := MergeTrees(store, baseSub, side1Sub, side2Sub, matcher)
		if err != nil {
			return nil, err
		}
		if merged.IsEmpty() {
			return nil, nil
		}
		v := NewTreeValueRef(merged.Id())
		return &v, nil
	}

	conflict, err := SimplifyConflict(store, Conflict{
		Removes: presentTerms(base),
		Adds:    presentTerms(v1, v2),
	})
	if err != nil {
		return nil, err
	}
	if len(conflict.Adds) == 0 {
		return nil, nil
	}
	if conflict.IsResolved() {
		return conflict.Adds[0].Value, nil
	}

	resolved, err := tryResolveFileConflict(store, path, conflict)
	if err != nil {
		return nil, err
	}
	if resolved != nil {
		return resolved, nil
	}

	id, err := store.WriteConflict(conflict)
	if err != nil {
		return nil, wrapErr("write conflict", path, err)
	}
	v := NewConflictValue(id)
	return &v, nil
}

// presentTerms builds the ConflictTerm list for vals, skipping any side
// that is absent rather than wrapping it as an explicit absent term: a
// conflict only ever records the sides that actually held a value.
func presentTerms(vals ...*TreeValue) []ConflictTerm {
	var terms []ConflictTerm
	for _, v := range vals {
		if v != nil {
			terms = append(terms, presentTerm(*v))
		}
	}
	return terms
}

func isTree(v *TreeValue) bool { return v != nil && v.Kind == KindTree }

func isTreeOrAbsent(v *TreeValue) bool { return v == nil || v.Kind == KindTree }

func loadOptionalSubtree(store Store, path RepoPath, v *TreeValue) (*Tree, error) {
	if v == nil {
		return nil, nil
	}
	if v.Kind != KindTree {
		return nil, nil
	}
	return NewTree(store, path, v.TreeID)
}

// tryResolveFileConflict attempts a textual merge of an already-simplified
// conflict: it succeeds only when every term is a file, the adds outnumber
// the removes by exactly one, and the executable bit has an unambiguous
// winner (the side whose delta from the removed terms is net positive and
// whose opposite delta is net non-positive).
//
// Content merging itself only handles the canonical one-removed/two-added
// shape, mapping directly onto filemerge's strict three-way merge; a
// conflict with more terms than that (nested conflicts that didn't fully
// cancel) is left unresolved here, since filemerge.Merge takes exactly one
// base and two sides.
func tryResolveFileConflict(store Store, path RepoPath, conflict Conflict) (*TreeValue, error) {
	if len(conflict.Adds) != len(conflict.Removes)+1 {
		return nil, nil
	}

	removedFiles := make([]objid.FileId, 0, len(conflict.Removes))
	addedFiles := make([]objid.FileId, 0, len(conflict.Adds))
	var execDelta, regularDelta int

	for _, t := range conflict.Removes {
		if t.Value == nil || !t.Value.IsFile() {
			return nil, nil
		}
		removedFiles = append(removedFiles, t.Value.FileID)
		if t.Value.Executable {
			execDelta--
		} else {
			regularDelta--
		}
	}
	for _, t := range conflict.Adds {
		if t.Value == nil || !t.Value.IsFile() {
			return nil, nil
		}
		addedFiles = append(addedFiles, t.Value.FileID)
		if t.Value.Executable {
			execDelta++
		} else {
			regularDelta++
		}
	}

	var executable bool
	switch {
	case execDelta > 0 && regularDelta <= 0:
		executable = true
	case regularDelta > 0 && execDelta <= 0:
		executable = false
	default:
		return nil, nil
	}

	if len(removedFiles) != 1 || len(addedFiles) != 2 {
		return nil, nil
	}

	baseContent, err := readAll(store, path, removedFiles[0])
	if err != nil {
		return nil, err
	}
	content1, err := readAll(store, path, addedFiles[0])
	if err != nil {
		return nil, err
	}
	content2, err := readAll(store, path, addedFiles[1])
	if err != nil {
		return nil, err
	}

	result := filemerge.Merge(baseContent, content1, content2)
	if !result.Resolved {
		return nil, nil
	}

	id, err := store.WriteFile(path, byteReader(result.Content))
	if err != nil {
		return nil, wrapErr("write merged file", path, err)
	}

	v := NewFileValue(id, executable)
	return &v, nil
}
