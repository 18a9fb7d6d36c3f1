package repotree

import "github.com/steveyegge/treestore/internal/objid"

// ValueKind discriminates the variants of TreeValue.
type ValueKind int

const (
	KindFile ValueKind = iota
	KindSymlink
	KindTree
	KindGitSubmodule
	KindConflict
)

func (k ValueKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindSymlink:
		return "symlink"
	case KindTree:
		return "tree"
	case KindGitSubmodule:
		return "git-submodule"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// TreeValue is the value a tree entry may hold. Go has no sum types, so the
// variants are distinguished by Kind and only the fields relevant to that
// kind are populated; the constructors below are the only supported way to
// build one.
type TreeValue struct {
	Kind ValueKind

	FileID     objid.FileId // KindFile, KindSymlink (target content blob)
	Executable bool         // KindFile only

	TreeID objid.TreeId // KindTree

	SubmoduleID objid.CommitId // KindGitSubmodule

	ConflictID objid.ConflictId // KindConflict
}

func NewFileValue(id objid.FileId, executable bool) TreeValue {
	return TreeValue{Kind: KindFile, FileID: id, Executable: executable}
}

func NewSymlinkValue(id objid.FileId) TreeValue {
	return TreeValue{Kind: KindSymlink, FileID: id}
}

func NewTreeValueRef(id objid.TreeId) TreeValue {
	return TreeValue{Kind: KindTree, TreeID: id}
}

func NewGitSubmoduleValue(id objid.CommitId) TreeValue {
	return TreeValue{Kind: KindGitSubmodule, SubmoduleID: id}
}

func NewConflictValue(id objid.ConflictId) TreeValue {
	return TreeValue{Kind: KindConflict, ConflictID: id}
}

// Equal reports whether v and other represent the same value: same kind and
// same identifying fields for that kind.
func (v TreeValue) Equal(other TreeValue) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindFile:
		return v.FileID.Equal(other.FileID) && v.Executable == other.Executable
	case KindSymlink:
		return v.FileID.Equal(other.FileID)
	case KindTree:
		return v.TreeID.Equal(other.TreeID)
	case KindGitSubmodule:
		return v.SubmoduleID.Equal(other.SubmoduleID)
	case KindConflict:
		return v.ConflictID.Equal(other.ConflictID)
	default:
		return false
	}
}

// IsFile reports whether v is a regular (non-conflicted) file value.
func (v TreeValue) IsFile() bool { return v.Kind == KindFile }

// ConflictTerm is one signed occurrence of a TreeValue inside a Conflict's
// add or remove multiset. A nil Value models an absent side (the path did
// not exist on that side of the merge).
type ConflictTerm struct {
	Value *TreeValue
}

func presentTerm(v TreeValue) ConflictTerm { return ConflictTerm{Value: &v} }
func absentTerm() ConflictTerm             { return ConflictTerm{} }

func (t ConflictTerm) isAbsent() bool { return t.Value == nil }

func (t ConflictTerm) equal(other ConflictTerm) bool {
	if t.isAbsent() != other.isAbsent() {
		return false
	}
	if t.isAbsent() {
		return true
	}
	return t.Value.Equal(*other.Value)
}

// Conflict is a signed multiset of TreeValue terms: the values added minus
// the values removed, relative to some resolved state. A 3-way merge where
// the sides disagree and neither side matches the base produces a conflict
// with the base as its Removes term and the sides as its Adds terms; a
// side (or base) on which the path is absent contributes no term, so a
// modify/delete conflict has one Removes and one Adds term.
type Conflict struct {
	Removes []ConflictTerm
	Adds    []ConflictTerm
}

// IsResolved reports whether the conflict has in fact reduced to a single
// added value and no removals, i.e. it isn't a conflict at all.
func (c Conflict) IsResolved() bool {
	return len(c.Removes) == 0 && len(c.Adds) == 1
}
