package repotree

import (
	"testing"
)

func treeAt(t *testing.T, store *fakeStore, entries ...Entry) *Tree {
	t.Helper()
	treeID := store.putTree(entries...)
	tr, err := NewTree(store, RootPath(), treeID)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	return tr
}

func TestMergeTreesOneSidedChange(t *testing.T) {
	store := newFakeStore()
	fileBase := store.putFile("hello\n")
	fileSide2 := store.putFile("hello world\n")

	base := treeAt(t, store, Entry{Name: "a.txt", Value: NewFileValue(fileBase, false)})
	side1 := treeAt(t, store, Entry{Name: "a.txt", Value: NewFileValue(fileBase, false)})
	side2 := treeAt(t, store, Entry{Name: "a.txt", Value: NewFileValue(fileSide2, false)})

	merged, err := MergeTrees(store, base, side1, side2, everythingMatcher{})
	if err != nil {
		t.Fatalf("MergeTrees: %v", err)
	}
	v, ok := merged.Value("a.txt")
	if !ok || v.Kind != KindFile || !v.FileID.Equal(fileSide2) {
		t.Fatalf("expected a.txt to resolve to side2's content, got %+v ok=%v", v, ok)
	}
}

func TestMergeTreesNonOverlappingContentMerge(t *testing.T) {
	store := newFakeStore()
	fileBase := store.putFile("one\ntwo\nthree\nfour\nfive\n")
	file1 := store.putFile("ONE\ntwo\nthree\nfour\nfive\n")
	file2 := store.putFile("one\ntwo\nthree\nfour\nFIVE\n")

	base := treeAt(t, store, Entry{Name: "a.txt", Value: NewFileValue(fileBase, false)})
	side1 := treeAt(t, store, Entry{Name: "a.txt", Value: NewFileValue(file1, false)})
	side2 := treeAt(t, store, Entry{Name: "a.txt", Value: NewFileValue(file2, false)})

	merged, err := MergeTrees(store, base, side1, side2, everythingMatcher{})
	if err != nil {
		t.Fatalf("MergeTrees: %v", err)
	}
	v, ok := merged.Value("a.txt")
	if !ok || v.Kind != KindFile {
		t.Fatalf("expected a.txt to resolve to a merged file, got %+v ok=%v", v, ok)
	}
	content, err := readAll(store, RootPath(), v.FileID)
	if err != nil {
		t.Fatalf("readAll: %v", err)
	}
	want := "ONE\ntwo\nthree\nfour\nFIVE\n"
	if string(content) != want {
		t.Fatalf("merged content = %q, want %q", content, want)
	}
}

func TestMergeTreesOverlappingEditsProducesConflict(t *testing.T) {
	store := newFakeStore()
	fileBase := store.putFile("hello\n")
	file1 := store.putFile("hello-A\n")
	file2 := store.putFile("hello-B\n")

	base := treeAt(t, store, Entry{Name: "a.txt", Value: NewFileValue(fileBase, false)})
	side1 := treeAt(t, store, Entry{Name: "a.txt", Value: NewFileValue(file1, false)})
	side2 := treeAt(t, store, Entry{Name: "a.txt", Value: NewFileValue(file2, false)})

	merged, err := MergeTrees(store, base, side1, side2, everythingMatcher{})
	if err != nil {
		t.Fatalf("MergeTrees: %v", err)
	}
	v, ok := merged.Value("a.txt")
	if !ok || v.Kind != KindConflict {
		t.Fatalf("expected a.txt to be a conflict, got %+v ok=%v", v, ok)
	}
	conflict, err := store.ReadConflict(v.ConflictID)
	if err != nil {
		t.Fatalf("ReadConflict: %v", err)
	}
	if len(conflict.Adds) != 2 || len(conflict.Removes) != 1 {
		t.Fatalf("expected 2 adds / 1 remove, got %+v", conflict)
	}
}

func TestMergeEntryModifyDeleteKeepsNoAbsentTerm(t *testing.T) {
	store := newFakeStore()
	fileA := store.putFile("A\n")
	fileB := store.putFile("B\n")

	baseVal := NewFileValue(fileA, false)
	side1Val := NewFileValue(fileB, false)

	merged, err := mergeEntry(store, RootPath().Join("a.txt"), &baseVal, &side1Val, nil, everythingMatcher{})
	if err != nil {
		t.Fatalf("mergeEntry: %v", err)
	}
	if merged == nil || merged.Kind != KindConflict {
		t.Fatalf("expected a conflict value, got %+v", merged)
	}
	conflict, err := store.ReadConflict(merged.ConflictID)
	if err != nil {
		t.Fatalf("ReadConflict: %v", err)
	}
	if len(conflict.Removes) != 1 || len(conflict.Adds) != 1 {
		t.Fatalf("expected exactly one remove and one add with no spurious absent term, got %+v", conflict)
	}
	if !conflict.Removes[0].Value.Equal(baseVal) || !conflict.Adds[0].Value.Equal(side1Val) {
		t.Fatalf("unexpected conflict terms: %+v", conflict)
	}
}

func TestMergeEntryEmptyAddsResolvesToAbsence(t *testing.T) {
	store := newFakeStore()
	fileX := store.putFile("X\n")
	fileY := store.putFile("Y\n")
	valX := NewFileValue(fileX, false)
	valY := NewFileValue(fileY, false)

	nested1 := Conflict{
		Removes: []ConflictTerm{presentTerm(valX)},
		Adds:    []ConflictTerm{presentTerm(valY)},
	}
	nested1ID, err := store.WriteConflict(nested1)
	if err != nil {
		t.Fatalf("WriteConflict nested1: %v", err)
	}
	nested2 := Conflict{
		Removes: []ConflictTerm{presentTerm(valY)},
		Adds:    []ConflictTerm{presentTerm(valX)},
	}
	nested2ID, err := store.WriteConflict(nested2)
	if err != nil {
		t.Fatalf("WriteConflict nested2: %v", err)
	}

	side1Val := NewConflictValue(nested1ID)
	side2Val := NewConflictValue(nested2ID)

	merged, err := mergeEntry(store, RootPath().Join("a.txt"), &valX, &side1Val, &side2Val, everythingMatcher{})
	if err != nil {
		t.Fatalf("mergeEntry: %v", err)
	}
	if merged != nil {
		t.Fatalf("expected an empty-adds conflict to resolve to absence, got %+v", merged)
	}
}

func TestMergeEntryResolvesContentMergeFromConflictValuedSide(t *testing.T) {
	store := newFakeStore()
	fileBase := store.putFile("one\ntwo\nthree\nfour\nfive\n")
	file1 := store.putFile("ONE\ntwo\nthree\nfour\nfive\n")
	file2 := store.putFile("one\ntwo\nthree\nfour\nFIVE\n")

	nested := Conflict{Adds: []ConflictTerm{presentTerm(NewFileValue(file1, false))}}
	nestedID, err := store.WriteConflict(nested)
	if err != nil {
		t.Fatalf("WriteConflict: %v", err)
	}

	baseVal := NewFileValue(fileBase, false)
	side1Val := NewConflictValue(nestedID)
	side2Val := NewFileValue(file2, false)

	merged, err := mergeEntry(store, RootPath().Join("a.txt"), &baseVal, &side1Val, &side2Val, everythingMatcher{})
	if err != nil {
		t.Fatalf("mergeEntry: %v", err)
	}
	if merged == nil || merged.Kind != KindFile {
		t.Fatalf("expected a resolved file value, got %+v", merged)
	}
	content, err := readAll(store, RootPath(), merged.FileID)
	if err != nil {
		t.Fatalf("readAll: %v", err)
	}
	want := "ONE\ntwo\nthree\nfour\nFIVE\n"
	if string(content) != want {
		t.Fatalf("merged content = %q, want %q", content, want)
	}
}

func TestSimplifyConflictCancelsRebasedPair(t *testing.T) {
	store := newFakeStore()
	fileA := store.putFile("A\n")
	fileB := store.putFile("B\n")
	fileC := store.putFile("C\n")

	valA := NewFileValue(fileA, false)
	valB := NewFileValue(fileB, false)
	valC := NewFileValue(fileC, false)

	nested := Conflict{
		Removes: []ConflictTerm{presentTerm(valA)},
		Adds:    []ConflictTerm{presentTerm(valB), presentTerm(valC)},
	}
	nestedID, err := store.WriteConflict(nested)
	if err != nil {
		t.Fatalf("WriteConflict: %v", err)
	}

	outer := Conflict{
		Removes: []ConflictTerm{presentTerm(valB)},
		Adds:    []ConflictTerm{presentTerm(valA), presentTerm(NewConflictValue(nestedID))},
	}

	simplified, err := SimplifyConflict(store, outer)
	if err != nil {
		t.Fatalf("simplifyConflict: %v", err)
	}
	if !simplified.IsResolved() {
		t.Fatalf("expected fully resolved conflict, got %+v", simplified)
	}
	if !simplified.Adds[0].Value.Equal(valC) {
		t.Fatalf("expected resolution to be C, got %+v", simplified.Adds[0].Value)
	}
}
