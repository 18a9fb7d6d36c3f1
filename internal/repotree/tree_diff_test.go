package repotree

import "testing"

func TestTreeDiffSimpleFileChange(t *testing.T) {
	store := newFakeStore()
	fileA := store.putFile("a\n")
	fileA2 := store.putFile("a2\n")
	fileB := store.putFile("b\n")

	before := treeAt(t, store,
		Entry{Name: "a.txt", Value: NewFileValue(fileA, false)},
		Entry{Name: "b.txt", Value: NewFileValue(fileB, false)},
	)
	after := treeAt(t, store,
		Entry{Name: "a.txt", Value: NewFileValue(fileA2, false)},
		Entry{Name: "b.txt", Value: NewFileValue(fileB, false)},
	)

	it, err := NewTreeDiff(before, after, everythingMatcher{})
	if err != nil {
		t.Fatalf("NewTreeDiff: %v", err)
	}
	d, ok := it.Next()
	if !ok {
		t.Fatal("expected one diff item")
	}
	if d.Path.String() != "a.txt" || !d.Diff.IsModified() {
		t.Fatalf("unexpected diff item: %+v", d)
	}
	if _, ok := it.Next(); ok {
		t.Fatal("expected exactly one diff item")
	}
}

func TestTreeDiffDirectoryReplacedByFileOrdering(t *testing.T) {
	store := newFakeStore()
	innerFile1 := store.putFile("one\n")
	innerFile2 := store.putFile("two\n")
	innerTreeID := store.putTree(
		Entry{Name: "x.txt", Value: NewFileValue(innerFile1, false)},
		Entry{Name: "y.txt", Value: NewFileValue(innerFile2, false)},
	)
	replacement := store.putFile("now a file\n")

	before := treeAt(t, store,
		Entry{Name: "sub", Value: NewTreeValueRef(innerTreeID)},
	)
	after := treeAt(t, store,
		Entry{Name: "sub", Value: NewFileValue(replacement, false)},
	)

	it, err := NewTreeDiff(before, after, everythingMatcher{})
	if err != nil {
		t.Fatalf("NewTreeDiff: %v", err)
	}

	var got []PathDiff
	for {
		d, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, d)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 diff items, got %d: %+v", len(got), got)
	}
	// The two removals nested under the replaced directory must appear
	// before the replacing file's own Added event.
	for i := 0; i < 2; i++ {
		if !got[i].Diff.IsRemoved() {
			t.Fatalf("item %d: expected removal, got %+v", i, got[i])
		}
	}
	last := got[2]
	if last.Path.String() != "sub" || !last.Diff.IsAdded() {
		t.Fatalf("expected last item to be the Added replacement at 'sub', got %+v", last)
	}
}
