package idindex

import (
	"sort"
	"testing"

	"github.com/steveyegge/treestore/internal/objid"
)

func changeID(t *testing.T, hex string) objid.ChangeId {
	t.Helper()
	id, err := objid.ChangeIdFromHex(hex)
	if err != nil {
		t.Fatalf("ChangeIdFromHex(%q): %v", hex, err)
	}
	return id
}

func hexPrefix(t *testing.T, s string) objid.HexPrefix {
	t.Helper()
	p, ok := objid.NewHexPrefix(s)
	if !ok {
		t.Fatalf("NewHexPrefix(%q): invalid", s)
	}
	return p
}

func TestResolvePrefix(t *testing.T) {
	idx := FromVec([]Pair[objid.ChangeId, int]{
		{changeID(t, "0000"), 0},
		{changeID(t, "0099"), 1},
		{changeID(t, "0099"), 2},
		{changeID(t, "0aaa"), 3},
		{changeID(t, "0aab"), 4},
	})

	cases := []struct {
		prefix string
		kind   objid.PrefixResolution[[]int]
		want   []int // for SingleMatch, sorted before comparison
	}{
		{"0", objid.NewAmbiguousMatch[[]int](), nil},
		{"00", objid.NewAmbiguousMatch[[]int](), nil},
		{"000", objid.NewSingleMatch([]int{0}), []int{0}},
		{"0001", objid.NewNoMatch[[]int](), nil},
		{"009", objid.NewSingleMatch([]int{1, 2}), []int{1, 2}},
		{"0aa", objid.NewAmbiguousMatch[[]int](), nil},
		{"0aab", objid.NewSingleMatch([]int{4}), []int{4}},
		{"f", objid.NewNoMatch[[]int](), nil},
	}

	for _, tc := range cases {
		got := idx.ResolvePrefix(hexPrefix(t, tc.prefix))
		if got.Kind() != tc.kind.Kind() {
			t.Errorf("prefix %q: kind = %v, want %v", tc.prefix, got.Kind(), tc.kind.Kind())
			continue
		}
		if tc.kind.Kind() == objid.SingleMatch {
			values, _ := got.Value()
			sort.Ints(values)
			if !equalInts(values, tc.want) {
				t.Errorf("prefix %q: values = %v, want %v", tc.prefix, values, tc.want)
			}
		}
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestHasKeyEmptyIndex(t *testing.T) {
	idx := FromVec([]Pair[objid.ChangeId, struct{}]{})
	if idx.HasKey(changeID(t, "00")) {
		t.Errorf("expected empty index to have no keys")
	}
}

func TestHasKey(t *testing.T) {
	idx := FromVec([]Pair[objid.ChangeId, struct{}]{
		{changeID(t, "ab"), struct{}{}},
	})
	if idx.HasKey(changeID(t, "aa")) {
		t.Errorf("unexpected key aa")
	}
	if !idx.HasKey(changeID(t, "ab")) {
		t.Errorf("expected key ab")
	}
	if idx.HasKey(changeID(t, "ac")) {
		t.Errorf("unexpected key ac")
	}
}

func TestShortestUniquePrefixLenEmpty(t *testing.T) {
	idx := FromVec([]Pair[objid.ChangeId, struct{}]{})
	if got := idx.ShortestUniquePrefixLen(changeID(t, "00")); got != 1 {
		t.Errorf("ShortestUniquePrefixLen(empty) = %d, want 1", got)
	}
}

func TestShortestUniquePrefixLenDuplicateKey(t *testing.T) {
	idx := FromVec([]Pair[objid.ChangeId, struct{}]{
		{changeID(t, "ab"), struct{}{}},
		{changeID(t, "acd0"), struct{}{}},
		{changeID(t, "acd0"), struct{}{}}, // duplicated key is allowed
	})
	if got := idx.ShortestUniquePrefixLen(changeID(t, "acd0")); got != 2 {
		t.Errorf("len(acd0) = %d, want 2", got)
	}
	if got := idx.ShortestUniquePrefixLen(changeID(t, "ac")); got != 3 {
		t.Errorf("len(ac) = %d, want 3", got)
	}
}

func TestShortestUniquePrefixLen(t *testing.T) {
	idx := FromVec([]Pair[objid.ChangeId, struct{}]{
		{changeID(t, "ab"), struct{}{}},
		{changeID(t, "acd0"), struct{}{}},
		{changeID(t, "acf0"), struct{}{}},
		{changeID(t, "a0"), struct{}{}},
		{changeID(t, "ba"), struct{}{}},
	})

	cases := []struct {
		key  string
		want int
	}{
		{"a0", 2},
		{"ba", 1},
		{"ab", 2},
		{"acd0", 3},
		{"c0", 1}, // absent key: if it were present, length would be 1
	}
	for _, tc := range cases {
		if got := idx.ShortestUniquePrefixLen(changeID(t, tc.key)); got != tc.want {
			t.Errorf("len(%s) = %d, want %d", tc.key, got, tc.want)
		}
	}
}
