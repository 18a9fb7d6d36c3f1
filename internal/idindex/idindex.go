// Package idindex implements IdIndex, a sorted key/value table over
// content-addressed identifiers supporting prefix lookup and
// shortest-unique-prefix queries.
package idindex

import (
	"sort"

	"github.com/steveyegge/treestore/internal/objid"
)

// Key is the constraint satisfied by identifier types usable as an
// IdIndex key: they must be byte-lexicographically orderable and expose a
// hex view for prefix matching.
type Key[K any] interface {
	objid.Identifier
	Compare(other K) int
}

// Pair is a single (key, value) entry, used both to build an IdIndex and
// to report a range of matches back to the caller.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// IdIndex is a vector of (K,V) pairs kept sorted by K. Duplicate K values
// are permitted and group together; values are retrieved in the order
// they were stored within a key group.
type IdIndex[K Key[K], V any] struct {
	entries []Pair[K, V]
}

// FromVec builds a new IdIndex from pairs, sorting them stably by key.
// Multiple values may be associated with a single key.
func FromVec[K Key[K], V any](pairs []Pair[K, V]) *IdIndex[K, V] {
	entries := make([]Pair[K, V], len(pairs))
	copy(entries, pairs)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Key.Compare(entries[j].Key) < 0
	})
	return &IdIndex[K, V]{entries: entries}
}

// Len returns the number of (key, value) pairs in the index.
func (idx *IdIndex[K, V]) Len() int { return len(idx.entries) }

// ResolvePrefixRange returns the (key, value) pairs whose key hex starts
// with prefix, in key order.
func (idx *IdIndex[K, V]) ResolvePrefixRange(prefix objid.HexPrefix) []Pair[K, V] {
	minBytes := prefix.MinPrefixBytes()
	pos := sort.Search(len(idx.entries), func(i int) bool {
		return objid.ID(idx.entries[i].Key.Bytes()).Compare(objid.ID(minBytes)) >= 0
	})
	// With an odd-length prefix, keys sharing the even-length leading bytes
	// but carrying a smaller next nibble sort before the first match.
	for pos < len(idx.entries) && idx.entries[pos].Key.Hex() < prefix.String() {
		pos++
	}
	var out []Pair[K, V]
	for _, e := range idx.entries[pos:] {
		if !prefix.Matches(e.Key) {
			break
		}
		out = append(out, e)
	}
	return out
}

// ResolvePrefixWith looks up entries with the given prefix and collects
// mapped values if the matched entries have an unambiguous key. An empty
// prefix is always treated as ambiguous, even over a single-entry index.
func ResolvePrefixWith[K Key[K], V, U any](idx *IdIndex[K, V], prefix objid.HexPrefix, mapValue func(V) U) objid.PrefixResolution[[]U] {
	if prefix.IsEmpty() {
		return objid.NewAmbiguousMatch[[]U]()
	}
	rng := idx.ResolvePrefixRange(prefix)
	if len(rng) == 0 {
		return objid.NewNoMatch[[]U]()
	}
	firstKey := rng[0].Key
	values := make([]U, 0, len(rng))
	for _, e := range rng {
		if firstKey.Compare(e.Key) != 0 {
			return objid.NewAmbiguousMatch[[]U]()
		}
		values = append(values, mapValue(e.Value))
	}
	return objid.NewSingleMatch(values)
}

// ResolvePrefix is ResolvePrefixWith specialized to an identity mapping.
func (idx *IdIndex[K, V]) ResolvePrefix(prefix objid.HexPrefix) objid.PrefixResolution[[]V] {
	return ResolvePrefixWith(idx, prefix, func(v V) V { return v })
}

// HasKey reports whether key appears in the index.
func (idx *IdIndex[K, V]) HasKey(key K) bool {
	pos := sort.Search(len(idx.entries), func(i int) bool {
		return idx.entries[i].Key.Compare(key) >= 0
	})
	return pos < len(idx.entries) && idx.entries[pos].Key.Compare(key) == 0
}

// ShortestUniquePrefixLen returns the minimum number of hex digits of key
// needed to distinguish it from every other distinct key in the index.
//
// The algorithm locates key's insertion point and examines its two
// neighbors in key order (the nearest strictly-smaller key on the left,
// the nearest strictly-greater key on the right — any keys equal to key
// itself are skipped on both sides). The answer is one more than the
// longest common hex prefix shared with either neighbor. With no
// neighbors at all, the answer is 1.
//
// This works even when key is absent from the index. If a stored key has
// key as a proper prefix, the stored key's own shortest-unique-prefix
// becomes len(key)+1; this degenerate case is accepted, not special-cased.
func (idx *IdIndex[K, V]) ShortestUniquePrefixLen(key K) int {
	pos := sort.Search(len(idx.entries), func(i int) bool {
		return idx.entries[i].Key.Compare(key) >= 0
	})

	best := 0
	if pos > 0 {
		left := idx.entries[pos-1].Key
		if n := commonHexLen(key, left); n+1 > best {
			best = n + 1
		}
	}
	for i := pos; i < len(idx.entries); i++ {
		right := idx.entries[i].Key
		if right.Compare(key) != 0 {
			if n := commonHexLen(key, right); n+1 > best {
				best = n + 1
			}
			break
		}
	}
	if best == 0 {
		// No distinguishing neighbor at all: a single hex digit suffices.
		return 1
	}
	return best
}

// commonHexLen returns the length, in hex digits, of the longest common
// prefix of a's and b's hex representations.
func commonHexLen[K objid.Identifier](a, b K) int {
	ah, bh := a.Hex(), b.Hex()
	n := len(ah)
	if len(bh) < n {
		n = len(bh)
	}
	i := 0
	for i < n && ah[i] == bh[i] {
		i++
	}
	return i
}
