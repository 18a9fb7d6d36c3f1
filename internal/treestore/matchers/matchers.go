// Package matchers implements repotree.Matcher over plain path-prefix and
// glob rules, the filters a diff or merge operation uses to restrict which
// paths it considers.
package matchers

import (
	pathpkg "path"
	"strings"

	"github.com/steveyegge/treestore/internal/repotree"
)

// Everything matches every path unconditionally.
type Everything struct{}

func (Everything) Visit(repotree.RepoPath) repotree.VisitSet { return repotree.VisitAll }
func (Everything) Matches(repotree.RepoPath) bool            { return true }

// Nothing matches no path at all, useful as a zero-value placeholder.
type Nothing struct{}

func (Nothing) Visit(repotree.RepoPath) repotree.VisitSet { return repotree.VisitNothing }
func (Nothing) Matches(repotree.RepoPath) bool            { return false }

// PrefixSet matches any path that falls under one of a fixed set of
// directory prefixes (or equals one exactly). An empty PrefixSet matches
// nothing.
type PrefixSet struct {
	prefixes []string
}

// NewPrefixSet builds a PrefixSet from a list of slash-separated directory
// paths (the root is "").
func NewPrefixSet(prefixes ...string) *PrefixSet {
	return &PrefixSet{prefixes: append([]string(nil), prefixes...)}
}

func (m *PrefixSet) Matches(p repotree.RepoPath) bool {
	s := p.String()
	for _, prefix := range m.prefixes {
		if prefix == "" || s == prefix || strings.HasPrefix(s, prefix+"/") {
			return true
		}
	}
	return false
}

func (m *PrefixSet) Visit(dir repotree.RepoPath) repotree.VisitSet {
	s := dir.String()
	for _, prefix := range m.prefixes {
		switch {
		case prefix == "" || s == prefix || strings.HasPrefix(s, prefix+"/"):
			return repotree.VisitAll
		case strings.HasPrefix(prefix, s) && (s == "" || strings.HasPrefix(prefix, s+"/")):
			// dir is an ancestor of prefix: some descendant may still match.
			return repotree.VisitSome
		}
	}
	return repotree.VisitNothing
}

// Glob matches paths whose basename satisfies a shell glob pattern
// (as interpreted by path.Match), regardless of directory.
type Glob struct {
	pattern string
}

func NewGlob(pattern string) *Glob { return &Glob{pattern: pattern} }

func (g *Glob) Matches(p repotree.RepoPath) bool {
	components := p.Components()
	if len(components) == 0 {
		return false
	}
	basename := components[len(components)-1]
	ok, err := pathpkg.Match(g.pattern, basename)
	return err == nil && ok
}

// Visit always reports VisitSome for a Glob: a basename pattern can't be
// pruned by directory alone without inspecting every descendant.
func (g *Glob) Visit(repotree.RepoPath) repotree.VisitSet { return repotree.VisitSome }
