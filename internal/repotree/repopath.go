package repotree

import "strings"

// RepoPath is a slash-separated path relative to the root of a tree,
// always stored without a leading or trailing slash. The empty RepoPath
// denotes the root itself.
type RepoPath struct {
	path string
}

// RootPath returns the RepoPath denoting the root of the tree.
func RootPath() RepoPath { return RepoPath{} }

// NewRepoPath builds a RepoPath from a slash-separated string, which must
// not begin or end with '/'.
func NewRepoPath(s string) RepoPath { return RepoPath{path: s} }

// String returns the path's slash-separated text form ("" for the root).
func (p RepoPath) String() string { return p.path }

// IsRoot reports whether p is the root path.
func (p RepoPath) IsRoot() bool { return p.path == "" }

// Components splits the path into its basename components; the root
// path has zero components.
func (p RepoPath) Components() []string {
	if p.path == "" {
		return nil
	}
	return strings.Split(p.path, "/")
}

// Join appends basename name as a child of p.
func (p RepoPath) Join(name string) RepoPath {
	if p.path == "" {
		return RepoPath{path: name}
	}
	return RepoPath{path: p.path + "/" + name}
}

// Split returns p's parent directory and its final basename component.
// It returns ok=false for the root path, which has no basename.
func (p RepoPath) Split() (dir RepoPath, basename string, ok bool) {
	if p.path == "" {
		return RepoPath{}, "", false
	}
	idx := strings.LastIndexByte(p.path, '/')
	if idx < 0 {
		return RepoPath{}, p.path, true
	}
	return RepoPath{path: p.path[:idx]}, p.path[idx+1:], true
}

// Compare orders two RepoPaths by byte-lexicographic comparison of their
// slash-separated text. This is not component-wise order when a basename
// contains a character that sorts before '/', such as '-' or '.': "a.txt"
// sorts before "a/x" here.
func (p RepoPath) Compare(other RepoPath) int {
	return strings.Compare(p.path, other.path)
}

// Equal reports whether p and other denote the same path.
func (p RepoPath) Equal(other RepoPath) bool { return p.path == other.path }
