package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/steveyegge/treestore/internal/objid"
	"github.com/steveyegge/treestore/internal/repotree"
)

// buildTree constructs a tree from a flat set of "dir/file" -> content
// pairs, writing each file and every intermediate directory bottom-up.
// It is the CLI's stand-in for a real working copy, letting `diff` and
// `merge` be exercised from plain command-line arguments.
func buildTree(store repotree.Store, files map[string]string) (*repotree.Tree, error) {
	children := map[string][]string{}
	isDir := map[string]bool{"": true}

	addChild := func(parent, name string) {
		for _, existing := range children[parent] {
			if existing == name {
				return
			}
		}
		children[parent] = append(children[parent], name)
	}
	parentOf := func(path string) string {
		idx := strings.LastIndex(path, "/")
		if idx < 0 {
			return ""
		}
		return path[:idx]
	}
	baseOf := func(path string) string {
		idx := strings.LastIndex(path, "/")
		if idx < 0 {
			return path
		}
		return path[idx+1:]
	}

	for path := range files {
		dir := parentOf(path)
		for d := dir; ; d = parentOf(d) {
			isDir[d] = true
			if d == "" {
				break
			}
		}
		for d := dir; d != ""; d = parentOf(d) {
			addChild(parentOf(d), baseOf(d))
		}
		addChild(dir, baseOf(path))
	}

	var writeDir func(path string) (objid.TreeId, error)
	writeDir = func(path string) (objid.TreeId, error) {
		names := append([]string(nil), children[path]...)
		sort.Strings(names)
		var entries []repotree.Entry
		for _, name := range names {
			full := name
			if path != "" {
				full = path + "/" + name
			}
			if isDir[full] {
				id, err := writeDir(full)
				if err != nil {
					return objid.TreeId{}, err
				}
				entries = append(entries, repotree.Entry{Name: name, Value: repotree.NewTreeValueRef(id)})
				continue
			}
			content, ok := files[full]
			if !ok {
				return objid.TreeId{}, fmt.Errorf("no content recorded for %s", full)
			}
			id, err := store.WriteFile(repotree.RootPath(), strings.NewReader(content))
			if err != nil {
				return objid.TreeId{}, fmt.Errorf("write file %s: %w", full, err)
			}
			entries = append(entries, repotree.Entry{Name: name, Value: repotree.NewFileValue(id, false)})
		}
		return store.WriteTree(repotree.RootPath(), repotree.NewEntryTable(entries))
	}

	rootID, err := writeDir("")
	if err != nil {
		return nil, err
	}
	return repotree.NewTree(store, repotree.RootPath(), rootID)
}

// parseFileArgs parses "path=content" command-line arguments into a map.
func parseFileArgs(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, a := range args {
		idx := strings.Index(a, "=")
		if idx < 0 {
			return nil, fmt.Errorf("expected path=content, got %q", a)
		}
		out[a[:idx]] = a[idx+1:]
	}
	return out, nil
}
