package repotree

import (
	"bytes"
	"io"

	"github.com/steveyegge/treestore/internal/objid"
)

// readAll fetches the full content of a file blob from store, wrapping any
// I/O error with the path it was read for.
func readAll(store Store, path RepoPath, id objid.FileId) ([]byte, error) {
	r, err := store.ReadFile(path, id)
	if err != nil {
		return nil, wrapErr("read file", path, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, wrapErr("read file", path, err)
	}
	return data, nil
}

// byteReader adapts a byte slice to an io.Reader for Store.WriteFile.
func byteReader(data []byte) io.Reader { return bytes.NewReader(data) }
