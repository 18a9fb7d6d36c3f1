package main

import (
	"fmt"

	"github.com/steveyegge/treestore/internal/repotree"
	"github.com/steveyegge/treestore/internal/treestore/boltstore"
	"github.com/steveyegge/treestore/internal/treestore/memstore"
)

func openStore() (repotree.Store, func(), error) {
	switch storeFlag {
	case "", "memory":
		return memstore.New(), func() {}, nil
	case "bolt":
		s, err := boltstore.Open(dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open bolt store at %s: %w", dbPath, err)
		}
		return s, func() { s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q (want memory or bolt)", storeFlag)
	}
}
