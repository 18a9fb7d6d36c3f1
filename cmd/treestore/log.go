package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/treestore/internal/repotree"
	"github.com/steveyegge/treestore/internal/treestore/matchers"
)

var logCmd = &cobra.Command{
	Use:   "log path=content...",
	Short: "Build a tree from path=content arguments and walk its entries",
	Long: `log builds a tree from flat path=content arguments and walks
every entry reachable under it, logging one structured line per entry
with a shared operation id.`,
	RunE: runLog,
}

var logGlob string

func init() {
	logCmd.Flags().StringVar(&logGlob, "glob", "", "restrict the walk to basenames matching this glob")
}

func runLog(cmd *cobra.Command, args []string) error {
	log := opLogger()

	files, err := parseFileArgs(args)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	tree, err := buildTree(store, files)
	if err != nil {
		return fmt.Errorf("build tree: %w", err)
	}

	var matcher repotree.Matcher = matchers.Everything{}
	if logGlob != "" {
		matcher = matchers.NewGlob(logGlob)
	}

	it := repotree.NewTreeEntriesIterator(tree, matcher)
	count := 0
	for {
		path, value, ok := it.Next()
		if !ok {
			break
		}
		count++
		log.Info("entry", "path", path.String(), "value", describeValue(value))
	}
	if err := it.Err(); err != nil {
		return fmt.Errorf("walk entries: %w", err)
	}
	log.Info("walk complete", "tree_id", tree.Id().Hex(), "entries", count)
	return nil
}
