package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/treestore/internal/repotree"
	"github.com/steveyegge/treestore/internal/treestore/matchers"
)

var diffCmd = &cobra.Command{
	Use:   "diff --before path=content... -- --after path=content...",
	Short: "Diff two ad hoc tree snapshots built from path=content arguments",
	Long: `diff builds a "before" tree and an "after" tree from flat
path=content arguments and prints the entries that changed between them.

Example:
  treestore diff --before a.txt=one --after a.txt=two --after b.txt=new`,
	RunE: runDiff,
}

var (
	diffBefore []string
	diffAfter  []string
	diffPrefix string
)

func init() {
	diffCmd.Flags().StringArrayVar(&diffBefore, "before", nil, "path=content pair for the before tree (repeatable)")
	diffCmd.Flags().StringArrayVar(&diffAfter, "after", nil, "path=content pair for the after tree (repeatable)")
	diffCmd.Flags().StringVar(&diffPrefix, "prefix", "", "restrict the diff to paths under this directory prefix")
}

func runDiff(cmd *cobra.Command, args []string) error {
	log := opLogger()

	beforeFiles, err := parseFileArgs(diffBefore)
	if err != nil {
		return err
	}
	afterFiles, err := parseFileArgs(diffAfter)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	before, err := buildTree(store, beforeFiles)
	if err != nil {
		return fmt.Errorf("build before tree: %w", err)
	}
	after, err := buildTree(store, afterFiles)
	if err != nil {
		return fmt.Errorf("build after tree: %w", err)
	}

	var matcher repotree.Matcher = matchers.Everything{}
	if diffPrefix != "" {
		matcher = matchers.NewPrefixSet(diffPrefix)
	}

	it, err := before.Diff(after, matcher)
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}
	log.Info("diff computed", "before_id", before.Id().Hex(), "after_id", after.Id().Hex())

	count := 0
	for {
		pd, ok := it.Next()
		if !ok {
			break
		}
		count++
		switch {
		case pd.Diff.IsAdded():
			fmt.Printf("+ %s\n", pd.Path)
		case pd.Diff.IsRemoved():
			fmt.Printf("- %s\n", pd.Path)
		default:
			fmt.Printf("M %s\n", pd.Path)
		}
	}
	if count == 0 {
		fmt.Println("(no differences)")
	}
	return nil
}
