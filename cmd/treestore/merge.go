package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/treestore/internal/repotree"
	"github.com/steveyegge/treestore/internal/treestore/matchers"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Three-way merge a base tree with two side trees built from path=content arguments",
	Long: `merge builds three ad hoc trees (base, side1, side2) from flat
path=content arguments, runs the three-way tree merge, and reports the
resulting entries plus any unresolved conflicts.

Example:
  treestore merge --base a.txt=x --side1 a.txt=x --side2 a.txt=y
  treestore merge --base a.txt=x --side1 a.txt=y --side2 a.txt=z`,
	RunE: runMerge,
}

var (
	mergeBase  []string
	mergeSide1 []string
	mergeSide2 []string
)

func init() {
	mergeCmd.Flags().StringArrayVar(&mergeBase, "base", nil, "path=content pair for the base tree (repeatable)")
	mergeCmd.Flags().StringArrayVar(&mergeSide1, "side1", nil, "path=content pair for the first side (repeatable)")
	mergeCmd.Flags().StringArrayVar(&mergeSide2, "side2", nil, "path=content pair for the second side (repeatable)")
}

func runMerge(cmd *cobra.Command, args []string) error {
	log := opLogger()

	baseFiles, err := parseFileArgs(mergeBase)
	if err != nil {
		return err
	}
	side1Files, err := parseFileArgs(mergeSide1)
	if err != nil {
		return err
	}
	side2Files, err := parseFileArgs(mergeSide2)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	base, err := buildTree(store, baseFiles)
	if err != nil {
		return fmt.Errorf("build base tree: %w", err)
	}
	side1, err := buildTree(store, side1Files)
	if err != nil {
		return fmt.Errorf("build side1 tree: %w", err)
	}
	side2, err := buildTree(store, side2Files)
	if err != nil {
		return fmt.Errorf("build side2 tree: %w", err)
	}

	merged, err := repotree.MergeTrees(store, base, side1, side2, matchers.Everything{})
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	log.Info("merge computed", "base_id", base.Id().Hex(), "merged_id", merged.Id().Hex())

	hasConflict, err := merged.HasConflict()
	if err != nil {
		return fmt.Errorf("scan for conflicts: %w", err)
	}

	for _, e := range merged.Entries() {
		fmt.Printf("%s\t%s\n", e.Name, describeValue(e.Value))
	}

	if hasConflict {
		conflicts, err := merged.Conflicts()
		if err != nil {
			return fmt.Errorf("list conflicts: %w", err)
		}
		fmt.Printf("%d unresolved conflict(s):\n", len(conflicts))
		for _, c := range conflicts {
			cc, err := store.ReadConflict(c.Value.ConflictID)
			if err != nil {
				return fmt.Errorf("read conflict %s: %w", c.Name, err)
			}
			fmt.Printf("  %s (%d adds, %d removes)\n", c.Name, len(cc.Adds), len(cc.Removes))
		}
	}
	return nil
}

func describeValue(v repotree.TreeValue) string {
	switch v.Kind {
	case repotree.KindFile:
		return fmt.Sprintf("file %s", v.FileID.Hex())
	case repotree.KindTree:
		return fmt.Sprintf("tree %s", v.TreeID.Hex())
	case repotree.KindConflict:
		return fmt.Sprintf("conflict %s", v.ConflictID.Hex())
	case repotree.KindSymlink:
		return fmt.Sprintf("symlink %s", v.FileID.Hex())
	case repotree.KindGitSubmodule:
		return fmt.Sprintf("submodule %s", v.SubmoduleID.Hex())
	default:
		return "unknown"
	}
}
