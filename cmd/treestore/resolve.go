package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/treestore/internal/objid"
	"github.com/steveyegge/treestore/internal/repotree"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <conflict-hex-id>",
	Short: "Load a persisted conflict and print it in simplified form",
	Long: `resolve reads a Conflict object by its content id from the
configured store, simplifies it (flattening nested conflicts and
cancelling matching add/remove pairs), and reports whether the result
is now a single unambiguous value.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	log := opLogger()

	id, err := objid.ConflictIdFromHex(args[0])
	if err != nil {
		return fmt.Errorf("parse conflict id: %w", err)
	}

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	raw, err := store.ReadConflict(id)
	if err != nil {
		return fmt.Errorf("read conflict %s: %w", id.Hex(), err)
	}

	simplified, err := repotree.SimplifyConflict(store, raw)
	if err != nil {
		return fmt.Errorf("simplify conflict: %w", err)
	}
	log.Info("conflict simplified", "conflict_id", id.Hex(),
		"adds_before", len(raw.Adds), "removes_before", len(raw.Removes),
		"adds_after", len(simplified.Adds), "removes_after", len(simplified.Removes))

	fmt.Printf("removes (%d):\n", len(simplified.Removes))
	for _, t := range simplified.Removes {
		fmt.Println("  " + describeTerm(t))
	}
	fmt.Printf("adds (%d):\n", len(simplified.Adds))
	for _, t := range simplified.Adds {
		fmt.Println("  " + describeTerm(t))
	}

	if simplified.IsResolved() {
		fmt.Println("resolved:", describeValue(*simplified.Adds[0].Value))
	} else {
		fmt.Println("still conflicted")
	}
	return nil
}

func describeTerm(t repotree.ConflictTerm) string {
	if t.Value == nil {
		return "(absent)"
	}
	return describeValue(*t.Value)
}
