// Command treestore is a thin CLI over the tree engine: it exists to give
// the domain-stack dependencies (cobra, viper, bbolt) a real caller, not
// to be a dashboard. Each subcommand builds or loads a couple of trees
// and drives one core operation end to end.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/steveyegge/treestore/internal/config"
)

var (
	cfgPath   string
	storeFlag string
	dbPath    string
	logger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "treestore",
	Short:         "Inspect and merge content-addressed tree snapshots",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if storeFlag == "" {
			storeFlag = cfg.Store.Backend
		}
		if dbPath == "" {
			dbPath = cfg.Store.Path
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to treestore.toml (defaults to ./treestore.toml if present)")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "store backend: memory or bolt (default from config)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "bbolt database path, used when --store=bolt")

	rootCmd.AddCommand(diffCmd, mergeCmd, resolveCmd, logCmd)
}

// opLogger returns a logger carrying a fresh operation id, the way the
// daemon subsystems stamp an op_id onto every log line for a single
// request.
func opLogger() *slog.Logger {
	return logger.With("op_id", uuid.NewString())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "treestore:", err)
		os.Exit(1)
	}
}
