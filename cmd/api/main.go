package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wishlist/api/internal/config"
	"wishlist/api/internal/logging"
)

type rootOptions struct {
	addr    string
	verbose bool

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	serve := newServeCmd(opts)

	root := &cobra.Command{
		Use:   "wishlist",
		Short: "Wish list engagement API with Santa's advisory panel",
		Long: `wishlist serves the wish list HTTP API: wishes are collected into a
per-session ledger, themes unlock with engagement, Santa judges the final
list and an advisory panel answers questions about an uploaded CV.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.cfg = config.Load()
			if opts.addr != "" {
				opts.cfg.Addr = opts.addr
			}
			level := opts.cfg.LogLevel
			if opts.verbose {
				level = "debug"
			}
			logger, err := logging.New(level, opts.verbose)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		RunE: serve.RunE,
	}

	root.PersistentFlags().StringVar(&opts.addr, "addr", "", "Listen address (overrides API_ADDR)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(serve)
	root.AddCommand(newTiersCmd(opts))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
