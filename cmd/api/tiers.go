package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"wishlist/api/internal/config"
	"wishlist/api/internal/wishlist"
)

func newTiersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "Validate and print the configured theme tiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := loadTierPolicy(opts.cfg)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tUNLOCK AT")
			for _, tier := range policy.Tiers() {
				fmt.Fprintf(w, "%s\t%s\t%g%%\n", tier.ID, tier.Name, tier.UnlockAt)
			}
			return w.Flush()
		},
	}
}

// loadTierPolicy reads WISHLIST_TIERS_FILE when set and falls back to the
// built-in themes.
func loadTierPolicy(cfg config.Config) (*wishlist.TierPolicy, error) {
	entries, err := config.LoadTiers(cfg.TiersFile)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		return wishlist.NewTierPolicy(wishlist.DefaultTiers())
	}
	tiers := make([]wishlist.Tier, 0, len(entries))
	for _, entry := range entries {
		tiers = append(tiers, wishlist.Tier{ID: entry.ID, Name: entry.Name, UnlockAt: entry.UnlockAt})
	}
	policy, err := wishlist.NewTierPolicy(tiers)
	if err != nil {
		return nil, fmt.Errorf("tiers file %s: %w", cfg.TiersFile, err)
	}
	return policy, nil
}
