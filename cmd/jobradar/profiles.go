package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Recompute the hiring profile of every active company",
	Long:  "Rebuild company profiles wholesale from the stored jobs, outside the debounced path the extraction workers use. Useful after threshold changes or manual database edits.",
	RunE:  runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	d, err := openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	companies, err := d.db.ListActiveCompanies(ctx)
	if err != nil {
		return err
	}

	for _, c := range companies {
		if err := d.db.RecomputeCompanyProfile(ctx, c.ATS, c.Slug, d.cfg.Signals); err != nil {
			return fmt.Errorf("recompute %s/%s: %w", c.ATS, c.Slug, err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recomputed %d profile(s)\n", len(companies))
	return nil
}
