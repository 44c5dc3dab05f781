package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pacereader/internal/cache"
	"pacereader/internal/workspace"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the pacing-result cache",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Drop every cached scoring result",
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := workspace.EnsureDefault()
		if err != nil {
			return fmt.Errorf("workspace: %w", err)
		}
		store, err := cache.Open(workspace.CachePath(base))
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer store.Close()

		n, err := store.Purge()
		if err != nil {
			return err
		}
		fmt.Printf("✓ Purged %d cached result(s)\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
}
