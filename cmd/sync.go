package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/recarr/api"
)

var (
	syncList        string
	syncForceFull   bool
	syncWatchedOnly bool
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Trigger a list sync on the service",
	Long: `Ask the recommendation service to resync a list. By default only stale
entries refresh; --full rebuilds the whole list and --watched-only
refreshes watch state without rescoring.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVarP(&syncList, "list", "l", "", "list to sync (default from config)")
	syncCmd.Flags().BoolVar(&syncForceFull, "full", false, "force a full rebuild")
	syncCmd.Flags().BoolVar(&syncWatchedOnly, "watched-only", false, "only refresh watch state")
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncForceFull && syncWatchedOnly {
		return fmt.Errorf("--full and --watched-only are mutually exclusive")
	}

	listID := syncList
	if listID == "" {
		listID = cfg.Dashboard.DefaultList
	}

	mode := api.SyncIncremental
	switch {
	case syncForceFull:
		mode = api.SyncFull
	case syncWatchedOnly:
		mode = api.SyncWatchedOnly
	}

	ctx := context.Background()
	if err := apiClient.TriggerSync(ctx, listID, cfg.User.ID, mode); err != nil {
		return err
	}

	fmt.Printf("✓ Sync triggered for list '%s'\n", listID)
	fmt.Println("Track progress with: recarr watch")
	return nil
}
