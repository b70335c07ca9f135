package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/recarr/status"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch service status live",
	Long: `Poll the service's sync, health and worker status on an interval and
render them until interrupted. A status source that fails on one tick
keeps its previous data and retries on the next.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interval := cfg.Dashboard.PollInterval
	if interval <= 0 {
		interval = status.DefaultInterval
	}

	poller := status.NewPoller(apiClient, interval, logger)
	poller.Start(ctx)
	defer poller.Stop()

	fmt.Printf("Watching %s every %s (ctrl-c to stop)\n", cfg.Server.URL, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Give the immediate first tick a moment to land before rendering.
	time.Sleep(500 * time.Millisecond)
	renderSnapshot(poller.Snapshot())

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nStopped.")
			return nil
		case <-ticker.C:
			renderSnapshot(poller.Snapshot())
		}
	}
}

func renderSnapshot(snap status.Snapshot) {
	fmt.Printf("\n── %s ──\n", time.Now().Format("15:04:05"))

	if snap.Sync == nil && snap.Health == nil && snap.Workers == nil {
		fmt.Println("No status data yet.")
		return
	}

	if snap.Sync != nil {
		fmt.Printf("Syncs: %d active, %d completed today, %d lists",
			snap.Sync.ActiveSyncs, snap.Sync.CompletedToday, snap.Sync.TotalLists)
		if snap.Sync.LastSync != nil {
			fmt.Printf(", last %s", snap.Sync.LastSync.Format("15:04:05"))
		}
		fmt.Printf("  (as of %s)\n", snap.SyncUpdated.Format("15:04:05"))
	}

	if snap.Health != nil {
		fmt.Printf("Health: database %s, trakt %s, tmdb %s, recommender %s  (as of %s)\n",
			boolToStatus(snap.Health.Database),
			boolToStatus(snap.Health.Trakt),
			boolToStatus(snap.Health.TMDB),
			boolToStatus(snap.Health.Recommender),
			snap.HealthUpdated.Format("15:04:05"))
	}

	if len(snap.Workers) > 0 {
		rows := make([][]string, 0, len(snap.Workers))
		for _, kind := range []status.WorkerKind{
			status.WorkerListSync,
			status.WorkerEnrichment,
			status.WorkerRecommender,
			status.WorkerMaintenance,
			status.WorkerUnknown,
		} {
			w, ok := snap.Workers[kind]
			if !ok {
				continue
			}
			lastRun := ""
			if w.LastRun != nil {
				lastRun = w.LastRun.Format("15:04:05")
			}
			nextRun := ""
			if w.NextRun != nil {
				nextRun = w.NextRun.Format("15:04:05")
			}
			rows = append(rows, []string{
				kind.Label(), w.Status, lastRun, nextRun,
				fmt.Sprintf("%d", w.ItemsProcessed), w.Error,
			})
		}
		headers := []string{"WORKER", "STATUS", "LAST RUN", "NEXT RUN", "PROCESSED", "ERROR"}
		aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
		fmt.Println(renderTable(headers, rows, aligns))
	}

	if snap.Busy {
		fmt.Println("⟳ Service is busy")
	}
}
