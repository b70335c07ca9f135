package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/s0up4200/recarr/api"
)

var (
	rateMediaType string
	rateUp        bool
	rateDown      bool
)

// rateCmd represents the rate command
var rateCmd = &cobra.Command{
	Use:   "rate <trakt-id>",
	Short: "Rate an item up or down",
	Long: `Rate an item with a thumbs up or down. Rating an item with the value it
already has clears the rating.

Examples:
  recarr rate 12345 --up
  recarr rate 12345 --down --type show`,
	Args: cobra.ExactArgs(1),
	RunE: runRate,
}

func init() {
	rootCmd.AddCommand(rateCmd)

	rateCmd.Flags().StringVarP(&rateMediaType, "type", "t", "movie", "media type (movie, show)")
	rateCmd.Flags().BoolVar(&rateUp, "up", false, "thumbs up")
	rateCmd.Flags().BoolVar(&rateDown, "down", false, "thumbs down")
}

func runRate(cmd *cobra.Command, args []string) error {
	traktID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid trakt id '%s': must be a number", args[0])
	}

	var value int
	switch {
	case rateUp && rateDown:
		return fmt.Errorf("--up and --down are mutually exclusive")
	case rateUp:
		value = api.RatingUp
	case rateDown:
		value = api.RatingDown
	default:
		return fmt.Errorf("one of --up or --down is required")
	}

	mediaType := api.MediaType(rateMediaType)
	ctx := context.Background()

	// Load current ratings first so toggle semantics work against what the
	// server has, not an empty snapshot.
	if err := coordinator.Refresh(ctx); err != nil {
		logger.Warn().Err(err).Msg("Could not load existing ratings, toggle may misfire")
	}

	before := coordinator.Value(traktID, mediaType)
	if err := coordinator.Rate(ctx, traktID, mediaType, value); err != nil {
		return err
	}

	after := coordinator.Value(traktID, mediaType)
	if before == value && after == api.RatingNone {
		fmt.Printf("Clearing rating for %s %d...\n", mediaType, traktID)
	} else {
		fmt.Printf("Rating %s %d %s...\n", mediaType, traktID, ratingWord(after))
	}

	// The notifier prints the confirmed/rolled-back outcome.
	coordinator.Wait()
	return nil
}

func ratingWord(value int) string {
	switch value {
	case api.RatingUp:
		return "up"
	case api.RatingDown:
		return "down"
	default:
		return "clear"
	}
}
