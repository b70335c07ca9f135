package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/recarr/api"
	"github.com/s0up4200/recarr/lists"
)

var (
	browseList     string
	browsePage     int
	browsePageSize int
	browseSort     string
	browseOrder    string
	includeWatched bool
	filterExpr     string
	preset         string
	withSummaries  bool
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse a recommendation list",
	Long: `Browse one window of a recommendation list, sorted and paginated.

Items can be filtered client-side with an expr expression, for example:

  recarr browse -f 'Item.MatchScore > 0.8 && !Item.Watched'
  recarr browse -f 'hasComponent("genre_affinity") && component("genre_affinity") > 0.5'`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().StringVarP(&browseList, "list", "l", "", "list to browse (default from config)")
	browseCmd.Flags().IntVar(&browsePage, "page", 1, "page to fetch")
	browseCmd.Flags().IntVar(&browsePageSize, "page-size", 0, "items per page (default from config)")
	browseCmd.Flags().StringVar(&browseSort, "sort", "match_score", "sort key (match_score, added_at, title, watched_at)")
	browseCmd.Flags().StringVar(&browseOrder, "order", "desc", "sort order (asc, desc)")
	browseCmd.Flags().BoolVar(&includeWatched, "include-watched", false, "include already watched items")
	browseCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	browseCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	browseCmd.Flags().BoolVar(&withSummaries, "explain", false, "fetch generated explanation text per item")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	listID := browseList
	if listID == "" {
		listID = cfg.Dashboard.DefaultList
	}

	pageSize := browsePageSize
	if pageSize <= 0 {
		pageSize = cfg.Dashboard.PageSize
	}

	query := api.ListQuery{
		IncludeWatched: includeWatched,
		SortBy:         api.SortKey(browseSort),
		Order:          api.SortOrder(browseOrder),
		Page:           browsePage,
		PageSize:       pageSize,
	}

	// Compile the filter up front so a bad expression fails before any
	// network traffic.
	var itemFilter *lists.ItemFilter
	if expr, err := resolveFilterExpression(); err != nil {
		return err
	} else if expr != "" {
		itemFilter, err = lists.CompileFilter(expr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	ctx := context.Background()
	window, err := browser.Fetch(ctx, listID, query)
	if err != nil {
		return err
	}

	if err := coordinator.Refresh(ctx); err != nil {
		// Ratings overlay is optional data; the window still renders.
		logger.Warn().Err(err).Msg("Failed to refresh ratings, overlay omitted")
	}

	if withSummaries {
		browser.Enrich(ctx, listID, window)
	}

	items := window.Items
	if itemFilter != nil {
		items = itemFilter.Apply(items)
	}

	if len(items) == 0 {
		fmt.Println("No items found.")
		return nil
	}

	first, last := window.Range()
	fmt.Printf("\n%s — items %d-%d of %d", listID, first, last, window.TotalCount)
	if itemFilter != nil {
		fmt.Printf(" (%d after filter)", len(items))
	}
	fmt.Println()

	fmt.Println(renderItemsTable(items))

	if window.HasMorePages() {
		fmt.Printf("\nNext page: recarr browse --list %s --page %d\n", listID, window.Page+1)
	}
	return nil
}

func renderItemsTable(items []api.ListItem) string {
	headers := []string{"#", "TITLE", "YEAR", "TYPE", "SCORE", "RATING", "WATCHED"}
	if withSummaries {
		headers = append(headers, "WHY")
	}

	rows := make([][]string, 0, len(items))
	for i, item := range items {
		rating := ratingGlyph(coordinator.Value(item.TraktID, item.MediaType))
		watched := ""
		if item.Watched {
			watched = "yes"
		}
		row := []string{
			strconv.Itoa(i + 1),
			truncate(item.Title, 45),
			strconv.Itoa(item.Year),
			string(item.MediaType),
			fmt.Sprintf("%.2f", item.MatchScore),
			rating,
			watched,
		}
		if withSummaries {
			row = append(row, truncate(item.Summary, 60))
		}
		rows = append(rows, row)
	}

	aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignRight, alignLeft, alignLeft}
	if withSummaries {
		aligns = append(aligns, alignLeft)
	}
	return renderTable(headers, rows, aligns)
}

func ratingGlyph(value int) string {
	switch value {
	case api.RatingUp:
		return "👍"
	case api.RatingDown:
		return "👎"
	default:
		return ""
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// resolveFilterExpression determines the filter expression to use
func resolveFilterExpression() (string, error) {
	// Priority: command line filter > preset > default
	if filterExpr != "" {
		return filterExpr, nil
	}

	if preset != "" {
		if presetFilter, ok := cfg.Filter.Presets[preset]; ok {
			return presetFilter, nil
		}
		return "", fmt.Errorf("preset '%s' not found in config", preset)
	}

	return strings.TrimSpace(cfg.Filter.DefaultExpression), nil
}
