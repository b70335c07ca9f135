package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/recarr/api"
	"github.com/s0up4200/recarr/config"
	"github.com/s0up4200/recarr/lists"
	"github.com/s0up4200/recarr/ratings"
)

var (
	cfgFile     string
	cfg         *config.Config
	logger      zerolog.Logger
	apiClient   *api.Client
	coordinator *ratings.Coordinator
	browser     *lists.Browser

	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records build information injected by the linker
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", v, bt)
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "recarr",
	Short: "A dashboard client for your media recommendation service",
	Long: `recarr is a CLI client for a media recommendation service. It browses
scored recommendation lists, rates items with instant local feedback,
triggers list syncs, and watches the service's sync, health and worker
status live.`,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(testCmd)
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Create the recommendation service client. The constructor does not
	// touch the network: commands must keep working against a backend
	// that is temporarily down wherever they can.
	opts := []api.Option{
		api.WithTimeout(cfg.Server.Timeout),
		api.WithGenerativeTimeout(cfg.Server.GenerativeTimeout),
		api.WithUserAgent("recarr/" + version),
	}
	if cfg.Server.RateLimit > 0 {
		opts = append(opts, api.WithRateLimit(cfg.Server.RateLimit, 5))
	}
	apiClient, err = api.NewClient(cfg.Server.URL, cfg.Server.APIKey, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create api client: %w", err)
	}

	coordinator, err = ratings.NewCoordinator(apiClient, cfg.User.ID, consoleNotifier{}, logger)
	if err != nil {
		return fmt.Errorf("failed to create rating coordinator: %w", err)
	}

	browser, err = lists.NewBrowser(apiClient, cfg.User.ID, logger)
	if err != nil {
		return fmt.Errorf("failed to create list browser: %w", err)
	}

	return nil
}

// consoleNotifier surfaces coordinator signals on the terminal
type consoleNotifier struct{}

func (consoleNotifier) Notify(kind ratings.NoticeKind, message string) {
	switch kind {
	case ratings.NoticeRolledBack:
		fmt.Fprintf(os.Stderr, "✗ %s\n", message)
	default:
		fmt.Printf("✓ %s\n", message)
	}
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to the recommendation service",
	Long:  `Test the connection to your recommendation service and display basic status information.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to recommendation service at %s...\n", cfg.Server.URL)

	ctx := context.Background()
	if err := apiClient.Ping(ctx); err != nil {
		return err
	}
	fmt.Println("✓ Connection successful!")

	health, err := apiClient.GetHealthStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to get health status: %w", err)
	}

	syncStatus, err := apiClient.GetSyncStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to get sync status: %w", err)
	}

	fmt.Printf("\nService status:\n")
	fmt.Printf("- Database:    %s\n", boolToStatus(health.Database))
	fmt.Printf("- Trakt:       %s\n", boolToStatus(health.Trakt))
	fmt.Printf("- TMDB:        %s\n", boolToStatus(health.TMDB))
	fmt.Printf("- Recommender: %s\n", boolToStatus(health.Recommender))
	fmt.Printf("\nLists: %d total, %d syncs completed today\n", syncStatus.TotalLists, syncStatus.CompletedToday)
	if syncStatus.ActiveSyncs > 0 {
		fmt.Printf("Active syncs: %d\n", syncStatus.ActiveSyncs)
	}

	userRatings, err := apiClient.GetUserRatings(ctx, cfg.User.ID)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to fetch user ratings")
	} else {
		fmt.Printf("Stored ratings for %s: %d\n", cfg.User.ID, len(userRatings))
	}

	return nil
}

func boolToStatus(b bool) string {
	if b {
		return "OK"
	}
	return "DOWN"
}
