package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/ramadan-dashboard/internal/cache"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/config"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/geo"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/logger"
)

// Global flags shared across all subcommands.
var (
	FlagCity       string
	FlagCountry    string
	FlagMethod     int
	FlagSchool     int
	FlagJSON       bool
	FlagDataDir    string
	FlagTimeFormat string
	FlagDebug      bool
)

// loadedConfig holds the config loaded during PersistentPreRunE.
// Available to all subcommand handlers.
var loadedConfig *config.Config

// Test seams.
var (
	now            = time.Now
	apiBaseURL     = ""
	fetchDelay     = cache.DefaultFetchDelay
	detectLocation = geo.DetectLocation
)

// NewRootCmd creates the root command for the ramadan-dashboard CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ramadan-dashboard",
		Short: "Live prayer and fasting times countdown",
		Long: "A terminal dashboard counting down to the next prayer or fasting event.\n" +
			"Times come from the Al Adhan API, fetched once per year and stored locally.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			loadedConfig = cfg
			return initLogger(cmd)
		},
		// Default action: run the live dashboard.
		RunE:          runDashboard,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(PrintVersion(version))

	// Register global persistent flags.
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&FlagCity, "city", "", "Override city (takes precedence over config)")
	pf.StringVar(&FlagCountry, "country", "", "Override country (name or ISO code)")
	pf.IntVar(&FlagMethod, "method", -1, "Override calculation method (0-23)")
	pf.IntVar(&FlagSchool, "school", -1, "Override school (0=Shafi, 1=Hanafi)")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagDataDir, "data-dir", "", "Data directory for schedules and logs (default: ~/.cache/ramadan-dashboard/)")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.BoolVar(&FlagDebug, "debug", false, "Verbose logging, mirrored to stderr")

	// Register subcommands.
	rootCmd.AddCommand(newTodayCmd())
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newMonthCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newHijriCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMethodsCmd())

	return rootCmd
}

// PrintVersion prints the version string in the expected format.
func PrintVersion(version string) string {
	return fmt.Sprintf("ramadan-dashboard %s\n", version)
}

// initLogger starts file logging under the effective data directory.
func initLogger(cmd *cobra.Command) error {
	dir, err := dataDir(effectiveConfig(cmd))
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Config{Debug: FlagDebug, DataDir: dir}); err != nil {
		return fmt.Errorf("failed to initialise logging: %w", err)
	}
	logger.Debug("command started", "command", cmd.CommandPath(), "data_dir", dir)
	return nil
}

// dataDir returns the configured data directory or the default one.
func dataDir(cfg *config.Config) (string, error) {
	if cfg.DataDir != "" {
		return cfg.DataDir, nil
	}
	return cache.DefaultDir()
}

// effectiveConfig returns the merged configuration values,
// applying the priority: CLI flags > config file > defaults.
// It uses cobra's Changed() to detect whether a flag was explicitly set.
func effectiveConfig(cmd *cobra.Command) *config.Config {
	cfg := loadedConfig
	if cfg == nil {
		empty := config.Config{}
		cfg = &empty
	}

	defaults := config.Defaults()

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	if flagWasSet(flags, root, "city") {
		cfg.City = FlagCity
	}
	if flagWasSet(flags, root, "country") {
		cfg.Country = FlagCountry
	}
	if flagWasSet(flags, root, "method") {
		cfg.Method = &FlagMethod
	} else if cfg.Method == nil {
		cfg.Method = defaults.Method
	}
	if flagWasSet(flags, root, "school") {
		cfg.School = &FlagSchool
	} else if cfg.School == nil {
		cfg.School = defaults.School
	}
	if flagWasSet(flags, root, "data-dir") {
		cfg.DataDir = FlagDataDir
	}

	// Time format: CLI flag > config > default ("24h").
	if flagWasSet(flags, root, "time-format") {
		cfg.TimeFormat = FlagTimeFormat
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = defaults.TimeFormat
	}
	if cfg.TickInterval == "" {
		cfg.TickInterval = defaults.TickInterval
	}

	return cfg
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}
