package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/justchokingaround/anistream/internal/config"
	"github.com/justchokingaround/anistream/internal/database"
	"github.com/justchokingaround/anistream/internal/history"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Global flags
	cfgFile    string
	logLevel   string
	noColor    bool
	debugMode  bool
	jsonOutput bool

	// Global config and logger
	cfg    *config.Config
	vcfg   *viper.Viper
	logger *slog.Logger

	// db is opened on first use by commands touching local history
	db *gorm.DB
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "anistream",
	Short: "Browse and stream anime from Samehadaku with Kuramanime fallback",
	Long: `anistream aggregates two anime catalogs behind one interface.

Samehadaku is queried first; when a first-page search comes back empty the
Kuramanime catalog is searched instead. Results from either source carry a
slug that routes every follow-up request back to the catalog it came from.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// config init and path work without a readable config
		if cmd.Parent() != nil && cmd.Parent().Name() == "config" && cmd.Name() != "show" {
			return nil
		}
		if cmd.Name() == "version" {
			return nil
		}

		if err := config.InitializeDirs(); err != nil {
			return fmt.Errorf("failed to initialize directories: %w", err)
		}

		var err error
		cfg, vcfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlagOverrides(cfg)

		logger, err = config.InitLogger(&cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		slog.SetDefault(logger)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db == nil {
			return
		}
		if err := database.Close(db); err != nil {
			logger.Error("failed to close database", "error", err)
		}
		db = nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/anistream/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug mode (verbose HTTP logging)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print raw JSON responses")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

// applyFlagOverrides lets command-line flags win over the config file
func applyFlagOverrides(c *config.Config) {
	if debugMode {
		c.Advanced.Debug = true
		if logLevel == "" {
			c.Logging.Level = "debug"
		}
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if noColor {
		c.Logging.Color = false
	}
}

// historyService opens the local database on first use
func historyService() (*history.Service, error) {
	if db == nil {
		var err error
		db, err = database.Open(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}
	return history.NewService(db, history.WithLimits(cfg.History.MaxItems, cfg.History.MaxFavorites)), nil
}

// printJSON writes v as indented JSON to stdout
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// versionCmd displays version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("anistream version %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
	},
}

// configCmd handles configuration operations
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := cfgFile
		if configPath == "" {
			configPath = config.DefaultConfigFile()
		}

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s", configPath)
		}

		if err := config.SaveDefaultConfig(configPath); err != nil {
			return fmt.Errorf("failed to save default configuration: %w", err)
		}

		fmt.Printf("Default configuration generated successfully at: %s\n", configPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			return printJSON(cfg)
		}

		used := vcfg.ConfigFileUsed()
		if used == "" {
			used = "(defaults)"
		}
		fmt.Printf("Config file: %s\n", used)
		fmt.Printf("Samehadaku: %s\n", cfg.Providers.Samehadaku.BaseURL)
		fmt.Printf("Kuramanime: %s\n", cfg.Providers.Kuramanime.BaseURL)
		fmt.Printf("Fallback: enabled=%t first_page_only=%t\n", cfg.Fallback.Enabled, cfg.Fallback.FirstPageOnly)
		fmt.Printf("Preferred quality: %s\n", cfg.Providers.Kuramanime.PreferredQuality)
		fmt.Printf("HTTP timeout: %s (retries: %d)\n", cfg.HTTP.Timeout, cfg.HTTP.MaxRetries)
		fmt.Printf("Log level: %s\n", cfg.Logging.Level)
		fmt.Printf("Database: %s\n", cfg.Database.Path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Display configuration file path",
	Run: func(cmd *cobra.Command, args []string) {
		if cfgFile != "" {
			fmt.Println(cfgFile)
		} else {
			fmt.Println(config.DefaultConfigFile())
		}
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}
