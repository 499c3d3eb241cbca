package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/axellelanca/quickurl/internal/config"
	"github.com/axellelanca/quickurl/internal/database"
	"github.com/axellelanca/quickurl/internal/logger"
	"github.com/axellelanca/quickurl/internal/reachability"
	"github.com/axellelanca/quickurl/internal/repository"
	"github.com/axellelanca/quickurl/internal/services"
)

// Cfg is the global variable that will contain the loaded configuration
// It will be accessible to all Cobra commands throughout the application
var Cfg *config.Config

// Log is the application logger, built from Cfg.Log
var Log zerolog.Logger

var configDir string

// RootCmd is the base command for the CLI application
// All other commands (run-server, create, resolve, count, list, delete, migrate) are added as subcommands
var RootCmd = &cobra.Command{
	Use:   "quickurl",
	Short: "A URL shortener with owner-scoped links",
	Long: `QuickURL maps long URLs to short alphanumeric hashes and redirects them back.
Every link belongs to the identity that created it, and only that identity can delete it.`,
	SilenceUsage: true,
}

// Execute is the main entry point for the Cobra application
// It is called from 'main.go' and handles command execution and error handling
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

// init() sets up configuration loading before any command runs.
// Subcommands register themselves via their own init() functions to avoid import cycles.
func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "./configs", "Directory containing config.yaml")
}

// initConfig loads the configuration and builds the logger.
// It is called at the beginning of every Cobra command execution.
func initConfig() {
	var err error

	Cfg, err = config.LoadConfigFrom(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	Log, err = logger.New(Cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
}

// OpenDatabase opens the configured SQLite database and migrates the schema.
func OpenDatabase() (*gorm.DB, error) {
	return database.Open(Cfg.Database, Log)
}

// NewReachabilityChecker returns the checker selected by the validation settings.
func NewReachabilityChecker() reachability.Checker {
	if !Cfg.Validation.Enabled {
		return reachability.Noop{}
	}
	return reachability.NewHTTPChecker(Cfg.ValidationTimeout(), Log)
}

// NewMonitorChecker returns the checker used by the link monitor. It always performs
// real requests: validation.enabled only governs link creation.
func NewMonitorChecker() reachability.Checker {
	return reachability.NewHTTPChecker(Cfg.ValidationTimeout(), Log)
}

// NewLinkService wires the link store and the service on top of an open database.
func NewLinkService(db *gorm.DB) (*services.LinkService, *repository.GormLinkRepository) {
	linkRepo := repository.NewLinkRepository(db)
	return services.NewLinkService(linkRepo, NewReachabilityChecker(), Cfg.Server.BaseURL, Log), linkRepo
}
