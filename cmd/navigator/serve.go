package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/course-navigator/internal/config"
	"github.com/jonathan/course-navigator/internal/observability"
	"github.com/jonathan/course-navigator/internal/server"
)

var (
	servePort        int
	serveCoursesDir  string
	serveDatabaseURL string
	serveDebug       bool
	serveConfigPath  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes manifest parsing, the course catalog, launch page rewriting and parse history.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, fmt.Sprintf("Port to listen on (default %d)", config.DefaultPort))
	serveCmd.Flags().StringVar(&serveCoursesDir, "courses-dir", "", "Courses directory (falls back to COURSES_DIR)")
	serveCmd.Flags().StringVar(&serveDatabaseURL, "db-url", "", "Database URL for parse history (falls back to DATABASE_URL)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "JSON or YAML config file; flags override its values")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.Config{
		Port:        servePort,
		CoursesDir:  serveCoursesDir,
		DatabaseURL: serveDatabaseURL,
		Debug:       serveDebug,
	}

	defaults := config.Config{
		CoursesDir:  os.Getenv("COURSES_DIR"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
	if serveConfigPath != "" {
		fileCfg, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return err
		}
		defaults = fileCfg.MergeWithDefaults(defaults)
		cfg.Debug = serveDebug || fileCfg.Debug
	}
	cfg = cfg.MergeWithDefaults(defaults)

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	srv, err := server.New(server.Config{
		Port:        cfg.Port,
		DatabaseURL: cfg.DatabaseURL,
		CoursesDir:  cfg.CoursesDir,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
