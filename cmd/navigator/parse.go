package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/course-navigator/internal/config"
	"github.com/jonathan/course-navigator/internal/db"
	"github.com/jonathan/course-navigator/internal/observability"
	"github.com/jonathan/course-navigator/internal/schemas"
	"github.com/jonathan/course-navigator/internal/scorm"
)

const (
	formatJSON = "json"
	formatTree = "tree"
)

var parseCmd = &cobra.Command{
	Use:   "parse [manifest]",
	Short: "Parse an imsmanifest.xml into navigation links",
	Long: `Parse a SCORM imsmanifest.xml (local path, file:// or http(s) URL) and print the
ordered navigation links with launch URLs carrying the learner query parameters.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

var (
	parseBasePath    string
	parseStudentID   string
	parseStudentName string
	parseCourseID    string
	parseDebug       bool
	parseOutputFile  string
	parseFormat      string
	parseValidate    bool
	parseDatabaseURL string
	parseConfigPath  string
)

func init() {
	parseCmd.Flags().StringVar(&parseBasePath, "base-path", "", "Prefix joined before each resource href")
	parseCmd.Flags().StringVar(&parseStudentID, "student-id", "", "Learner ID (default \""+scorm.DefaultStudentID+"\")")
	parseCmd.Flags().StringVar(&parseStudentName, "student-name", "", "Learner name (default \""+scorm.DefaultStudentName+"\")")
	parseCmd.Flags().StringVar(&parseCourseID, "course-id", "", "Course ID (default \""+scorm.DefaultCourseID+"\")")
	parseCmd.Flags().BoolVar(&parseDebug, "debug", false, "Log parser decisions, including skipped items")
	parseCmd.Flags().StringVarP(&parseOutputFile, "out", "o", "", "Write output to this file instead of stdout")
	parseCmd.Flags().StringVar(&parseFormat, "format", formatJSON, "Output format: json or tree")
	parseCmd.Flags().BoolVar(&parseValidate, "validate", false, "Validate the links against the navigation links schema")
	parseCmd.Flags().StringVar(&parseDatabaseURL, "db-url", "", "Save the result to this database (falls back to DATABASE_URL)")
	parseCmd.Flags().StringVar(&parseConfigPath, "config", "", "JSON or YAML config file; flags override its values")

	rootCmd.AddCommand(parseCmd)
}

// parseOptions holds the resolved inputs of one parse run
type parseOptions struct {
	Config      config.Config
	Format      string
	OutputFile  string
	Validate    bool
	DatabaseURL string
}

func runParse(_ *cobra.Command, args []string) error {
	cfg := config.Config{
		BasePath:    parseBasePath,
		StudentID:   parseStudentID,
		StudentName: parseStudentName,
		CourseID:    parseCourseID,
		Debug:       parseDebug,
		DatabaseURL: parseDatabaseURL,
	}
	if len(args) == 1 {
		cfg.Manifest = args[0]
	}

	if parseConfigPath != "" {
		fileCfg, err := config.LoadConfig(parseConfigPath)
		if err != nil {
			return err
		}
		if err := fileCfg.Validate(); err != nil {
			return err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
		cfg.Debug = parseDebug || fileCfg.Debug
	}

	if cfg.Manifest == "" {
		return fmt.Errorf("a manifest path or URL is required (argument or 'manifest' in --config)")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	logger, err := observability.NewLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return parseManifest(context.Background(), parseOptions{
		Config:      cfg,
		Format:      parseFormat,
		OutputFile:  parseOutputFile,
		Validate:    parseValidate,
		DatabaseURL: cfg.DatabaseURL,
	}, os.Stdout, logger)
}

// parseManifest runs the parser and writes the result to out or opts.OutputFile
func parseManifest(ctx context.Context, opts parseOptions, out io.Writer, logger *zap.Logger) error {
	if opts.Format != formatJSON && opts.Format != formatTree {
		return fmt.Errorf("unknown format %q (want %s or %s)", opts.Format, formatJSON, formatTree)
	}

	parser := scorm.NewParser(opts.Config.ParserConfig(), scorm.WithLogger(logger))
	result, err := parser.Parse(ctx, opts.Config.Manifest)
	if err != nil {
		return err
	}

	if opts.Validate {
		if err := schemas.ValidateNavigationLinks(result.Links); err != nil {
			return fmt.Errorf("generated links do not validate against schema: %w", err)
		}
	}

	if opts.DatabaseURL != "" {
		if err := saveParseRecord(ctx, opts.DatabaseURL, result, logger); err != nil {
			return err
		}
	}

	if opts.OutputFile != "" {
		return writeFile(opts.OutputFile, func(w io.Writer) error {
			return writeResult(w, opts.Format, result)
		})
	}
	return writeResult(out, opts.Format, result)
}

// writeFile creates path, runs write against it and reports a failed close.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()
	return write(f)
}

func writeResult(out io.Writer, format string, result *scorm.Result) error {
	if format == formatTree {
		observability.NewPrinter(out).PrintOutline(result.Location, result.Version, result.Links)
		return nil
	}

	jsonBytes, err := json.MarshalIndent(result.Links, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if _, err := fmt.Fprintln(out, string(jsonBytes)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func saveParseRecord(ctx context.Context, databaseURL string, result *scorm.Result, logger *zap.Logger) error {
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}
	id, err := database.SaveParseRecord(ctx, result.Location, result.Version, result.Links)
	if err != nil {
		return err
	}
	logger.Info("parse record saved", zap.String("id", id.String()))
	return nil
}
