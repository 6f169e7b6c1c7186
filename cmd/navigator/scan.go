package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/course-navigator/internal/catalog"
	"github.com/jonathan/course-navigator/internal/observability"
	"github.com/jonathan/course-navigator/internal/scorm"
	"github.com/jonathan/course-navigator/internal/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan [root]",
	Short: "List the courses in a courses directory",
	Long: `Scan a courses directory laid out as <root>/<type>/<name>/ and list every course whose
launch file exists. With --links each course manifest is parsed and its links attached.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

var (
	scanLinks       bool
	scanConcurrency int
	scanFormat      string
	scanDebug       bool
)

func init() {
	scanCmd.Flags().BoolVar(&scanLinks, "links", false, "Parse each course manifest and attach its links")
	scanCmd.Flags().IntVar(&scanConcurrency, "concurrency", catalog.DefaultConcurrency, "Manifests parsed at once with --links")
	scanCmd.Flags().StringVar(&scanFormat, "format", formatJSON, "Output format: json or tree")
	scanCmd.Flags().BoolVar(&scanDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(scanCmd)
}

func runScan(_ *cobra.Command, args []string) error {
	root := os.Getenv("COURSES_DIR")
	if len(args) == 1 {
		root = args[0]
	}
	if root == "" {
		return fmt.Errorf("a courses directory is required (argument or COURSES_DIR)")
	}

	logger, err := observability.NewLogger(scanDebug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return scanCourses(context.Background(), root, scanOptions{
		Links:       scanLinks,
		Concurrency: scanConcurrency,
		Format:      scanFormat,
		Debug:       scanDebug,
	}, os.Stdout, logger)
}

type scanOptions struct {
	Links       bool
	Concurrency int
	Format      string
	Debug       bool
}

func scanCourses(ctx context.Context, root string, opts scanOptions, out io.Writer, logger *zap.Logger) error {
	if opts.Format != formatJSON && opts.Format != formatTree {
		return fmt.Errorf("unknown format %q (want %s or %s)", opts.Format, formatJSON, formatTree)
	}

	courses, err := catalog.Scan(root)
	if err != nil {
		return err
	}

	if opts.Links {
		parserFor := func(course types.Course) *scorm.Parser {
			cfg := scorm.Config{Debug: opts.Debug}.WithDefaults()
			return scorm.NewParser(cfg, scorm.WithLogger(logger.With(zap.String("course", course.Path))))
		}
		if err := catalog.Enrich(ctx, root, courses, parserFor, opts.Concurrency); err != nil {
			return err
		}
	}

	if opts.Format == formatTree {
		observability.NewPrinter(out).PrintCatalog(courses)
		return nil
	}

	jsonBytes, err := json.MarshalIndent(courses, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(out, string(jsonBytes))
	return err
}
