package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/course-navigator/internal/catalog"
	"github.com/jonathan/course-navigator/internal/rewrite"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Inject course tool scripts into a course launch page",
	Long:  `Read the launch page of <root>/<type>/<name> and print it with the course tool scripts and their initialization appended to the body.`,
	RunE:  runRewrite,
}

var (
	rewriteRoot       string
	rewriteCourse     string
	rewriteOutputFile string
)

func init() {
	rewriteCmd.Flags().StringVar(&rewriteRoot, "root", "", "Courses directory (falls back to COURSES_DIR)")
	rewriteCmd.Flags().StringVar(&rewriteCourse, "course", "", "Course as <type>/<name> (required)")
	rewriteCmd.Flags().StringVarP(&rewriteOutputFile, "out", "o", "", "Write the page to this file instead of stdout")

	_ = rewriteCmd.MarkFlagRequired("course")
	rootCmd.AddCommand(rewriteCmd)
}

func runRewrite(_ *cobra.Command, _ []string) error {
	root := rewriteRoot
	if root == "" {
		root = os.Getenv("COURSES_DIR")
	}
	if root == "" {
		return fmt.Errorf("--root or COURSES_DIR is required")
	}

	if rewriteOutputFile != "" {
		return writeFile(rewriteOutputFile, func(w io.Writer) error {
			return rewriteLaunchPage(root, rewriteCourse, w)
		})
	}
	return rewriteLaunchPage(root, rewriteCourse, os.Stdout)
}

// rewriteLaunchPage rewrites the launch page of course ("<type>/<name>") under root
func rewriteLaunchPage(root, course string, out io.Writer) error {
	courseType, name, ok := strings.Cut(course, "/")
	if !ok || courseType == "" || name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("course must be <type>/<name>, got %q", course)
	}

	// Validates the course path before anything touches the filesystem
	if _, err := rewrite.ScriptSources(courseType, course); err != nil {
		return err
	}

	pagePath := filepath.Join(root, courseType, name, filepath.FromSlash(catalog.LaunchPath(courseType)))
	page, err := os.ReadFile(pagePath)
	if err != nil {
		return fmt.Errorf("failed to read launch page: %w", err)
	}

	rewritten, err := rewrite.Page(page, courseType, course)
	if err != nil {
		return err
	}
	if _, err := out.Write(rewritten); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	return nil
}
