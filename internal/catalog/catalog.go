// Package catalog scans a course directory tree and lists the launchable courses in it.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jonathan/course-navigator/internal/scorm"
	"github.com/jonathan/course-navigator/internal/types"
	"golang.org/x/sync/errgroup"
)

// ManifestName is the package descriptor file looked up in every course directory.
const ManifestName = "imsmanifest.xml"

// DefaultLaunchPath is used for course types without an entry in launchPaths.
const DefaultLaunchPath = "/index.html"

// DefaultConcurrency bounds the number of manifests parsed at once by Enrich.
const DefaultConcurrency = 4

// ErrNotDirectory is returned when the catalog root is not a directory.
var ErrNotDirectory = errors.New("catalog root is not a directory")

var launchPaths = map[string]string{
	"rise":      "/scormcontent/index.html",
	"storyline": "/story/story.html",
	"captivate": "/index.html",
}

// LaunchPath returns the default launch file of a course type, relative to the course directory.
func LaunchPath(courseType string) string {
	if p, ok := launchPaths[courseType]; ok {
		return p
	}
	return DefaultLaunchPath
}

// Scan lists courses laid out as root/<type>/<name>/. A course is listed only when its
// launch file exists. Results are sorted by type, then name.
func Scan(root string) ([]types.Course, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat catalog root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	typeDirs, err := subdirectories(root)
	if err != nil {
		return nil, err
	}

	courses := []types.Course{}
	for _, courseType := range typeDirs {
		names, err := subdirectories(filepath.Join(root, courseType))
		if err != nil {
			return nil, err
		}
		launchPath := LaunchPath(courseType)
		for _, name := range names {
			dir := filepath.Join(root, courseType, name)
			if !isFile(filepath.Join(dir, filepath.FromSlash(launchPath))) {
				continue
			}
			course := types.Course{
				Type:       courseType,
				Name:       name,
				Path:       courseType + "/" + name,
				LaunchPath: launchPath,
			}
			if manifest := filepath.Join(dir, ManifestName); isFile(manifest) {
				course.ManifestPath = filepath.ToSlash(filepath.Join(courseType, name, ManifestName))
			}
			courses = append(courses, course)
		}
	}

	sort.SliceStable(courses, func(i, j int) bool {
		if courses[i].Type != courses[j].Type {
			return courses[i].Type < courses[j].Type
		}
		return courses[i].Name < courses[j].Name
	})
	return courses, nil
}

// ParserFor returns the parser used for one course.
type ParserFor func(course types.Course) *scorm.Parser

// Enrich parses the manifest of every course that has one and attaches the links.
// Each course gets an independent parse; a failing manifest is recorded on its course
// and does not stop the others. Enrich only returns an error when ctx is canceled.
func Enrich(ctx context.Context, root string, courses []types.Course, parserFor ParserFor, limit int) error {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range courses {
		if courses[i].ManifestPath == "" {
			continue
		}
		course := &courses[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			location := filepath.ToSlash(filepath.Join(root, filepath.FromSlash(course.ManifestPath)))
			result, err := parserFor(*course).Parse(ctx, location)
			if err != nil {
				course.ParseError = err.Error()
				return nil
			}
			course.ScormVersion = result.Version
			course.Links = result.Links
			return nil
		})
	}

	return g.Wait()
}

// Find returns the course with the given type and name.
func Find(courses []types.Course, courseType, name string) (types.Course, bool) {
	for _, c := range courses {
		if c.Type == courseType && c.Name == name {
			return c, true
		}
	}
	return types.Course{}, false
}

func subdirectories(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
