package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/course-navigator/internal/catalog"
	"github.com/jonathan/course-navigator/internal/observability"
	"github.com/jonathan/course-navigator/internal/rewrite"
	"github.com/jonathan/course-navigator/internal/scorm"
	"github.com/jonathan/course-navigator/internal/types"
)

var errRewriteSkipped = errors.New("no script set for course type")

// parse runs one independent manifest parse and records its outcome
func (s *Server) parse(ctx context.Context, cfg scorm.Config, location string) (*scorm.Result, error) {
	start := time.Now()
	result, err := s.newParser(cfg).Parse(ctx, location)
	if err != nil {
		s.metrics.ObserveParse(start, parseOutcome(err), 0)
		return nil, err
	}
	s.metrics.ObserveParse(start, observability.OutcomeSuccess, len(result.Links))
	return result, nil
}

func (s *Server) newParser(cfg scorm.Config) *scorm.Parser {
	return scorm.NewParser(cfg, scorm.WithLoader(scorm.LoaderFunc(s.loadManifest)), scorm.WithLogger(s.logger))
}

// loadManifest maps locations under ContentPrefix onto the courses directory.
// Links built from such a location are paths on this server.
func (s *Server) loadManifest(ctx context.Context, location string) ([]byte, error) {
	if rel, ok := strings.CutPrefix(location, ContentPrefix); ok && s.coursesDir != "" {
		location = filepath.Join(s.coursesDir, filepath.FromSlash(rel))
	}
	return s.loader.Load(ctx, location)
}

// courseParser builds parsers for catalog courses from the request's query string.
func (s *Server) courseParser(r *http.Request) catalog.ParserFor {
	cfg := courseConfig(r.URL.Query())
	return func(types.Course) *scorm.Parser {
		return s.newParser(cfg)
	}
}

// courseConfig reads learner fields from the query string.
func courseConfig(q url.Values) scorm.Config {
	debug, _ := strconv.ParseBool(q.Get("debug"))
	return scorm.Config{
		BasePath:    q.Get("basePath"),
		StudentID:   q.Get("studentId"),
		StudentName: q.Get("studentName"),
		CourseID:    q.Get("courseId"),
		Debug:       debug,
	}
}

func parseRequestConfig(req ParseRequest) scorm.Config {
	return scorm.Config{
		BasePath:    req.BasePath,
		StudentID:   req.StudentID,
		StudentName: req.StudentName,
		CourseID:    req.CourseID,
		Debug:       req.Debug,
	}
}

func parseOutcome(err error) string {
	var manifestErr *scorm.ManifestParsingError
	if errors.As(err, &manifestErr) && manifestErr.Stage == scorm.StageLoad {
		return observability.OutcomeLoadError
	}
	return observability.OutcomeParseError
}

// rewritePage injects the course tool scripts into a launch page
func rewritePage(page []byte, course types.Course) ([]byte, error) {
	out, err := rewrite.Page(page, course.Type, course.Path)
	if errors.Is(err, rewrite.ErrUnsupportedCourseType) {
		return nil, errRewriteSkipped
	}
	return out, err
}
