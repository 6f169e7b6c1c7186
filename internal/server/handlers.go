package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/course-navigator/internal/catalog"
	"github.com/jonathan/course-navigator/internal/fetch"
	"github.com/jonathan/course-navigator/internal/types"
)

// ParseRequest is the body of POST /manifests/parse
type ParseRequest struct {
	Manifest    string `json:"manifest" validate:"required,max=2048"`
	BasePath    string `json:"basePath" validate:"max=1024"`
	StudentID   string `json:"studentId" validate:"max=256"`
	StudentName string `json:"studentName" validate:"max=256"`
	CourseID    string `json:"courseId" validate:"max=256"`
	Debug       bool   `json:"debug"`
}

// ParseResponse carries the detected version and generated links
type ParseResponse struct {
	Version  string                 `json:"version"`
	Links    []types.NavigationLink `json:"links"`
	RecordID *uuid.UUID             `json:"recordId,omitempty"`
}

// parseQueryInt parses an integer query parameter with default and max values
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// handleParseManifest parses a manifest given by URL or by path under the courses directory
func (s *Server) handleParseManifest(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()})
		return
	}
	if err := s.validateRequest(&req); err != nil {
		s.fail(w, err)
		return
	}

	location, err := s.resolveManifest(req.Manifest)
	if err != nil {
		s.fail(w, err)
		return
	}

	cfg := parseRequestConfig(req)
	result, err := s.parse(r.Context(), cfg, location)
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := ParseResponse{Version: result.Version, Links: result.Links}
	if s.store != nil {
		id, err := s.store.SaveParseRecord(r.Context(), req.Manifest, result.Version, result.Links)
		if err != nil {
			s.logger.Error("failed to save parse record", zap.String("manifest", req.Manifest), zap.Error(err))
		} else {
			resp.RecordID = &id
		}
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleListCourses lists the courses under the courses directory.
// With ?links=true each course with a manifest is parsed and its links attached.
func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.scanCourses()
	if err != nil {
		s.fail(w, err)
		return
	}

	if withLinks, _ := strconv.ParseBool(r.URL.Query().Get("links")); withLinks {
		limit := parseQueryInt(r, "concurrency", catalog.DefaultConcurrency, 16)
		if err := catalog.Enrich(r.Context(), strings.TrimSuffix(ContentPrefix, "/"), courses, s.courseParser(r), limit); err != nil {
			s.fail(w, err)
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"courses": courses,
		"total":   len(courses),
	})
}

// handleCourseLinks parses the manifest of one catalog course
func (s *Server) handleCourseLinks(w http.ResponseWriter, r *http.Request) {
	course, err := s.findCourse(r.PathValue("type"), r.PathValue("name"))
	if err != nil {
		s.fail(w, err)
		return
	}
	if course.ManifestPath == "" {
		s.fail(w, &ErrNotFound{Resource: "manifest", ID: course.Path})
		return
	}

	result, err := s.parse(r.Context(), courseConfig(r.URL.Query()), ContentPrefix+course.ManifestPath)
	if err != nil {
		s.fail(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ParseResponse{Version: result.Version, Links: result.Links})
}

// handleCourseLaunch serves the course launch page with the course tool scripts injected.
// Course types without a script set are served unchanged.
func (s *Server) handleCourseLaunch(w http.ResponseWriter, r *http.Request) {
	course, err := s.findCourse(r.PathValue("type"), r.PathValue("name"))
	if err != nil {
		s.fail(w, err)
		return
	}

	pagePath := filepath.Join(s.coursesDir, course.Type, course.Name, filepath.FromSlash(course.LaunchPath))
	page, err := os.ReadFile(pagePath)
	if err != nil {
		s.fail(w, err)
		return
	}

	out, err := rewritePage(page, course)
	switch {
	case errors.Is(err, errRewriteSkipped):
		w.Header().Set("X-Course-Rewrite", "skipped")
		out = page
	case err != nil:
		s.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		s.logger.Warn("failed to write launch page", zap.Error(err))
	}
}

// handleContent serves course files, the targets of server-relative links
func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	if s.coursesDir == "" {
		s.fail(w, ErrNoCoursesDir)
		return
	}
	http.StripPrefix(strings.TrimSuffix(ContentPrefix, "/"), http.FileServer(http.Dir(s.coursesDir))).ServeHTTP(w, r)
}

// handleListParses lists stored parse records, newest first
func (s *Server) handleListParses(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.fail(w, ErrNoDatabase)
		return
	}

	limit := parseQueryInt(r, "limit", 20, 100)
	records, err := s.store.ListParseRecords(r.Context(), limit)
	if err != nil {
		s.fail(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"parses": records,
		"total":  len(records),
		"limit":  limit,
	})
}

// handleGetParse returns one stored parse record with its links
func (s *Server) handleGetParse(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.fail(w, ErrNoDatabase)
		return
	}

	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.fail(w, &ErrValidation{Field: "id", Message: "invalid parse record ID"})
		return
	}

	record, err := s.store.GetParseRecord(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	if record == nil {
		s.fail(w, &ErrNotFound{Resource: "parse record", ID: idStr})
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}

// validateRequest runs struct validation and reports the first failing field
func (s *Server) validateRequest(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: jsonFieldName(fe.Field()), Message: "failed '" + fe.Tag() + "' validation"}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}

// jsonFieldName lower-cases the first letter of a ParseRequest field name
func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// resolveManifest maps a request location to a loadable one. Remote URLs pass
// through; anything else is a path relative to the courses directory and is
// rewritten under ContentPrefix.
func (s *Server) resolveManifest(location string) (string, error) {
	if fetch.IsRemote(location) {
		return location, nil
	}
	if strings.HasPrefix(location, "file://") {
		return "", &ErrValidation{Field: "manifest", Message: "file URLs are not accepted"}
	}
	if s.coursesDir == "" {
		return "", ErrNoCoursesDir
	}

	rel := filepath.Clean(filepath.FromSlash(strings.TrimLeft(location, "/")))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &ErrValidation{Field: "manifest", Message: "must be a path inside the courses directory"}
	}
	return ContentPrefix + filepath.ToSlash(rel), nil
}

// scanCourses scans the courses directory
func (s *Server) scanCourses() ([]types.Course, error) {
	if s.coursesDir == "" {
		return nil, ErrNoCoursesDir
	}
	return catalog.Scan(s.coursesDir)
}

// findCourse returns the catalog course with the given type and name
func (s *Server) findCourse(courseType, name string) (types.Course, error) {
	courses, err := s.scanCourses()
	if err != nil {
		return types.Course{}, err
	}
	course, ok := catalog.Find(courses, courseType, name)
	if !ok {
		return types.Course{}, &ErrNotFound{Resource: "course", ID: courseType + "/" + name}
	}
	return course, nil
}
