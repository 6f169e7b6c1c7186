// Package rewrite injects the course tool scripts into a course's launch page.
package rewrite

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrUnsupportedCourseType is returned for course types without a script set.
	ErrUnsupportedCourseType = errors.New("unsupported course type")
	// ErrInvalidCoursePath is returned for empty or escaping course paths.
	ErrInvalidCoursePath = errors.New("invalid course path")
)

// ScriptSet lists the scripts loaded into one kind of course, in load order.
type ScriptSet struct {
	AppDir string // directory under the app root holding src/
	Core   []string
	Tools  []string
}

var riseScripts = ScriptSet{
	AppDir: "app-articulate-rise",
	Core: []string{
		"namespace.js",
		"core/course-adapter.js",
		"core/rise-ribbon-adapter.js",
		"core/ribbon-core.js",
		"core/ribbon-config.js",
		"core/ribbon-styles.js",
		"core/ribbon-managers.js",
		"core/ribbon-extensions.js",
	},
	Tools: []string{
		"tools/grid.js",
		"tools/drag.js",
		"tools/rise-extend-drag.js",
		"tools/navlist.js",
		"tools/guide.js",
		"tools/resize.js",
		"tools/resize-img.js",
		"tools/resize-svg.js",
		"tools/text-editor.js",
		"tools/image-swap.js",
		"tools/text-styler.js",
		"tools/shape.js",
		"tools/picture.js",
		"tools/rulers.js",
		"tools/notes.js",
		"tools/save-styles.js",
	},
}

var scriptSets = map[string]ScriptSet{
	"rise":            riseScripts,
	"articulate-rise": riseScripts,
}

// InitScript is appended after the tool scripts and starts the course adapter.
const InitScript = `
    window.addEventListener('DOMContentLoaded', function() {
        if (typeof ArticulateTools !== 'undefined') {
            const adapter = new ArticulateTools.CourseAdapter();
            adapter.init();
        }
    });
`

// ScriptSetFor returns the scripts for a course type.
func ScriptSetFor(courseType string) (ScriptSet, error) {
	set, ok := scriptSets[courseType]
	if !ok {
		return ScriptSet{}, fmt.Errorf("%w: %q", ErrUnsupportedCourseType, courseType)
	}
	return set, nil
}

// AppRoot returns the relative prefix from a course's launch page back to the app root.
// coursePath is relative to the courses directory, e.g. "rise/safety".
func AppRoot(coursePath string) string {
	return strings.Repeat("../", strings.Count(coursePath, "/")+2)
}

// ScriptSources returns the src attribute of every script, core first, then tools.
func ScriptSources(courseType, coursePath string) ([]string, error) {
	if err := validateCoursePath(coursePath); err != nil {
		return nil, err
	}
	set, err := ScriptSetFor(courseType)
	if err != nil {
		return nil, err
	}

	prefix := AppRoot(coursePath) + set.AppDir + "/src/"
	srcs := make([]string, 0, len(set.Core)+len(set.Tools))
	for _, s := range set.Core {
		srcs = append(srcs, prefix+s)
	}
	for _, s := range set.Tools {
		srcs = append(srcs, prefix+s)
	}
	return srcs, nil
}

// Page appends the course tool scripts and the initialization script as the last
// children of the page body and returns the rewritten document.
func Page(page []byte, courseType, coursePath string) ([]byte, error) {
	srcs, err := ScriptSources(courseType, coursePath)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse launch page: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("\n<!-- Articulate Tools Scripts -->\n")
	for _, src := range srcs {
		fmt.Fprintf(&sb, "<script src=\"%s\"></script>\n", html.EscapeString(src))
	}
	sb.WriteString("<!-- Initialize Articulate Tools -->\n")
	sb.WriteString("<script>" + InitScript + "</script>\n")

	doc.Find("body").First().AppendHtml(sb.String())

	out, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return nil, fmt.Errorf("failed to render launch page: %w", err)
	}
	return []byte(out), nil
}

func validateCoursePath(coursePath string) error {
	if coursePath == "" || strings.HasPrefix(coursePath, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidCoursePath, coursePath)
	}
	for _, part := range strings.Split(coursePath, "/") {
		if part == ".." || part == "." || part == "" {
			return fmt.Errorf("%w: %q", ErrInvalidCoursePath, coursePath)
		}
	}
	return nil
}
