// Package observability provides logging, metrics and formatted CLI output.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/course-navigator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxCoursesToShow is the default number of courses listed by PrintCatalog
	maxCoursesToShow = 20
)

// Printer handles formatted output for the tree output format
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// Depths returns the nesting depth of every link, derived from ParentIndex.
// Links whose parent index is out of range are treated as top level.
func Depths(links []types.NavigationLink) []int {
	depths := make([]int, len(links))
	for i, link := range links {
		if link.ParentIndex >= 0 && link.ParentIndex < i {
			depths[i] = depths[link.ParentIndex] + 1
		}
	}
	return depths
}

// PrintOutline outputs the navigation links as an indented outline.
func (p *Printer) PrintOutline(location, version string, links []types.NavigationLink) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Manifest: %s\n", location))
	sb.WriteString(fmt.Sprintf("Version:  %s\n", version))
	sb.WriteString(fmt.Sprintf("Links:    %d\n", len(links)))

	if len(links) > 0 {
		sb.WriteString("\n")
	}
	depths := Depths(links)
	for i, link := range links {
		indent := strings.Repeat("  ", depths[i])
		target := link.Href
		if target == "" {
			target = "(no launch file)"
		}
		sb.WriteString(fmt.Sprintf("%s• %s → %s\n", indent, link.Title, target))
	}

	p.printBox("COURSE OUTLINE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCatalog outputs the scanned courses with their launch paths.
func (p *Printer) PrintCatalog(courses []types.Course) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Courses found: %d\n", len(courses)))

	count := min(len(courses), maxCoursesToShow)
	for i := 0; i < count; i++ {
		c := courses[i]
		sb.WriteString(fmt.Sprintf("\n%s  [%s]\n", c.Name, c.Type))
		sb.WriteString(fmt.Sprintf("    Launch: %s%s\n", c.Path, c.LaunchPath))
		switch {
		case c.ParseError != "":
			sb.WriteString(fmt.Sprintf("    Manifest error: %s\n", c.ParseError))
		case c.ScormVersion != "":
			sb.WriteString(fmt.Sprintf("    SCORM %s, %d links\n", c.ScormVersion, len(c.Links)))
		case c.ManifestPath == "":
			sb.WriteString("    No manifest\n")
		}
	}

	if len(courses) > maxCoursesToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more courses", len(courses)-maxCoursesToShow))
	}

	p.printBox("COURSE CATALOG", strings.TrimSuffix(sb.String(), "\n"))
}
