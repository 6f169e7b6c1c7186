package types

// Course is a course package found on disk by the catalog scanner.
type Course struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	Path         string `json:"path"`       // "<type>/<name>" relative to the catalog root
	LaunchPath   string `json:"launchPath"` // e.g. "/scormcontent/index.html"
	ManifestPath string `json:"manifestPath,omitempty"`

	// Populated only when the catalog is enriched with parse results
	ScormVersion string           `json:"scormVersion,omitempty"`
	Links        []NavigationLink `json:"links,omitempty"`
	ParseError   string           `json:"parseError,omitempty"`
}
