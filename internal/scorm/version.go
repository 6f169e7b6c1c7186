package scorm

import "strings"

// Version tags produced by DetectVersion besides a verbatim schemaversion value.
const (
	Version12      = "1.2"
	Version2004    = "2004"
	VersionUnknown = "unknown"
)

const (
	marker12   = "v1p2"
	marker2004 = "2004"
)

// DetectVersion classifies the packaging dialect of a manifest. It is a heuristic, not
// schema validation, and VersionUnknown is a normal outcome.
//
// Priority: the trimmed text of the first metadata/schemaversion element wins outright;
// otherwise the manifest's xmlns, xmlns:adlcp and schemaLocation attributes are searched
// for the 1.2 marker and then the 2004 marker.
func DetectVersion(t *Tree) string {
	if v, ok := schemaVersion(t); ok {
		return v
	}

	manifest := manifestNode(t)
	if manifest == noNode {
		return VersionUnknown
	}

	candidates := packagingAttrs(t, manifest)
	for _, marker := range []struct{ needle, version string }{
		{marker12, Version12},
		{marker2004, Version2004},
	} {
		for _, v := range candidates {
			if strings.Contains(v, marker.needle) {
				return marker.version
			}
		}
	}

	return VersionUnknown
}

func schemaVersion(t *Tree) (string, bool) {
	metadata := t.ElementsNamed("metadata")
	if len(metadata) == 0 {
		return "", false
	}
	sv := t.FirstDescendantNamed(metadata[0], "schemaversion")
	if sv == noNode {
		return "", false
	}
	v := strings.TrimSpace(t.TextContent(sv))
	return v, v != ""
}

func manifestNode(t *Tree) int {
	if t.Is(t.Root(), "manifest") {
		return t.Root()
	}
	if all := t.ElementsNamed("manifest"); len(all) > 0 {
		return all[0]
	}
	return noNode
}

// packagingAttrs returns the default namespace, the adlcp namespace and the schema
// location of the manifest element, skipping the ones that are absent.
func packagingAttrs(t *Tree, manifest int) []string {
	var out []string
	for _, a := range t.Nodes[manifest].Attrs {
		switch {
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			out = append(out, a.Value)
		case a.Name.Space == "xmlns" && a.Name.Local == "adlcp":
			out = append(out, a.Value)
		case a.Name.Local == "schemaLocation":
			out = append(out, a.Value)
		}
	}
	return out
}
