package scorm

// Resource is one launchable manifest entry with its ADL runtime metadata.
// Absent attributes are empty strings.
type Resource struct {
	ID              string
	Href            string
	ScormType       string
	MasteryScore    string
	TimeLimitAction string
	MaxTimeAllowed  string
	DataFromLMS     string
}

// ResourceMap indexes resources by identifier.
type ResourceMap map[string]Resource

// BuildResourceMap indexes every resource element in one flat document-order pass.
// Resources without an identifier are skipped; a later duplicate identifier replaces
// the earlier entry.
func BuildResourceMap(t *Tree) ResourceMap {
	m := make(ResourceMap)
	for _, n := range t.ElementsNamed("resource") {
		id, _ := t.Attr(n, "identifier")
		if id == "" {
			continue
		}
		href, _ := t.Attr(n, "href")
		m[id] = Resource{
			ID:              id,
			Href:            href,
			ScormType:       adlAttr(t, n, "scormtype"),
			MasteryScore:    adlAttr(t, n, "masteryscore"),
			TimeLimitAction: adlAttr(t, n, "timelimitaction"),
			MaxTimeAllowed:  adlAttr(t, n, "maxtimeallowed"),
			DataFromLMS:     adlAttr(t, n, "datafromlms"),
		}
	}
	return m
}

// adlAttr reads an adlcp-prefixed attribute. SCORM 1.2 spells them in lower case,
// 2004 in camel case (scormType), so the match ignores case.
func adlAttr(t *Tree, n int, local string) string {
	v, _ := t.AttrFold(n, local)
	return v
}
