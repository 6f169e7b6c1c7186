package schemas

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/jonathan/course-navigator/internal/types"
)

//go:embed navigation_links.schema.json
var navigationLinksSchema string

// NavigationLinksSchema returns the JSON Schema of a navigation link list.
func NavigationLinksSchema() string {
	return navigationLinksSchema
}

// ValidateNavigationLinks checks a link list against the navigation links schema.
// A nil list is validated as an empty array.
func ValidateNavigationLinks(links []types.NavigationLink) error {
	if links == nil {
		links = []types.NavigationLink{}
	}
	data, err := json.Marshal(links)
	if err != nil {
		return fmt.Errorf("failed to marshal navigation links: %w", err)
	}
	return ValidateJSONString(navigationLinksSchema, string(data))
}
