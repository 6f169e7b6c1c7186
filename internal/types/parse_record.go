package types

import (
	"time"

	"github.com/google/uuid"
)

// ParseRecord is a stored result of one manifest parse.
type ParseRecord struct {
	ID           uuid.UUID        `json:"id"`
	Location     string           `json:"location"`
	ScormVersion string           `json:"scormVersion"`
	LinkCount    int              `json:"linkCount"`
	Links        []NavigationLink `json:"links,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
}
