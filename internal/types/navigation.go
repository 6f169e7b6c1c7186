// Package types provides type definitions for structured data shared by the parser, catalog, store and server.
//
//nolint:revive // types is a standard Go package name pattern
package types

// NavigationLink is one launchable entry of a course outline.
// ParentIndex points into the same link list; -1 marks a top-level entry.
type NavigationLink struct {
	Title           string  `json:"title"`
	Identifier      string  `json:"identifier"`
	ParentIndex     int     `json:"parentIndex"`
	Href            string  `json:"href"`
	ScormType       string  `json:"scormType"`
	ScormVersion    string  `json:"scormVersion"`
	MasteryScore    string  `json:"masteryScore"`
	MaxTimeAllowed  string  `json:"maxTimeAllowed"`
	TimeLimitAction string  `json:"timeLimitAction"`
	DataFromLMS     string  `json:"dataFromLms"`
	PackageRelative *string `json:"packageRelative"`
	ServerRelative  *string `json:"serverRelative"`
}

// NoParent is the ParentIndex of links whose item has no emitted ancestor.
const NoParent = -1
