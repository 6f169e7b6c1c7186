package scorm

import (
	"strings"

	"github.com/jonathan/course-navigator/internal/types"
	"go.uber.org/zap"
)

// DefaultTitle is used for items without a title element or with an empty one.
const DefaultTitle = "Untitled"

// ResolutionPolicy decides what happens to an item whose identifierref does not
// resolve to a resource.
type ResolutionPolicy int

const (
	// DropSubtreeOnUnresolvedReference omits the item and every item nested in it,
	// even descendants that would resolve on their own.
	DropSubtreeOnUnresolvedReference ResolutionPolicy = iota
)

func (p ResolutionPolicy) String() string {
	switch p {
	case DropSubtreeOnUnresolvedReference:
		return "drop-subtree-on-unresolved-reference"
	default:
		return "unknown"
	}
}

// traverser walks item elements depth-first and appends one link per resolvable item.
type traverser struct {
	tree      *Tree
	resources ResourceMap
	links     LinkGenerator
	version   string
	logger    *zap.Logger
	debug     bool

	out []types.NavigationLink
}

// topLevelItems returns item elements that are not nested in another item, in document order.
func topLevelItems(t *Tree) []int {
	var out []int
	for _, n := range t.ElementsNamed("item") {
		if !t.HasAncestorNamed(n, "item") {
			out = append(out, n)
		}
	}
	return out
}

// traverse visits siblings in order. parentIndex is the output position of the link of the
// nearest emitted ancestor, or types.NoParent.
func (tr *traverser) traverse(items []int, parentIndex int) {
	for _, item := range items {
		identifier, _ := tr.tree.Attr(item, "identifier")
		ref, _ := tr.tree.Attr(item, "identifierref")

		res, ok := tr.resolve(ref)
		if !ok {
			if tr.debug {
				tr.logger.Debug("skipping item due to missing resource",
					zap.String("identifier", identifier),
					zap.String("identifierref", ref))
			}
			// DropSubtreeOnUnresolvedReference: the children of this item are never visited.
			continue
		}

		pair := tr.links.Generate(res.Href, res)
		link := types.NavigationLink{
			Title:           tr.title(item),
			Identifier:      identifier,
			ParentIndex:     parentIndex,
			Href:            res.Href,
			ScormType:       res.ScormType,
			ScormVersion:    tr.version,
			MasteryScore:    res.MasteryScore,
			MaxTimeAllowed:  res.MaxTimeAllowed,
			TimeLimitAction: res.TimeLimitAction,
			DataFromLMS:     res.DataFromLMS,
			PackageRelative: pair.PackageRelative,
			ServerRelative:  pair.ServerRelative,
		}
		tr.out = append(tr.out, link)
		index := len(tr.out) - 1
		if tr.debug {
			tr.logger.Debug("parsed item",
				zap.String("title", link.Title),
				zap.String("identifier", link.Identifier),
				zap.Int("index", index))
		}

		if children := tr.tree.ChildrenNamed(item, "item"); len(children) > 0 {
			tr.traverse(children, index)
		}
	}
}

func (tr *traverser) resolve(ref string) (Resource, bool) {
	if ref == "" {
		return Resource{}, false
	}
	res, ok := tr.resources[ref]
	return res, ok
}

func (tr *traverser) title(item int) string {
	n := tr.tree.FirstChildNamed(item, "title")
	if n == noNode {
		return DefaultTitle
	}
	if title := strings.TrimSpace(tr.tree.TextContent(n)); title != "" {
		return title
	}
	return DefaultTitle
}
