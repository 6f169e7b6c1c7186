package scorm

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// noNode marks the absence of a node index (the root's parent, failed lookups).
const noNode = -1

// Node is one element of a parsed manifest. Children and Parent are indices into Tree.Nodes.
type Node struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Text     string // character data directly inside this element
	Parent   int
	Children []int

	runs []textRun
}

// textRun is a chunk of character data that appeared before Children[before].
type textRun struct {
	before int
	text   string
}

// Tree is an owned, read-only element arena produced by a single parse.
// Nodes are stored in document (pre-order) order, so Nodes[0] is the root.
type Tree struct {
	Nodes []Node
}

// ParseTree decodes manifest XML into a Tree. Any well-formedness error aborts the parse.
func ParseTree(data []byte) (*Tree, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	t := &Tree{}
	stack := []int{}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && len(t.Nodes) > 0 {
				return nil, fmt.Errorf("multiple root elements: <%s> follows the document element", el.Name.Local)
			}
			parent := noNode
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			idx := len(t.Nodes)
			t.Nodes = append(t.Nodes, Node{
				Name:   el.Name,
				Attrs:  append([]xml.Attr(nil), el.Attr...),
				Parent: parent,
			})
			if parent != noNode {
				t.Nodes[parent].Children = append(t.Nodes[parent].Children, idx)
			}
			stack = append(stack, idx)
		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(el)) > 0 {
					return nil, errors.New("character data outside the document element")
				}
				continue
			}
			n := &t.Nodes[stack[len(stack)-1]]
			n.Text += string(el)
			n.runs = append(n.runs, textRun{before: len(n.Children), text: string(el)})
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}

	if len(t.Nodes) == 0 {
		return nil, errors.New("document has no root element")
	}
	return t, nil
}

// Root returns the index of the document element.
func (t *Tree) Root() int {
	return 0
}

// TextContent returns the character data of n and all its descendants in document order,
// like DOM textContent.
func (t *Tree) TextContent(n int) string {
	var b strings.Builder
	t.writeText(&b, n)
	return b.String()
}

func (t *Tree) writeText(b *strings.Builder, n int) {
	node := &t.Nodes[n]
	r := 0
	for i, c := range node.Children {
		for ; r < len(node.runs) && node.runs[r].before <= i; r++ {
			b.WriteString(node.runs[r].text)
		}
		t.writeText(b, c)
	}
	for ; r < len(node.runs); r++ {
		b.WriteString(node.runs[r].text)
	}
}

// Attr returns the value of the attribute whose local name equals name.
func (t *Tree) Attr(n int, name string) (string, bool) {
	for _, a := range t.Nodes[n].Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrFold is Attr with case-insensitive local name matching.
func (t *Tree) AttrFold(n int, name string) (string, bool) {
	for _, a := range t.Nodes[n].Attrs {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value, true
		}
	}
	return "", false
}

// Is reports whether node n has the given local element name (case-insensitive).
func (t *Tree) Is(n int, local string) bool {
	return strings.EqualFold(t.Nodes[n].Name.Local, local)
}

// ChildrenNamed returns the direct children of n with the given local name, in document order.
func (t *Tree) ChildrenNamed(n int, local string) []int {
	var out []int
	for _, c := range t.Nodes[n].Children {
		if t.Is(c, local) {
			out = append(out, c)
		}
	}
	return out
}

// FirstChildNamed returns the first direct child of n with the given local name, or -1.
func (t *Tree) FirstChildNamed(n int, local string) int {
	for _, c := range t.Nodes[n].Children {
		if t.Is(c, local) {
			return c
		}
	}
	return noNode
}

// ElementsNamed returns every element with the given local name in document order.
func (t *Tree) ElementsNamed(local string) []int {
	var out []int
	for i := range t.Nodes {
		if t.Is(i, local) {
			out = append(out, i)
		}
	}
	return out
}

// FirstDescendantNamed returns the first element below n (excluding n) with the given local name, or -1.
func (t *Tree) FirstDescendantNamed(n int, local string) int {
	for _, c := range t.Nodes[n].Children {
		if t.Is(c, local) {
			return c
		}
		if d := t.FirstDescendantNamed(c, local); d != noNode {
			return d
		}
	}
	return noNode
}

// HasAncestorNamed reports whether any ancestor of n has the given local name.
func (t *Tree) HasAncestorNamed(n int, local string) bool {
	for p := t.Nodes[n].Parent; p != noNode; p = t.Nodes[p].Parent {
		if t.Is(p, local) {
			return true
		}
	}
	return false
}
