package envelope

import (
	"encoding/xml"
	"strings"
)

// DocumentName is the Name of the synthetic node returned by Parse.
const DocumentName = "#document"

// Node is one element or text run of a parsed envelope. Text runs have an empty Name.
type Node struct {
	Name     string
	Space    string
	Attrs    []xml.Attr
	Children []*Node
	data     string
}

// IsText reports whether n is a character-data node.
func (n *Node) IsText() bool {
	return n != nil && n.Name == ""
}

// Text returns the concatenated character data of n and all its descendants, in document order.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	if n.IsText() {
		return n.data
	}
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	for _, c := range n.Children {
		if c.IsText() {
			b.WriteString(c.data)
			continue
		}
		c.writeText(b)
	}
}

// Attr returns the value of the named attribute, or "".
func (n *Node) Attr(name string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// First returns the first descendant element named tagName in depth-first document order, or nil.
func (n *Node) First(tagName string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.IsText() {
			continue
		}
		if c.Name == tagName {
			return c
		}
		if found := c.First(tagName); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant element named tagName in document order.
func (n *Node) FindAll(tagName string) []*Node {
	var out []*Node
	n.collect(tagName, &out)
	return out
}

func (n *Node) collect(tagName string, out *[]*Node) {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		if c.IsText() {
			continue
		}
		if c.Name == tagName {
			*out = append(*out, c)
		}
		c.collect(tagName, out)
	}
}

// Elements returns the direct element children of n.
func (n *Node) Elements() []*Node {
	if n == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if !c.IsText() {
			out = append(out, c)
		}
	}
	return out
}

// GetFirstTagValue returns the text of the first descendant named tagName, or "" when absent.
// Sparse vendor responses omit tags routinely, so absence is not an error.
func GetFirstTagValue(n *Node, tagName string) string {
	return n.First(tagName).Text()
}

// Markup serialises n back to XML. A document node serialises its children.
func (n *Node) Markup() string {
	var b strings.Builder
	n.writeMarkup(&b)
	return b.String()
}

func (n *Node) writeMarkup(b *strings.Builder) {
	if n == nil {
		return
	}
	if n.IsText() {
		_ = xml.EscapeText(b, []byte(n.data))
		return
	}
	if n.Name == DocumentName {
		for _, c := range n.Children {
			c.writeMarkup(b)
		}
		return
	}
	b.WriteByte('<')
	b.WriteString(n.Name)
	for _, a := range n.Attrs {
		b.WriteByte(' ')
		if a.Name.Space != "" {
			b.WriteString(a.Name.Space)
			b.WriteByte(':')
		}
		b.WriteString(a.Name.Local)
		b.WriteString(`="`)
		_ = xml.EscapeText(b, []byte(a.Value))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	for _, c := range n.Children {
		c.writeMarkup(b)
	}
	b.WriteString("</")
	b.WriteString(n.Name)
	b.WriteByte('>')
}
