// Package slicemeta rewrites the XML metadata members of a 3MF package for
// the target printer: the slice-info filament table and the model-settings
// extruder references. Extraction is lenient, rewriting is not.
package slicemeta

import (
	"encoding/xml"
	"strings"
)

// node is a generic element tree that preserves attribute order and child
// order through encoding/xml.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []*node    `xml:",any"`
	Text     string     `xml:",chardata"`
}

func parse(data []byte) (*node, error) {
	var root node
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	root.trimText()
	return &root, nil
}

// trimText clears whitespace-only character data so re-indented output does
// not double up the original formatting.
func (n *node) trimText() {
	if strings.TrimSpace(n.Text) == "" {
		n.Text = ""
	}
	for _, c := range n.Children {
		c.trimText()
	}
}

func serialize(root *node) ([]byte, error) {
	body, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

// find returns the first descendant with the given local name in document
// order, or nil.
func (n *node) find(local string) *node {
	for _, c := range n.Children {
		if c.XMLName.Local == local {
			return c
		}
		if found := c.find(local); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every descendant with the given local name in document
// order.
func (n *node) findAll(local string) []*node {
	var out []*node
	for _, c := range n.Children {
		if c.XMLName.Local == local {
			out = append(out, c)
		}
		out = append(out, c.findAll(local)...)
	}
	return out
}

func (n *node) attr(local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// setAttr updates an attribute in place, appending it if absent.
func (n *node) setAttr(local, value string) {
	for i, a := range n.Attrs {
		if a.Name.Local == local {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: local}, Value: value})
}
