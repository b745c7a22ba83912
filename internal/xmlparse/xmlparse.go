package xmlparse

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Attr is a single attribute of a markup node. Attributes keep their
// document order so diagnostics stay stable.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of a parsed markup tree. Text only covers character
// data before the first child element, mirroring how the skinning engine
// reads element content.
type Node struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Node
	Line     int
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// Find returns the first direct child with the given tag, or nil.
func (n *Node) Find(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// FindAll returns every node in the subtree (including n itself) with the
// given tag, in document order.
func (n *Node) FindAll(tag string) []*Node {
	var out []*Node
	n.Walk(func(node *Node) {
		if node.Tag == tag {
			out = append(out, node)
		}
	})
	return out
}

// Walk visits n and every descendant in document order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Clone returns a deep copy of the subtree.
func (n *Node) Clone() *Node {
	out := &Node{
		Tag:  n.Tag,
		Text: n.Text,
		Line: n.Line,
	}
	if len(n.Attrs) > 0 {
		out.Attrs = make([]Attr, len(n.Attrs))
		copy(out.Attrs, n.Attrs)
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, c.Clone())
	}
	return out
}

var bomPrefix = []byte{0xEF, 0xBB, 0xBF}

// HasBOM reports whether the content starts with a UTF-8 byte order mark.
func HasBOM(data []byte) bool {
	return bytes.HasPrefix(data, bomPrefix)
}

// ParseFile parses a markup file into its root node. A missing or
// malformed file yields a nil tree and an error; callers are expected to
// recover locally and skip the file.
func ParseFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	root, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// Parse parses markup content into its root node, attaching source line
// numbers computed from token offsets.
func Parse(data []byte) (*Node, error) {
	data = bytes.TrimPrefix(data, bomPrefix)
	lines := lineOffsets(data)

	dec := xml.NewDecoder(bytes.NewReader(data))
	var root *Node
	var stack []*Node

	for {
		start := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{
				Tag:  t.Name.Local,
				Line: lineAt(lines, start),
			}
			for _, a := range t.Attr {
				node.Attrs = append(node.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("line %d: multiple root elements", node.Line)
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unexpected closing tag </%s>", t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			cur := stack[len(stack)-1]
			// Only text before the first child element counts as
			// element content.
			if len(cur.Children) == 0 {
				cur.Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("no root element")
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("unclosed element <%s>", stack[len(stack)-1].Tag)
	}
	trimText(root)
	return root, nil
}

func trimText(n *Node) {
	n.Text = strings.TrimSpace(n.Text)
	for _, c := range n.Children {
		trimText(c)
	}
}

// lineOffsets returns the byte offset of the start of every line.
func lineOffsets(data []byte) []int64 {
	offsets := []int64{0}
	for i, b := range data {
		if b == '\n' {
			offsets = append(offsets, int64(i)+1)
		}
	}
	return offsets
}

func lineAt(offsets []int64, off int64) int {
	// First line whose start is past the offset; the offset belongs to
	// the line before it.
	idx := sort.Search(len(offsets), func(i int) bool { return offsets[i] > off })
	return idx
}
