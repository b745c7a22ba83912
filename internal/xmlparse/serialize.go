package xmlparse

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// Serialize renders the tree back to indented markup. Used by the expand
// command; the output is for human inspection, not byte-for-byte round
// tripping.
func Serialize(n *Node) []byte {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	writeNode(&buf, n, 0)
	return buf.Bytes()
}

func writeNode(buf *bytes.Buffer, n *Node, depth int) {
	indent := strings.Repeat("\t", depth)
	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(n.Tag)
	for _, a := range n.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name)
		buf.WriteString(`="`)
		buf.WriteString(escape(a.Value))
		buf.WriteByte('"')
	}
	if n.Text == "" && len(n.Children) == 0 {
		buf.WriteString(" />\n")
		return
	}
	buf.WriteByte('>')
	if len(n.Children) == 0 {
		buf.WriteString(escape(n.Text))
		buf.WriteString("</")
		buf.WriteString(n.Tag)
		buf.WriteString(">\n")
		return
	}
	buf.WriteByte('\n')
	if n.Text != "" {
		buf.WriteString(strings.Repeat("\t", depth+1))
		buf.WriteString(escape(n.Text))
		buf.WriteByte('\n')
	}
	for _, c := range n.Children {
		writeNode(buf, c, depth+1)
	}
	buf.WriteString(indent)
	buf.WriteString("</")
	buf.WriteString(n.Tag)
	buf.WriteString(">\n")
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
