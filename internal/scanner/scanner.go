package scanner

import (
	"regexp"
	"strings"

	"github.com/skin-community/skin-dev-tools/internal/xmlparse"
)

// Kind is the reference kind of an extracted use.
type Kind string

const (
	KindVariable  Kind = "variable"
	KindInclude   Kind = "include"
	KindFont      Kind = "font"
	KindLabel     Kind = "label"
	KindWindowID  Kind = "window"
	KindControlID Kind = "control"
)

// Reference is a uniform record of a name use (or an id definition) with
// its source location.
type Reference struct {
	Name string
	Kind Kind
	File string
	Line int
	Tag  string
}

// FileScan is everything extracted from one window-markup file.
type FileScan struct {
	File string
	Refs []Reference
	// WindowID is the root element's id attribute, when present.
	WindowID string
	// IDDefs are the nodes defining an id attribute anywhere in the tree.
	IDDefs []Reference
	HasBOM bool
}

var (
	varRe      = regexp.MustCompile(`\$VAR\[(.*?)\]`)
	windowRe   = regexp.MustCompile(`(?i)(?:Dialog\.Close|Window\.IsActive|Window\.IsVisible|Window)\((\d+)\)`)
	parenNumRe = regexp.MustCompile(`\(([0-9]*)\)`)
	localizeRe = regexp.MustCompile(`\$LOCALIZE\[([0-9].*?)\]`)
	digitsRe   = regexp.MustCompile(`^(\d+)$`)
)

// conditionTags carry boolean expressions in their text and contribute
// window/control id references.
var conditionTags = map[string]bool{
	"visible":       true,
	"enable":        true,
	"usealttexture": true,
	"selected":      true,
	"onclick":       true,
	"onback":        true,
}

// labelTextTags contribute label id references through their text.
var labelTextTags = map[string]bool{
	"label":    true,
	"altlabel": true,
	"label2":   true,
	"value":    true,
	"onclick":  true,
	"property": true,
}

// AttrCheck names an attribute whose value is treated as label content.
type AttrCheck struct {
	Tag  string
	Attr string
}

// LabelAttrChecks are the attribute positions that carry label ids (and
// are subject to the untranslated-text check).
var LabelAttrChecks = []AttrCheck{
	{Tag: "viewtype", Attr: "label"},
	{Tag: "fontset", Attr: "idloc"},
	{Tag: "label", Attr: "fallback"},
}

// IncludeNamePrefix marks include references generated by the
// skin-shortcuts script; they have no static definition.
const IncludeNamePrefix = "skinshortcuts-"

// ScanFile extracts every typed reference from one window-markup file.
// The raw content is needed because variable references are scanned
// line-oriented; the tree may be nil on parse failure, in which case only
// the line-oriented scans run.
func ScanFile(path string, data []byte, tree *xmlparse.Node) *FileScan {
	scan := &FileScan{File: path, HasBOM: xmlparse.HasBOM(data)}
	scan.scanVariables(data)
	if tree == nil {
		return scan
	}
	if id, ok := tree.Attr("id"); ok {
		scan.WindowID = id
	}
	tree.Walk(func(node *xmlparse.Node) {
		scan.scanNode(node)
	})
	return scan
}

// scanVariables runs the line-oriented $VAR[...] scan. Variable
// references can sit in free text the tree accessor does not expose per
// line, so this works on the raw content.
func (s *FileScan) scanVariables(data []byte) {
	for i, line := range strings.Split(string(data), "\n") {
		for _, m := range varRe.FindAllStringSubmatch(line, -1) {
			name, _, _ := strings.Cut(m[1], ",")
			s.Refs = append(s.Refs, Reference{
				Name: name,
				Kind: KindVariable,
				File: s.File,
				Line: i + 1,
			})
		}
	}
}

func (s *FileScan) scanNode(node *xmlparse.Node) {
	if id, ok := node.Attr("id"); ok {
		s.IDDefs = append(s.IDDefs, Reference{
			Name: id,
			Kind: KindControlID,
			File: s.File,
			Line: node.Line,
			Tag:  node.Tag,
		})
	}

	switch {
	case node.Tag == "include":
		s.scanInclude(node)
	case node.Tag == "font" && node.Text != "":
		s.Refs = append(s.Refs, Reference{
			Name: node.Text,
			Kind: KindFont,
			File: s.File,
			Line: node.Line,
			Tag:  node.Tag,
		})
	}

	if conditionTags[node.Tag] && node.Text != "" {
		s.scanIDs(node.Text, node)
	}
	if cond, ok := node.Attr("condition"); ok {
		s.scanIDs(cond, node)
	}

	if labelTextTags[node.Tag] && node.Text != "" {
		s.scanLabels(node.Text, node)
	}
	for _, check := range LabelAttrChecks {
		if node.Tag != check.Tag {
			continue
		}
		if value, ok := node.Attr(check.Attr); ok {
			s.scanLabels(value, node)
		}
	}
}

// scanInclude records an include-name reference: either the node text
// (unless it is skin-shortcuts generated content) or, for parametrized
// includes, the name attribute next to a param child. Nodes matching
// neither form are skipped.
func (s *FileScan) scanInclude(node *xmlparse.Node) {
	var name string
	switch {
	case node.Text != "" && !strings.HasPrefix(node.Text, IncludeNamePrefix):
		name = node.Text
	case node.Find("param") != nil:
		var ok bool
		if name, ok = node.Attr("name"); !ok {
			return
		}
	default:
		return
	}
	s.Refs = append(s.Refs, Reference{
		Name: name,
		Kind: KindInclude,
		File: s.File,
		Line: node.Line,
		Tag:  node.Tag,
	})
}

// scanIDs extracts window and control/item id references from a boolean
// expression. The original tooling pairs a window-builtin pattern with a
// negative-lookahead regex; RE2 has no lookahead, so the builtin check is
// a substring test and the control id is the last parenthesized number.
func (s *FileScan) scanIDs(text string, node *xmlparse.Node) {
	for _, m := range windowRe.FindAllStringSubmatch(text, -1) {
		s.Refs = append(s.Refs, Reference{
			Name: m[1],
			Kind: KindWindowID,
			File: s.File,
			Line: node.Line,
			Tag:  node.Tag,
		})
	}
	if hasWindowBuiltin(text) {
		return
	}
	matches := parenNumRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return
	}
	s.Refs = append(s.Refs, Reference{
		Name: matches[len(matches)-1][1],
		Kind: KindControlID,
		File: s.File,
		Line: node.Line,
		Tag:  node.Tag,
	})
}

func hasWindowBuiltin(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "window") ||
		strings.Contains(lower, "isactive") ||
		strings.Contains(lower, "dialog.close")
}

// scanLabels extracts label id references: the $LOCALIZE wrapper and bare
// all-digit content.
func (s *FileScan) scanLabels(text string, node *xmlparse.Node) {
	for _, m := range localizeRe.FindAllStringSubmatch(text, -1) {
		s.Refs = append(s.Refs, Reference{
			Name: m[1],
			Kind: KindLabel,
			File: s.File,
			Line: node.Line,
			Tag:  node.Tag,
		})
	}
	if m := digitsRe.FindStringSubmatch(text); m != nil {
		s.Refs = append(s.Refs, Reference{
			Name: m[1],
			Kind: KindLabel,
			File: s.File,
			Line: node.Line,
			Tag:  node.Tag,
		})
	}
}
