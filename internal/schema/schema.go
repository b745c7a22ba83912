package schema

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed skin.cue
var defaultRulesCUE []byte

// RuleSet is the declarative rule table driving the structural checks.
// Growing the dialect means editing the CUE sources, not the traversal
// code.
type RuleSet struct {
	Controls   map[string][]string `json:"controls"`
	Containers map[string][]string `json:"containers"`
	Attributes []AttrRule          `json:"attributes"`
	TagValues  []TagValueRule      `json:"tagValues"`
	AttrValues []AttrValueRule     `json:"attrValues"`

	BracketTags   []string `json:"bracketTags"`
	NoopTags      []string `json:"noopTags"`
	SingletonTags []string `json:"singletonTags"`
	WindowIDs     []int    `json:"windowIds"`
}

// AttrRule lists the attributes allowed on a group of tags. An empty
// allow list forbids every attribute.
type AttrRule struct {
	Tags  []string `json:"tags"`
	Allow []string `json:"allow"`
}

// TagValueRule restricts the text of the listed tags to a closed,
// case-insensitive value set.
type TagValueRule struct {
	Tags   []string `json:"tags"`
	Values []string `json:"values"`
}

// AttrValueRule restricts the value of one attribute to a closed set.
type AttrValueRule struct {
	Attr   string   `json:"attr"`
	Values []string `json:"values"`
}

// Default returns the built-in embedded rule set.
func Default() *RuleSet {
	rs, err := decode(defaultRulesCUE, "skin.cue")
	if err != nil {
		panic(fmt.Sprintf("failed to load default embedded rules: %v", err))
	}
	return rs
}

// LoadFile reads a rule overlay from a CUE file.
func LoadFile(path string) (*RuleSet, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decode(content, path)
}

func decode(src []byte, filename string) (*RuleSet, error) {
	ctx := cuecontext.New()
	val := ctx.CompileBytes(src, cue.Filename(filename))
	if err := val.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile rules: %v", err)
	}
	var rs RuleSet
	if err := val.Decode(&rs); err != nil {
		return nil, fmt.Errorf("failed to decode rules: %v", err)
	}
	if rs.Controls == nil {
		rs.Controls = make(map[string][]string)
	}
	if rs.Containers == nil {
		rs.Containers = make(map[string][]string)
	}
	return &rs, nil
}

// Merge adds rules from 'other' to 'r'. Map entries for the same key are
// replaced, rule lists are appended, scalar tag lists are replaced when
// the overlay provides them, and window ids are appended without
// duplicates.
func (r *RuleSet) Merge(other *RuleSet) {
	if other == nil {
		return
	}
	for name, children := range other.Controls {
		r.Controls[name] = children
	}
	for name, children := range other.Containers {
		r.Containers[name] = children
	}
	r.Attributes = append(r.Attributes, other.Attributes...)
	r.TagValues = append(r.TagValues, other.TagValues...)
	r.AttrValues = append(r.AttrValues, other.AttrValues...)

	if len(other.BracketTags) > 0 {
		r.BracketTags = other.BracketTags
	}
	if len(other.NoopTags) > 0 {
		r.NoopTags = other.NoopTags
	}
	if len(other.SingletonTags) > 0 {
		r.SingletonTags = other.SingletonTags
	}
	seen := make(map[int]bool, len(r.WindowIDs))
	for _, id := range r.WindowIDs {
		seen[id] = true
	}
	for _, id := range other.WindowIDs {
		if !seen[id] {
			r.WindowIDs = append(r.WindowIDs, id)
			seen[id] = true
		}
	}
}

// LoadProjectRules returns the default rules plus the project overlay
// (.skin_rules.cue in the project root) when present.
func LoadProjectRules(projectRoot string) *RuleSet {
	rs := Default()
	if projectRoot == "" {
		return rs
	}
	overlayPath := filepath.Join(projectRoot, ".skin_rules.cue")
	if overlay, err := LoadFile(overlayPath); err == nil {
		rs.Merge(overlay)
	}
	return rs
}

// AllowedChildren returns the child allow-list for a parent node: control
// nodes select by their type attribute, everything else by tag.
func (r *RuleSet) AllowedChildren(tag, controlType string) ([]string, bool) {
	if tag == "control" {
		children, ok := r.Controls[controlType]
		return children, ok
	}
	children, ok := r.Containers[tag]
	return children, ok
}
