package validator

import (
	"fmt"
	"strings"

	"github.com/skin-community/skin-dev-tools/internal/xmlparse"
)

// checkTags is the structural whitelist pass: children of a parent with a
// closed child vocabulary (control types, container tags, file roots)
// must appear in the parent's allow-list.
func (v *Validator) checkTags(file string, tree *xmlparse.Node) {
	tree.Walk(func(node *xmlparse.Node) {
		var allowed map[string]bool
		parentDesc := "<" + node.Tag + ">"
		if node.Tag == "control" {
			controlType, _ := node.Attr("type")
			allowed = v.controlChildren[controlType]
			parentDesc = fmt.Sprintf("<control type=%q>", controlType)
		} else {
			allowed = v.containerChildren[node.Tag]
		}
		if allowed == nil {
			return
		}
		for _, child := range node.Children {
			if allowed[child.Tag] {
				continue
			}
			v.report("invalid_tag", LevelError,
				fmt.Sprintf("invalid tag for %s: <%s>", parentDesc, child.Tag),
				file, child.Line, child.Tag)
		}
	})
}

// checkAttributes flags attributes outside a tag's allow-list. Tags
// without a rule are not checked.
func (v *Validator) checkAttributes(file string, tree *xmlparse.Node) {
	tree.Walk(func(node *xmlparse.Node) {
		allowed, ok := v.allowedAttrs[node.Tag]
		if !ok {
			return
		}
		for _, attr := range node.Attrs {
			if allowed[attr.Name] {
				continue
			}
			v.report("invalid_attribute", LevelError,
				fmt.Sprintf("invalid attribute for <%s>: %s", node.Tag, attr.Name),
				file, node.Line, node.Tag)
		}
	})
}

// checkTagValues enforces the closed, case-insensitive text value sets.
func (v *Validator) checkTagValues(file string, tree *xmlparse.Node) {
	tree.Walk(func(node *xmlparse.Node) {
		values, ok := v.tagValues[node.Tag]
		if !ok || node.Text == "" {
			return
		}
		if values[strings.ToLower(node.Text)] {
			return
		}
		v.report("invalid_value", LevelError,
			fmt.Sprintf("invalid value for %s: %s", node.Tag, node.Text),
			file, node.Line, node.Tag)
	})
}

// checkAttrValues enforces the closed attribute value sets.
func (v *Validator) checkAttrValues(file string, tree *xmlparse.Node) {
	tree.Walk(func(node *xmlparse.Node) {
		for _, attr := range node.Attrs {
			values, ok := v.attrValues[attr.Name]
			if !ok {
				continue
			}
			if values[attr.Value] {
				continue
			}
			v.report("invalid_value", LevelError,
				fmt.Sprintf("invalid value for %s attribute: %s", attr.Name, attr.Value),
				file, node.Line, node.Tag)
		}
	})
}
