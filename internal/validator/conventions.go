package validator

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/skin-community/skin-dev-tools/internal/scanner"
	"github.com/skin-community/skin-dev-tools/internal/xmlparse"
)

// checkConditions verifies bracket balance for boolean-expression tags
// and for every condition attribute. An expression-bearing tag with no
// text gets the distinct empty-condition message.
func (v *Validator) checkConditions(file string, tree *xmlparse.Node) {
	tree.Walk(func(node *xmlparse.Node) {
		if v.bracketTags[node.Tag] {
			switch {
			case node.Text == "":
				v.report("empty_condition", LevelError,
					fmt.Sprintf("Empty condition: %s", node.Tag),
					file, node.Line, node.Tag)
			case !balancedBrackets(node.Text):
				v.report("bracket_mismatch", LevelError,
					fmt.Sprintf("Brackets do not match: %s", condense(node.Text)),
					file, node.Line, node.Tag)
			}
		}
		if cond, ok := node.Attr("condition"); ok && !balancedBrackets(cond) {
			v.report("bracket_mismatch", LevelError,
				fmt.Sprintf("Brackets do not match: %s", condense(cond)),
				file, node.Line, node.Tag)
		}
	})
}

// balancedBrackets checks matched nesting of the four bracket families
// with a stack; an empty expression is balanced.
func balancedBrackets(text string) bool {
	const push = "<({["
	const pop = ">)}]"
	var stack []byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		if idx := strings.IndexByte(push, c); idx >= 0 {
			stack = append(stack, c)
			continue
		}
		idx := strings.IndexByte(pop, c)
		if idx < 0 {
			continue
		}
		if len(stack) == 0 || stack[len(stack)-1] != push[idx] {
			return false
		}
		stack = stack[:len(stack)-1]
	}
	return len(stack) == 0
}

// checkNoop flags action tags with an empty or "-" body; the dialect has
// an explicit noop keyword for intentional no-ops.
func (v *Validator) checkNoop(file string, tree *xmlparse.Node) {
	tree.Walk(func(node *xmlparse.Node) {
		if !v.noopTags[node.Tag] {
			return
		}
		if node.Text == "" || node.Text == "-" {
			v.report("noop_convention", LevelWarning,
				fmt.Sprintf("Use 'noop' for empty calls <%s>", node.Tag),
				file, node.Line, node.Tag)
		}
	})
}

// checkDuplicates flags repeated singleton leaf tags under one parent;
// only occurrences after the first are reported.
func (v *Validator) checkDuplicates(file string, tree *xmlparse.Node) {
	tree.Walk(func(node *xmlparse.Node) {
		seen := make(map[string]bool)
		for _, child := range node.Children {
			if !v.singletonTags[child.Tag] {
				continue
			}
			if !seen[child.Tag] {
				seen[child.Tag] = true
				continue
			}
			if len(child.Children) > 0 {
				continue
			}
			v.report("duplicate_tag", LevelError,
				fmt.Sprintf("Invalid multiple tags for %s: <%s>", node.Tag, child.Tag),
				file, child.Line, child.Tag)
		}
	})
}

// label tags subject to the untranslated-text check.
var untranslatedTags = map[string]bool{
	"label":    true,
	"altlabel": true,
	"label2":   true,
}

// checkUntranslated flags literal text where a catalog id is expected:
// no expression sentinel, not purely numeric, starts with a letter.
func (v *Validator) checkUntranslated(file string, tree *xmlparse.Node) {
	tree.Walk(func(node *xmlparse.Node) {
		if untranslatedTags[node.Tag] && isUntranslated(node.Text) {
			v.report("untranslated_label", LevelWarning,
				fmt.Sprintf("Label in <%s> not translated: %s", node.Tag, node.Text),
				file, node.Line, node.Tag)
		}
		for _, check := range scanner.LabelAttrChecks {
			if node.Tag != check.Tag {
				continue
			}
			if value, ok := node.Attr(check.Attr); ok && isUntranslated(value) {
				v.report("untranslated_label", LevelWarning,
					fmt.Sprintf("Label in attribute not translated: %s", value),
					file, node.Line, node.Tag)
			}
		}
	})
}

func isUntranslated(text string) bool {
	if text == "" || strings.Contains(text, "$") || isDigits(text) {
		return false
	}
	first := []rune(text)[0]
	return unicode.IsLetter(first) && first < 128
}
