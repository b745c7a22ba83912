package schema

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestDefaultRules(t *testing.T) {
	rs := Default()

	children, ok := rs.AllowedChildren("control", "button")
	if !ok {
		t.Fatal("button control type missing from default rules")
	}
	for _, want := range []string{"label", "font", "onclick", "texturefocus"} {
		if !slices.Contains(children, want) {
			t.Errorf("button allow-list missing %s", want)
		}
	}

	if _, ok := rs.AllowedChildren("control", "nosuchtype"); ok {
		t.Error("unknown control type should not resolve")
	}

	children, ok = rs.AllowedChildren("itemlayout", "")
	if !ok || !slices.Contains(children, "control") {
		t.Errorf("itemlayout should allow control children, got %v", children)
	}

	if len(rs.WindowIDs) == 0 {
		t.Fatal("default rules carry no window ids")
	}
	if !slices.Contains(rs.WindowIDs, 2600) {
		t.Error("fullscreen video window id missing from defaults")
	}
	if !slices.Contains(rs.BracketTags, "visible") {
		t.Error("visible missing from bracket tags")
	}
	if !slices.Contains(rs.SingletonTags, "width") {
		t.Error("width missing from singleton tags")
	}
}

func TestMerge(t *testing.T) {
	rs := Default()
	buttonLen := len(rs.Controls["button"])

	rs.Merge(&RuleSet{
		Controls:   map[string][]string{"mycontrol": {"width", "height"}},
		Containers: map[string][]string{"window": {"onload"}},
		Attributes: []AttrRule{{Tags: []string{"mytag"}, Allow: []string{"id"}}},
		WindowIDs:  []int{2600, 13999},
	})

	if len(rs.Controls["button"]) != buttonLen {
		t.Error("merge must not touch untouched control types")
	}
	if !slices.Contains(rs.Controls["mycontrol"], "width") {
		t.Error("merged control type missing")
	}
	// Same-key map entries are replaced, not appended.
	if !slices.Equal(rs.Containers["window"], []string{"onload"}) {
		t.Errorf("window container not replaced: %v", rs.Containers["window"])
	}
	// Window ids are deduplicated on merge.
	if n := count(rs.WindowIDs, 2600); n != 1 {
		t.Errorf("expected one 2600 entry, got %d", n)
	}
	if !slices.Contains(rs.WindowIDs, 13999) {
		t.Error("merged window id missing")
	}
}

func TestLoadProjectRules(t *testing.T) {
	dir := t.TempDir()
	overlay := `
controls: mypanel: ["width", "height", "customtag"]
windowIds: [13999]
`
	if err := os.WriteFile(filepath.Join(dir, ".skin_rules.cue"), []byte(overlay), 0o644); err != nil {
		t.Fatal(err)
	}

	rs := LoadProjectRules(dir)
	if !slices.Contains(rs.Controls["mypanel"], "customtag") {
		t.Error("overlay control type not loaded")
	}
	if !slices.Contains(rs.WindowIDs, 13999) {
		t.Error("overlay window id not loaded")
	}
	// Defaults stay available next to the overlay.
	if _, ok := rs.AllowedChildren("control", "button"); !ok {
		t.Error("defaults lost after overlay merge")
	}
}

func TestLoadProjectRulesMissingOverlay(t *testing.T) {
	rs := LoadProjectRules(t.TempDir())
	if len(rs.Controls) == 0 {
		t.Error("expected default rules without an overlay")
	}
}

func count(ids []int, want int) int {
	n := 0
	for _, id := range ids {
		if id == want {
			n++
		}
	}
	return n
}
