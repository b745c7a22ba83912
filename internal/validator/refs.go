package validator

import (
	"fmt"
	"strconv"

	"github.com/skin-community/skin-dev-tools/internal/project"
	"github.com/skin-community/skin-dev-tools/internal/scanner"
)

// checkReferences is the cross-reference pass plus its structural dual,
// the unused-definition pass. Both run over the same reference set, so a
// name can never be reported undefined and unused at once.
func (v *Validator) checkReferences(folder *project.Folder, scans []*scanner.FileScan) {
	byKind := make(map[scanner.Kind][]scanner.Reference)
	definedIDs := make(map[string]bool)
	definedWindows := make(map[string]bool)
	for _, scan := range scans {
		if scan == nil {
			continue
		}
		for _, ref := range scan.Refs {
			byKind[ref.Kind] = append(byKind[ref.Kind], ref)
		}
		for _, def := range scan.IDDefs {
			definedIDs[def.Name] = true
		}
		if scan.WindowID != "" {
			definedWindows[scan.WindowID] = true
		}
	}

	v.checkRegistryKind(folder, byKind[scanner.KindVariable], project.EntryVariable, "Variable")
	v.checkRegistryKind(folder, byKind[scanner.KindInclude], project.EntryInclude, "Include")
	v.checkFonts(folder, byKind[scanner.KindFont])
	v.checkWindowIDs(byKind[scanner.KindWindowID], definedWindows)
	v.checkControlIDs(byKind[scanner.KindControlID], definedIDs)
	v.checkLabelRefs(byKind[scanner.KindLabel])
}

// checkRegistryKind resolves one definable kind against the folder's
// registry and flags its unused definitions.
func (v *Validator) checkRegistryKind(folder *project.Folder, refs []scanner.Reference, kind project.EntryKind, label string) {
	used := make(map[string]bool, len(refs))
	for _, ref := range refs {
		used[ref.Name] = true
		if _, ok := folder.Registry.Lookup(ref.Name, kind); !ok {
			v.report("undefined_reference", LevelError,
				fmt.Sprintf("%s not defined: %s", label, ref.Name),
				ref.File, ref.Line, ref.Tag)
		}
	}
	for _, entry := range folder.Registry.Entries {
		if entry.Kind != kind || used[entry.Name] {
			continue
		}
		v.report("unused_definition", LevelWarning,
			fmt.Sprintf("Unused %s: %s", string(kind), entry.Name),
			entry.File, entry.Line, string(kind))
	}
}

// checkFonts resolves font uses against the folder's font set. The "-"
// placeholder needs no definition.
func (v *Validator) checkFonts(folder *project.Folder, refs []scanner.Reference) {
	known := map[string]bool{"-": true}
	for _, font := range folder.Fonts {
		known[font.Name] = true
	}
	used := make(map[string]bool, len(refs))
	for _, ref := range refs {
		used[ref.Name] = true
		if !known[ref.Name] {
			v.report("undefined_reference", LevelError,
				fmt.Sprintf("Font not defined: %s", ref.Name),
				ref.File, ref.Line, ref.Tag)
		}
	}
	for _, font := range folder.Fonts {
		if used[font.Name] {
			continue
		}
		v.report("unused_definition", LevelWarning,
			fmt.Sprintf("Unused font: %s", font.Name),
			font.File, font.Line, "font")
	}
}

// checkWindowIDs accepts ids defined by the folder's own window files and
// the engine-reserved builtin allow-list.
func (v *Validator) checkWindowIDs(refs []scanner.Reference, defined map[string]bool) {
	for _, ref := range refs {
		if defined[ref.Name] {
			continue
		}
		if id, err := strconv.Atoi(ref.Name); err == nil && v.windowIDs[id] {
			continue
		}
		v.report("undefined_reference", LevelError,
			"Window ID not defined: "+ref.Name,
			ref.File, ref.Line, ref.Tag)
	}
}

func (v *Validator) checkControlIDs(refs []scanner.Reference, defined map[string]bool) {
	for _, ref := range refs {
		// The extraction pattern tolerates empty parentheses.
		if ref.Name == "" || defined[ref.Name] {
			continue
		}
		v.report("undefined_reference", LevelError,
			"Control / Item ID not defined: "+ref.Name,
			ref.File, ref.Line, ref.Tag)
	}
}

// checkLabelRefs resolves label uses against the merged catalog; catalog
// ids carry a "#" prefix.
func (v *Validator) checkLabelRefs(refs []scanner.Reference) {
	if v.Catalog == nil {
		return
	}
	for _, ref := range refs {
		if _, ok := v.Catalog.Lookup("#" + ref.Name); ok {
			continue
		}
		v.report("undefined_reference", LevelError,
			fmt.Sprintf("Label not defined: %s", ref.Name),
			ref.File, ref.Line, ref.Tag)
	}
}
