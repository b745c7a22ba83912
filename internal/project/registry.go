package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/skin-community/skin-dev-tools/internal/logger"
	"github.com/skin-community/skin-dev-tools/internal/xmlparse"
)

// EntryKind is the definition kind of a registry entry.
type EntryKind string

const (
	EntryInclude  EntryKind = "include"
	EntryVariable EntryKind = "variable"
	EntryConstant EntryKind = "constant"
)

// SkinShortcutsFile is the include file generated by the skin-shortcuts
// script; it does not exist at analysis time and is never followed.
const SkinShortcutsFile = "script-skinshortcuts-includes.xml"

// Entry is one include, variable or constant definition.
type Entry struct {
	Name string
	Kind EntryKind
	File string
	Line int
	Node *xmlparse.Node
}

type registryKey struct {
	name string
	kind EntryKind
}

// Registry holds a folder's definitions. Entries keeps every definition
// in append order (the unused check must see all of them); the lookup map
// keeps only the first definition per (name, kind), so shadowing is
// deterministic keep-first.
type Registry struct {
	Entries []Entry
	byKey   map[registryKey]int
	files   map[string]bool
}

func NewRegistry() *Registry {
	return &Registry{
		byKey: make(map[registryKey]int),
		files: make(map[string]bool),
	}
}

// Add appends a definition. It returns false when a definition with the
// same name and kind already exists; the new entry is still recorded for
// the unused check but is unreachable through Lookup.
func (r *Registry) Add(e Entry) bool {
	r.Entries = append(r.Entries, e)
	key := registryKey{e.Name, e.Kind}
	if _, dup := r.byKey[key]; dup {
		return false
	}
	r.byKey[key] = len(r.Entries) - 1
	return true
}

// Lookup returns the first definition for (name, kind).
func (r *Registry) Lookup(name string, kind EntryKind) (Entry, bool) {
	idx, ok := r.byKey[registryKey{name, kind}]
	if !ok {
		return Entry{}, false
	}
	return r.Entries[idx], true
}

// HasFile reports whether the given file is part of the indexed include
// chain.
func (r *Registry) HasFile(path string) bool {
	return r.files[filepath.Clean(path)]
}

func (r *Registry) addFile(path string) {
	r.files[filepath.Clean(path)] = true
}

// buildRegistry indexes the folder's include chain, starting at the
// folder's includes file (both casings accepted, first found wins) and
// following include file attributes recursively. A revisited file is a
// cycle and produces a notice instead of recursing.
func (p *Project) buildRegistry(folder *Folder) *Registry {
	reg := NewRegistry()
	path := firstExisting([]string{
		filepath.Join(folder.Path, "Includes.xml"),
		filepath.Join(folder.Path, "includes.xml"),
	})
	if path == "" {
		return reg
	}
	visited := make(map[string]bool)
	p.indexIncludeFile(folder, reg, path, visited)
	return reg
}

func (p *Project) indexIncludeFile(folder *Folder, reg *Registry, path string, visited map[string]bool) {
	clean := filepath.Clean(path)
	if visited[clean] {
		p.notice(clean, 0, "include", "circular_include",
			fmt.Sprintf("Circular include chain: %s is included twice", filepath.Base(clean)))
		return
	}
	visited[clean] = true

	if _, err := os.Stat(clean); err != nil {
		logger.Println("could not find include file " + clean)
		return
	}
	tree, err := xmlparse.ParseFile(clean)
	if err != nil {
		logger.Printf("error in %s: %v\n", clean, err)
		return
	}
	reg.addFile(clean)

	for _, node := range tree.Children {
		switch node.Tag {
		case "include", "variable", "constant":
			name, ok := node.Attr("name")
			if !ok {
				continue
			}
			entry := Entry{
				Name: name,
				Kind: EntryKind(node.Tag),
				File: clean,
				Line: node.Line,
				Node: node,
			}
			if !reg.Add(entry) {
				p.notice(clean, node.Line, node.Tag, "duplicate_definition",
					fmt.Sprintf("Duplicate %s definition: %s", node.Tag, name))
			}
		}
	}

	for _, node := range tree.Children {
		if node.Tag != "include" {
			continue
		}
		file, ok := node.Attr("file")
		if !ok || file == SkinShortcutsFile {
			continue
		}
		p.indexIncludeFile(folder, reg, filepath.Join(folder.Path, file), visited)
	}
}
