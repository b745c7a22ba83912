package project

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/skin-community/skin-dev-tools/internal/logger"
	"github.com/skin-community/skin-dev-tools/internal/xmlparse"
)

// Kind distinguishes declarative skin addons from scriptable ones.
type Kind string

const (
	KindNone   Kind = ""
	KindSkin   Kind = "skin"
	KindScript Kind = "python"
)

// Notice is a problem found while building the project model, before any
// validation pass runs (cycles, duplicates, unreadable files).
type Notice struct {
	File    string
	Line    int
	Tag     string
	Check   string
	Message string
}

// Folder is one resolution folder: a namespace with its own registry,
// font set and window file list.
type Folder struct {
	Name     string
	Path     string
	Registry *Registry
	Fonts    []Font
	// WindowFiles lists every markup file of the folder, in name order.
	WindowFiles []string
}

// Font is one definition from the folder's font-set file.
type Font struct {
	Name     string
	Size     string
	Filename string
	File     string
	Line     int
	Node     *xmlparse.Node
}

// Color is one project-wide color definition.
type Color struct {
	Name  string
	Value string
	File  string
	Line  int
}

// Project is the immutable model of one addon tree. It is rebuilt
// wholesale; validation passes only read it.
type Project struct {
	Root      string
	AddonFile string
	Name      string
	Kind      Kind
	Folders   []*Folder
	Colors    []Color
	Notices   []Notice
}

// Load builds the project model for an addon root. A tree without a
// descriptor is a valid empty project, not an error.
func Load(root string) *Project {
	p := &Project{Root: root}

	addonFile := filepath.Join(root, "addon.xml")
	if _, err := os.Stat(addonFile); err != nil {
		return p
	}
	p.AddonFile = addonFile

	tree, err := xmlparse.ParseFile(addonFile)
	if err != nil {
		logger.Printf("error in %s: %v\n", addonFile, err)
		return p
	}
	if id, ok := tree.Attr("id"); ok {
		p.Name = id
	}
	p.Kind, p.Folders = resolveFolders(root, tree)
	if len(p.Folders) == 0 {
		return p
	}

	logger.Println("skin project detected: " + root)
	for _, folder := range p.Folders {
		p.buildFolder(folder)
	}
	p.loadColors()
	return p
}

// resolveFolders determines the addon kind and its resolution folders.
// Skins declare them as res entries; scriptable addons fall back to the
// first conventional default-skin path that exists.
func resolveFolders(root string, tree *xmlparse.Node) (Kind, []*Folder) {
	scripted := false
	for _, imp := range tree.FindAll("import") {
		if addon, ok := imp.Attr("addon"); ok && addon == "xbmc.python" {
			scripted = true
			break
		}
	}

	var folders []*Folder
	if !scripted {
		for _, res := range tree.FindAll("res") {
			if name, ok := res.Attr("folder"); ok {
				folders = append(folders, &Folder{
					Name: name,
					Path: filepath.Join(root, name),
				})
			}
		}
		return KindSkin, folders
	}

	for _, rel := range []string{
		filepath.Join("resources", "skins", "Default", "720p"),
		filepath.Join("resources", "skins", "Default", "1080i"),
	} {
		path := filepath.Join(root, rel)
		if _, err := os.Stat(path); err == nil {
			folders = append(folders, &Folder{Name: rel, Path: path})
			break
		}
	}
	return KindScript, folders
}

func (p *Project) buildFolder(folder *Folder) {
	folder.Registry = p.buildRegistry(folder)
	folder.Fonts = p.loadFonts(folder)
	folder.WindowFiles = listMarkupFiles(folder.Path)
	logger.Printf("%s: %d registry entries, %d fonts, %d window files\n",
		folder.Name, len(folder.Registry.Entries), len(folder.Fonts), len(folder.WindowFiles))
}

// loadFonts reads the folder's font-set file, accepting both filename
// casings, first found wins.
func (p *Project) loadFonts(folder *Folder) []Font {
	path := firstExisting([]string{
		filepath.Join(folder.Path, "Font.xml"),
		filepath.Join(folder.Path, "font.xml"),
	})
	if path == "" {
		return nil
	}
	tree, err := xmlparse.ParseFile(path)
	if err != nil {
		logger.Printf("error in %s: %v\n", path, err)
		return nil
	}
	fontset := tree.Find("fontset")
	if fontset == nil {
		return nil
	}
	var fonts []Font
	for _, node := range fontset.Children {
		if node.Tag != "font" {
			continue
		}
		font := Font{File: path, Line: node.Line, Node: node}
		if c := node.Find("name"); c != nil {
			font.Name = c.Text
		}
		if c := node.Find("size"); c != nil {
			font.Size = c.Text
		}
		if c := node.Find("filename"); c != nil {
			font.Filename = c.Text
		}
		fonts = append(fonts, font)
	}
	return fonts
}

// loadColors reads every file in the project-level colors directory into
// the shared color set.
func (p *Project) loadColors() {
	colorDir := filepath.Join(p.Root, "colors")
	entries, err := os.ReadDir(colorDir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(colorDir, entry.Name())
		tree, err := xmlparse.ParseFile(path)
		if err != nil {
			logger.Printf("error in %s: %v\n", path, err)
			continue
		}
		for _, node := range tree.FindAll("color") {
			name, ok := node.Attr("name")
			if !ok {
				continue
			}
			p.Colors = append(p.Colors, Color{
				Name:  name,
				Value: node.Text,
				File:  path,
				Line:  node.Line,
			})
		}
	}
	logger.Printf("color list: %d colors found\n", len(p.Colors))
}

// ReloadAfterSave rebuilds the parts of the model a saved file can have
// invalidated: the owning folder when the file sits on an indexed include
// chain or is a font-set file, the color set for color files. Rebuild is
// wholesale per folder, never incremental.
func (p *Project) ReloadAfterSave(path string) {
	clean := filepath.Clean(path)
	for _, folder := range p.Folders {
		if folder.Registry != nil && folder.Registry.HasFile(clean) {
			p.buildFolder(folder)
			continue
		}
		if strings.EqualFold(filepath.Base(clean), "font.xml") &&
			filepath.Dir(clean) == filepath.Clean(folder.Path) {
			folder.Fonts = p.loadFonts(folder)
		}
	}
	if filepath.Dir(clean) == filepath.Clean(filepath.Join(p.Root, "colors")) {
		p.Colors = nil
		p.loadColors()
	}
}

// FolderOf returns the resolution folder containing the given file.
func (p *Project) FolderOf(path string) *Folder {
	dir := filepath.Dir(filepath.Clean(path))
	for _, folder := range p.Folders {
		if filepath.Clean(folder.Path) == dir {
			return folder
		}
	}
	return nil
}

func (p *Project) notice(file string, line int, tag, check, message string) {
	p.Notices = append(p.Notices, Notice{File: file, Line: line, Tag: tag, Check: check, Message: message})
}

func listMarkupFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".xml") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files
}

// firstExisting returns the first path that exists, or "".
func firstExisting(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
