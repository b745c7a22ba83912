package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const skinAddonXML = `<?xml version="1.0" encoding="UTF-8"?>
<addon id="skin.test" version="1.0.0" name="Test Skin">
	<extension point="xbmc.gui.skin">
		<res width="1280" height="720" aspect="16:9" default="true" folder="720p" />
	</extension>
</addon>`

const scriptAddonXML = `<?xml version="1.0" encoding="UTF-8"?>
<addon id="script.test" version="1.0.0" name="Test Script">
	<requires>
		<import addon="xbmc.python" version="3.0.0" />
	</requires>
</addon>`

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func skinProject(t *testing.T, includes string) (*Project, string) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "addon.xml", skinAddonXML)
	writeFile(t, root, filepath.Join("720p", "Includes.xml"), includes)
	return Load(root), root
}

func TestLoadSkinProject(t *testing.T) {
	p, root := skinProject(t, `<includes>
	<include name="CommonButton">
		<control type="button"><width>100</width></control>
	</include>
	<variable name="HeaderLabel">
		<value>Test</value>
	</variable>
	<constant name="ButtonWidth">340</constant>
</includes>`)

	if p.Name != "skin.test" {
		t.Errorf("unexpected addon id: %s", p.Name)
	}
	if p.Kind != KindSkin {
		t.Errorf("unexpected kind: %s", p.Kind)
	}
	if len(p.Folders) != 1 || p.Folders[0].Name != "720p" {
		t.Fatalf("unexpected folders: %v", p.Folders)
	}

	reg := p.Folders[0].Registry
	if _, ok := reg.Lookup("CommonButton", EntryInclude); !ok {
		t.Error("include definition not indexed")
	}
	if _, ok := reg.Lookup("HeaderLabel", EntryVariable); !ok {
		t.Error("variable definition not indexed")
	}
	if _, ok := reg.Lookup("ButtonWidth", EntryConstant); !ok {
		t.Error("constant definition not indexed")
	}
	if _, ok := reg.Lookup("CommonButton", EntryVariable); ok {
		t.Error("lookup must be kind-scoped")
	}
	if !reg.HasFile(filepath.Join(root, "720p", "Includes.xml")) {
		t.Error("includes file not tracked")
	}
}

func TestLoadScriptProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "addon.xml", scriptAddonXML)
	writeFile(t, root, filepath.Join("resources", "skins", "Default", "720p", "script-main.xml"), `<window />`)

	p := Load(root)
	if p.Kind != KindScript {
		t.Errorf("unexpected kind: %s", p.Kind)
	}
	if len(p.Folders) != 1 {
		t.Fatalf("expected default skin folder, got %v", p.Folders)
	}
	if len(p.Folders[0].WindowFiles) != 1 {
		t.Errorf("unexpected window files: %v", p.Folders[0].WindowFiles)
	}
}

func TestLoadWithoutDescriptor(t *testing.T) {
	p := Load(t.TempDir())
	if p.Kind != KindNone || len(p.Folders) != 0 {
		t.Errorf("expected empty project, got %+v", p)
	}
}

func TestRegistryFollowsFileAttributes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "addon.xml", skinAddonXML)
	writeFile(t, root, filepath.Join("720p", "Includes.xml"), `<includes>
	<include file="Includes_Buttons.xml" />
	<include file="script-skinshortcuts-includes.xml" />
	<include name="Top"><control type="image" /></include>
</includes>`)
	writeFile(t, root, filepath.Join("720p", "Includes_Buttons.xml"), `<includes>
	<include name="Nested"><control type="image" /></include>
</includes>`)

	p := Load(root)
	reg := p.Folders[0].Registry
	if _, ok := reg.Lookup("Nested", EntryInclude); !ok {
		t.Error("definition from referenced file not indexed")
	}
	if !reg.HasFile(filepath.Join(root, "720p", "Includes_Buttons.xml")) {
		t.Error("referenced file not tracked")
	}
	// The generated shortcuts file is never followed.
	for _, n := range p.Notices {
		t.Errorf("unexpected notice: %+v", n)
	}
}

func TestRegistryCycleNotice(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "addon.xml", skinAddonXML)
	writeFile(t, root, filepath.Join("720p", "Includes.xml"), `<includes>
	<include file="Includes_A.xml" />
</includes>`)
	writeFile(t, root, filepath.Join("720p", "Includes_A.xml"), `<includes>
	<include file="Includes.xml" />
	<include name="FromA"><control type="image" /></include>
</includes>`)

	p := Load(root)
	var found bool
	for _, n := range p.Notices {
		if n.Check == "circular_include" && strings.Contains(n.Message, "Includes.xml") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected circular include notice, got %v", p.Notices)
	}
	// Entries gathered before the cycle was hit stay available.
	if _, ok := p.Folders[0].Registry.Lookup("FromA", EntryInclude); !ok {
		t.Error("definitions before the cycle lost")
	}
}

func TestRegistryDuplicateNotice(t *testing.T) {
	p, _ := skinProject(t, `<includes>
	<include name="Twice"><control type="image" /></include>
	<include name="Twice"><control type="label" /></include>
</includes>`)

	var found bool
	for _, n := range p.Notices {
		if n.Check == "duplicate_definition" && strings.Contains(n.Message, "Twice") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected duplicate definition notice, got %v", p.Notices)
	}

	// Keep-first: lookups resolve to the original definition.
	reg := p.Folders[0].Registry
	entry, _ := reg.Lookup("Twice", EntryInclude)
	if ctype, _ := entry.Node.Find("control").Attr("type"); ctype != "image" {
		t.Error("duplicate shadowed the first definition")
	}
	if len(reg.Entries) != 2 {
		t.Errorf("both definitions must stay recorded, got %d", len(reg.Entries))
	}
}

func TestLoadFonts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "addon.xml", skinAddonXML)
	writeFile(t, root, filepath.Join("720p", "Includes.xml"), `<includes />`)
	writeFile(t, root, filepath.Join("720p", "Font.xml"), `<fonts>
	<fontset id="Default">
		<font>
			<name>font13</name>
			<filename>Roboto-Regular.ttf</filename>
			<size>20</size>
		</font>
		<font>
			<name>font45</name>
			<filename>Roboto-Bold.ttf</filename>
			<size>45</size>
		</font>
	</fontset>
</fonts>`)

	p := Load(root)
	fonts := p.Folders[0].Fonts
	if len(fonts) != 2 {
		t.Fatalf("expected 2 fonts, got %d", len(fonts))
	}
	if fonts[0].Name != "font13" || fonts[0].Size != "20" || fonts[0].Filename != "Roboto-Regular.ttf" {
		t.Errorf("unexpected font: %+v", fonts[0])
	}
}

func TestLoadColors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "addon.xml", skinAddonXML)
	writeFile(t, root, filepath.Join("720p", "Includes.xml"), `<includes />`)
	writeFile(t, root, filepath.Join("colors", "defaults.xml"), `<colors>
	<color name="White">FFFFFFFF</color>
	<color name="Accent">FF00A4DC</color>
</colors>`)

	p := Load(root)
	if len(p.Colors) != 2 {
		t.Fatalf("expected 2 colors, got %d", len(p.Colors))
	}
	if p.Colors[0].Name != "White" || p.Colors[0].Value != "FFFFFFFF" {
		t.Errorf("unexpected color: %+v", p.Colors[0])
	}
}

func TestReloadAfterSave(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "addon.xml", skinAddonXML)
	includes := writeFile(t, root, filepath.Join("720p", "Includes.xml"), `<includes>
	<include name="First"><control type="image" /></include>
</includes>`)

	p := Load(root)
	reg := p.Folders[0].Registry
	if _, ok := reg.Lookup("Second", EntryInclude); ok {
		t.Fatal("unexpected definition before save")
	}

	writeFile(t, root, filepath.Join("720p", "Includes.xml"), `<includes>
	<include name="First"><control type="image" /></include>
	<include name="Second"><control type="label" /></include>
</includes>`)
	p.ReloadAfterSave(includes)

	if _, ok := p.Folders[0].Registry.Lookup("Second", EntryInclude); !ok {
		t.Error("saved definition not picked up")
	}
}

func TestFolderOf(t *testing.T) {
	p, root := skinProject(t, `<includes />`)
	if f := p.FolderOf(filepath.Join(root, "720p", "Home.xml")); f == nil || f.Name != "720p" {
		t.Errorf("unexpected folder: %v", f)
	}
	if f := p.FolderOf(filepath.Join(root, "1080i", "Home.xml")); f != nil {
		t.Errorf("expected nil for unknown folder, got %v", f)
	}
}
