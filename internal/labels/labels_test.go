package labels

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/skin-community/skin-dev-tools/internal/config"
)

const samplePO = `# Addon Name: skin.test
msgid ""
msgstr ""
"Language: en_GB\n"

msgctxt "#31000"
msgid "Home"
msgstr ""

msgctxt "#31001"
msgid "Now "
"playing"
msgstr "Wird "
"abgespielt"

msgctxt "Addon Summary"
msgid "A test skin"
msgstr ""
`

func writePO(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadPO(t *testing.T) {
	path := writePO(t, t.TempDir(), "strings.po", samplePO)

	entries, err := ReadPO(path)
	if err != nil {
		t.Fatalf("ReadPO failed: %v", err)
	}
	// The header and the free-form "Addon Summary" context are skipped.
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(entries), entries)
	}

	if entries[0].ID != "#31000" || entries[0].Default != "Home" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[0].Line != 6 {
		t.Errorf("expected entry at line 6, got %d", entries[0].Line)
	}

	// Continuation lines are concatenated onto the open field.
	if entries[1].Default != "Now playing" {
		t.Errorf("msgid continuation not joined: %q", entries[1].Default)
	}
	if entries[1].Native != "Wird abgespielt" {
		t.Errorf("msgstr continuation not joined: %q", entries[1].Native)
	}
}

func TestReadPOMissingFile(t *testing.T) {
	if _, err := ReadPO(filepath.Join(t.TempDir(), "nope.po")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadMergesEngineFirst(t *testing.T) {
	kodi := t.TempDir()
	writePO(t, kodi, filepath.Join("addons", "resource.language.en_gb", "resources", "strings.po"), `
msgctxt "#31000"
msgid "Engine label"
msgstr ""
`)

	root := t.TempDir()
	writePO(t, root, filepath.Join("resources", "language", "English", "strings.po"), `
msgctxt "#31000"
msgid "Addon label"
msgstr ""

msgctxt "#31005"
msgid "Addon only"
msgstr ""
`)

	cat := Load(root, &config.Config{KodiPath: kodi})
	if cat.EngineCount != 1 {
		t.Fatalf("expected 1 engine entry, got %d", cat.EngineCount)
	}

	// The engine catalog shadows the addon entry with the same id.
	entry, ok := cat.Lookup("#31000")
	if !ok || entry.Default != "Engine label" {
		t.Errorf("unexpected lookup result: %+v ok=%v", entry, ok)
	}
	if _, ok := cat.Lookup("#31005"); !ok {
		t.Error("addon-only label not found")
	}
	if _, ok := cat.Lookup("#99999"); ok {
		t.Error("unknown label should not resolve")
	}

	collisions := cat.Collisions()
	if len(collisions) != 1 || collisions[0].ID != "#31000" {
		t.Errorf("unexpected collisions: %v", collisions)
	}
}

func TestLoadWithoutCatalogs(t *testing.T) {
	cat := Load(t.TempDir(), &config.Config{})
	if len(cat.Entries) != 0 || cat.EngineCount != 0 {
		t.Errorf("expected empty catalog, got %+v", cat)
	}
}
