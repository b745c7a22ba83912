package labels

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/skin-community/skin-dev-tools/internal/config"
	"github.com/skin-community/skin-dev-tools/internal/logger"
)

// Entry is one localized string. ID keeps the "#"-prefixed context id
// from the catalog so lookups can compare it directly.
type Entry struct {
	ID      string
	Default string
	Native  string
	Line    int
	File    string
}

// Catalog is the merged, ordered label sequence. Lookup scans front to
// back, so entries loaded first shadow later entries with the same id.
type Catalog struct {
	Entries []Entry
	// EngineCount marks how many leading entries came from the engine
	// catalog.
	EngineCount int
}

// Lookup finds the entry for a "#"-prefixed id. First match wins.
func (c *Catalog) Lookup(id string) (Entry, bool) {
	for _, e := range c.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Collisions returns addon entries whose id is shadowed by an engine
// entry. They are unreachable through Lookup.
func (c *Catalog) Collisions() []Entry {
	engine := make(map[string]bool, c.EngineCount)
	for _, e := range c.Entries[:c.EngineCount] {
		engine[e.ID] = true
	}
	var out []Entry
	for _, e := range c.Entries[c.EngineCount:] {
		if engine[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

// Load builds the merged catalog: the engine catalog first, then the
// addon's own. A missing catalog contributes an empty sequence.
func Load(projectRoot string, cfg *config.Config) *Catalog {
	lang := cfg.LanguageFolder()

	var engine []Entry
	if cfg.KodiPath != "" {
		engine = readFirst([]string{
			filepath.Join(cfg.KodiPath, "addons", "resource.language.en_gb", "resources", "strings.po"),
			filepath.Join(cfg.KodiPath, "language", lang, "strings.po"),
		})
	}

	addon := readFirst([]string{
		filepath.Join(projectRoot, "resources", "language", lang, "strings.po"),
		filepath.Join(projectRoot, "language", lang, "strings.po"),
	})

	return &Catalog{
		Entries:     append(engine, addon...),
		EngineCount: len(engine),
	}
}

func readFirst(paths []string) []Entry {
	for _, path := range paths {
		entries, err := ReadPO(path)
		if err != nil {
			continue
		}
		logger.Printf("loaded %d labels from %s\n", len(entries), path)
		return entries
	}
	return nil
}

// ReadPO reads a gettext catalog as an ordered entry sequence, keeping
// the source line of each msgctxt. Only "#id" contexts are collected;
// the header entry and free-form contexts are skipped.
func ReadPO(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	var cur *Entry
	var field *string

	flush := func() {
		if cur != nil && cur.ID != "" {
			entries = append(entries, *cur)
		}
		cur = nil
		field = nil
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(text, "msgctxt "):
			flush()
			id := unquote(strings.TrimPrefix(text, "msgctxt "))
			if strings.HasPrefix(id, "#") {
				cur = &Entry{ID: id, Line: line, File: path}
			}
			field = nil
		case strings.HasPrefix(text, "msgid "):
			if cur != nil {
				cur.Default += unquote(strings.TrimPrefix(text, "msgid "))
				field = &cur.Default
			}
		case strings.HasPrefix(text, "msgstr "):
			if cur != nil {
				cur.Native += unquote(strings.TrimPrefix(text, "msgstr "))
				field = &cur.Native
			}
		case strings.HasPrefix(text, `"`):
			// Continuation line of the preceding msgid/msgstr.
			if field != nil {
				*field += unquote(text)
			}
		case text == "":
			flush()
		}
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if out, err := strconv.Unquote(s); err == nil {
		return out
	}
	return strings.Trim(s, `"`)
}
