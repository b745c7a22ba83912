package validator

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/skin-community/skin-dev-tools/internal/labels"
	"github.com/skin-community/skin-dev-tools/internal/logger"
	"github.com/skin-community/skin-dev-tools/internal/project"
	"github.com/skin-community/skin-dev-tools/internal/scanner"
	"github.com/skin-community/skin-dev-tools/internal/schema"
	"github.com/skin-community/skin-dev-tools/internal/xmlparse"
)

type DiagnosticLevel int

const (
	LevelError DiagnosticLevel = iota
	LevelWarning
)

// Diagnostic is one finding of a check pass. Tag names the offending node
// or reference kind; Check identifies the pass category.
type Diagnostic struct {
	Level   DiagnosticLevel
	Check   string
	Message string
	File    string
	Line    int
	Tag     string
}

// Validator runs the check passes over an immutable project model. The
// registries and catalogs are built before construction and only read
// afterwards, so window files can be validated concurrently; only the
// diagnostics slice needs the mutex.
type Validator struct {
	Project     *project.Project
	Rules       *schema.RuleSet
	Catalog     *labels.Catalog
	Diagnostics []Diagnostic
	mu          sync.Mutex

	controlChildren   map[string]map[string]bool
	containerChildren map[string]map[string]bool
	allowedAttrs      map[string]map[string]bool
	tagValues         map[string]map[string]bool
	attrValues        map[string]map[string]bool
	bracketTags       map[string]bool
	noopTags          map[string]bool
	singletonTags     map[string]bool
	windowIDs         map[int]bool
}

func NewValidator(p *project.Project, rules *schema.RuleSet, catalog *labels.Catalog) *Validator {
	v := &Validator{
		Project: p,
		Rules:   rules,
		Catalog: catalog,

		controlChildren:   make(map[string]map[string]bool),
		containerChildren: make(map[string]map[string]bool),
		allowedAttrs:      make(map[string]map[string]bool),
		tagValues:         make(map[string]map[string]bool),
		attrValues:        make(map[string]map[string]bool),
		bracketTags:       asSet(rules.BracketTags),
		noopTags:          asSet(rules.NoopTags),
		singletonTags:     asSet(rules.SingletonTags),
		windowIDs:         make(map[int]bool),
	}
	for name, children := range rules.Controls {
		v.controlChildren[name] = asSet(children)
	}
	for name, children := range rules.Containers {
		v.containerChildren[name] = asSet(children)
	}
	for _, rule := range rules.Attributes {
		for _, tag := range rule.Tags {
			set := v.allowedAttrs[tag]
			if set == nil {
				set = make(map[string]bool)
				v.allowedAttrs[tag] = set
			}
			for _, attr := range rule.Allow {
				set[attr] = true
			}
		}
	}
	for _, rule := range rules.TagValues {
		for _, tag := range rule.Tags {
			v.tagValues[tag] = asSet(rule.Values)
		}
	}
	for _, rule := range rules.AttrValues {
		v.attrValues[rule.Attr] = asSet(rule.Values)
	}
	for _, id := range rules.WindowIDs {
		v.windowIDs[id] = true
	}
	return v
}

// ValidateProject runs every check pass. Each resolution folder is
// validated against its own registry and font set; colors and the label
// catalog are project-global.
func (v *Validator) ValidateProject(ctx context.Context) {
	if v.Project == nil {
		return
	}
	v.collectNotices()
	v.checkColors()
	v.checkLabelCollisions()

	for _, folder := range v.Project.Folders {
		if ctx.Err() != nil {
			return
		}
		v.validateFolder(ctx, folder)
	}
}

// validateFolder fans the per-file passes out across window files, then
// runs the folder-level reference passes over the collected scans. A
// file that cannot be read or parsed is skipped, never fatal.
func (v *Validator) validateFolder(ctx context.Context, folder *project.Folder) {
	scans := make([]*scanner.FileScan, len(folder.WindowFiles))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, file := range folder.WindowFiles {
		i, file := i, file
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			data, err := os.ReadFile(file)
			if err != nil {
				logger.Printf("error reading %s: %v\n", file, err)
				return nil
			}
			tree, err := xmlparse.Parse(data)
			if err != nil {
				logger.Printf("error in %s: %v\n", file, err)
			}
			scans[i] = scanner.ScanFile(file, data, tree)
			if scans[i].HasBOM {
				v.report("bom", LevelWarning,
					"File starts with a UTF-8 byte order mark", file, 1, "")
			}
			if tree != nil {
				v.checkFile(file, tree)
			}
			return nil
		})
	}
	g.Wait()
	if ctx.Err() != nil {
		return
	}

	v.checkReferences(folder, scans)
}

// checkFile runs the per-file structural and convention passes on one
// parsed window tree.
func (v *Validator) checkFile(file string, tree *xmlparse.Node) {
	v.checkTags(file, tree)
	v.checkAttributes(file, tree)
	v.checkTagValues(file, tree)
	v.checkAttrValues(file, tree)
	v.checkConditions(file, tree)
	v.checkNoop(file, tree)
	v.checkDuplicates(file, tree)
	v.checkUntranslated(file, tree)
}

func (v *Validator) collectNotices() {
	for _, n := range v.Project.Notices {
		level := LevelWarning
		if n.Check == "circular_include" {
			level = LevelError
		}
		v.report(n.Check, level, n.Message, n.File, n.Line, n.Tag)
	}
}

// checkColors flags color definitions whose value is not AARRGGBB hex.
func (v *Validator) checkColors() {
	for _, color := range v.Project.Colors {
		if isColorHex(color.Value) {
			continue
		}
		v.report("invalid_value", LevelWarning,
			fmt.Sprintf("Invalid color value for %s: %s", color.Name, color.Value),
			color.File, color.Line, "color")
	}
}

// checkLabelCollisions surfaces addon catalog entries that are
// unreachable because an engine entry owns the same id.
func (v *Validator) checkLabelCollisions() {
	if v.Catalog == nil {
		return
	}
	for _, entry := range v.Catalog.Collisions() {
		v.report("label_collision", LevelWarning,
			fmt.Sprintf("Label id %s is shadowed by the engine catalog", entry.ID),
			entry.File, entry.Line, "msgctxt")
	}
}

func (v *Validator) report(check string, level DiagnosticLevel, msg, file string, line int, tag string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Diagnostics = append(v.Diagnostics, Diagnostic{
		Level:   level,
		Check:   check,
		Message: msg,
		File:    file,
		Line:    line,
		Tag:     tag,
	})
}

// HasErrors reports whether any error-level diagnostic was produced.
func (v *Validator) HasErrors() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, d := range v.Diagnostics {
		if d.Level == LevelError {
			return true
		}
	}
	return false
}

func asSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, val := range values {
		set[val] = true
	}
	return set
}

func isColorHex(text string) bool {
	if len(text) != 8 {
		return false
	}
	_, err := strconv.ParseUint(text, 16, 64)
	return err == nil
}

func isDigits(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func condense(text string) string {
	return strings.ReplaceAll(strings.ReplaceAll(text, "  ", ""), "\t", "")
}
