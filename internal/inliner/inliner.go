package inliner

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/skin-community/skin-dev-tools/internal/project"
	"github.com/skin-community/skin-dev-tools/internal/xmlparse"
)

// MaxDepth caps nested include expansion. The cap only matters for
// degenerate chains the cycle guard cannot see (e.g. long A→B→C…
// ladders); normal skins stay far below it.
const MaxDepth = 64

const cacheSize = 256

// Inliner expands include reference nodes into copies of their defining
// fragment, scoped to one resolution folder. Expanded fragments are
// memoized per run; the registry is immutable while an Inliner lives.
type Inliner struct {
	folder *project.Folder
	cache  *lru.Cache[string, *xmlparse.Node]
}

func New(folder *project.Folder) *Inliner {
	cache, _ := lru.New[string, *xmlparse.Node](cacheSize)
	return &Inliner{folder: folder, cache: cache}
}

// ResolveInclude returns the expanded fragment for an include reference
// node, or nil when the node has no text or no matching definition in
// the folder's registry ("no replacement").
func (in *Inliner) ResolveInclude(node *xmlparse.Node) *xmlparse.Node {
	if node == nil || node.Text == "" {
		return nil
	}
	return in.expand(node.Text, make(map[string]bool), 0)
}

// ResolveIncludes replaces every resolvable include node reachable in the
// tree with its expanded fragment, in document order, on a copy of the
// tree. Unresolvable nodes are left in place.
func (in *Inliner) ResolveIncludes(tree *xmlparse.Node) *xmlparse.Node {
	out := tree.Clone()
	in.resolveChildren(out, make(map[string]bool), 0)
	return out
}

func (in *Inliner) expand(name string, stack map[string]bool, depth int) *xmlparse.Node {
	if depth > MaxDepth || stack[name] {
		return nil
	}
	if cached, ok := in.cache.Get(name); ok {
		return cached.Clone()
	}
	entry, ok := in.folder.Registry.Lookup(name, project.EntryInclude)
	if !ok {
		return nil
	}
	stack[name] = true
	out := entry.Node.Clone()
	in.resolveChildren(out, stack, depth+1)
	delete(stack, name)
	in.cache.Add(name, out.Clone())
	return out
}

func (in *Inliner) resolveChildren(node *xmlparse.Node, stack map[string]bool, depth int) {
	for i, child := range node.Children {
		if child.Tag == "include" && child.Text != "" {
			if repl := in.expand(child.Text, stack, depth); repl != nil {
				node.Children[i] = repl
				continue
			}
		}
		in.resolveChildren(child, stack, depth)
	}
}
