package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"
)

// TreeBuilder resolves registry dependency trees. Sibling subtrees are
// fetched concurrently; each node's own fetch completes before its children
// are requested (child names are only known from the parent response).
type TreeBuilder struct {
	client *Client
	schema *ItemSchema // optional; items are validated when set
	out    io.Writer   // destination for skipped-dependency warnings

	mu sync.Mutex
}

// NewTreeBuilder returns a TreeBuilder over the given client. The schema is
// optional; when nil, items are only structurally decoded. Warnings about
// skipped dependencies are written to out.
func NewTreeBuilder(client *Client, schema *ItemSchema, out io.Writer) *TreeBuilder {
	if out == nil {
		out = io.Discard
	}
	return &TreeBuilder{client: client, schema: schema, out: out}
}

// Build resolves the named item and recursively builds its dependency tree.
// Cycles abort the whole build with a *CircularDependencyError. A failed
// fetch or validation of the root propagates; the same failure on a
// dependency is logged and that one dependency is skipped.
func (b *TreeBuilder) Build(ctx context.Context, ref string) (*DependencyNode, error) {
	return b.buildNode(ctx, ref, nil, 0)
}

func (b *TreeBuilder) buildNode(ctx context.Context, ref string, visited map[string]bool, depth int) (*DependencyNode, error) {
	// Cycle check happens before any fetch.
	if visited[ref] {
		return nil, &CircularDependencyError{Name: ref}
	}

	// Branch-local copy: siblings must not see each other's visited sets,
	// only their ancestors'.
	branch := make(map[string]bool, len(visited)+1)
	for name := range visited {
		branch[name] = true
	}
	branch[ref] = true

	raw, err := b.client.FetchRaw(ctx, ref)
	if err != nil {
		return nil, err
	}

	if b.schema != nil {
		report := ValidateItem(b.schema, raw)
		if !report.Valid() {
			return nil, &ValidationError{Name: ref, Errors: report.Errors}
		}
		for _, w := range report.Warnings {
			b.warnf("%s: %s", ref, w)
		}
	}

	item, err := DecodeItem(raw)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", ref, err)
	}

	node := &DependencyNode{Name: item.Name, Item: item, Depth: depth}
	deps := item.RegistryDependencies
	if len(deps) == 0 {
		return node, nil
	}

	// Fan out sibling fetches; slots keep declaration order stable.
	children := make([]*DependencyNode, len(deps))
	g, gctx := errgroup.WithContext(ctx)
	for i, dep := range deps {
		i, dep := i, dep
		g.Go(func() error {
			child, err := b.buildNode(gctx, dep, branch, depth+1)
			if err != nil {
				var cyc *CircularDependencyError
				if errors.As(err, &cyc) {
					return err
				}
				// Dependency failures are isolated: log and skip this one
				// dependency, keep the rest of the tree.
				b.warnf("skipping dependency %s: %v", dep, err)
				return nil
			}
			children[i] = child
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, child := range children {
		if child != nil {
			node.Children = append(node.Children, child)
		}
	}
	return node, nil
}

func (b *TreeBuilder) warnf(format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintf(b.out, "  warning: "+format+"\n", args...)
}

// FlattenTree returns every item in the tree exactly once, in first-seen
// depth-first order, deduplicated by name across the whole tree.
func FlattenTree(root *DependencyNode) []*RegistryItem {
	seen := make(map[string]bool)
	var result []*RegistryItem
	flattenRecursive(root, seen, &result)
	return result
}

func flattenRecursive(node *DependencyNode, seen map[string]bool, result *[]*RegistryItem) {
	if node == nil || seen[node.Name] {
		return
	}
	seen[node.Name] = true
	*result = append(*result, node.Item)

	for _, child := range node.Children {
		flattenRecursive(child, seen, result)
	}
}

// InstallationOrder returns item names in dependency-first (topological)
// order: children are fully visited and appended before their parent, and
// each name appears at most once, first occurrence winning.
func InstallationOrder(root *DependencyNode) []string {
	seen := make(map[string]bool)
	var order []string
	orderRecursive(root, seen, &order)
	return order
}

func orderRecursive(node *DependencyNode, seen map[string]bool, order *[]string) {
	if node == nil {
		return
	}
	for _, child := range node.Children {
		orderRecursive(child, seen, order)
	}
	if !seen[node.Name] {
		seen[node.Name] = true
		*order = append(*order, node.Name)
	}
}

// AllDependencies unions, across the flattened tree, each item's registry
// dependencies and npm dependencies/devDependencies, deduplicated in
// first-seen order.
func AllDependencies(root *DependencyNode) AggregatedDeps {
	items := FlattenTree(root)

	agg := AggregatedDeps{Items: items}
	seenReg := make(map[string]bool)
	seenNPM := make(map[string]bool)
	seenDev := make(map[string]bool)

	for _, item := range items {
		for _, name := range item.RegistryDependencies {
			if !seenReg[name] {
				seenReg[name] = true
				agg.Registry = append(agg.Registry, name)
			}
		}
		for _, pkg := range item.Dependencies {
			if !seenNPM[pkg] {
				seenNPM[pkg] = true
				agg.NPM = append(agg.NPM, pkg)
			}
		}
		for _, pkg := range item.DevDependencies {
			if !seenDev[pkg] {
				seenDev[pkg] = true
				agg.NPMDev = append(agg.NPMDev, pkg)
			}
		}
	}
	return agg
}

// PrintTree prints the dependency tree with box-drawing characters.
func PrintTree(w io.Writer, node *DependencyNode, prefix string, isLast bool) {
	if node == nil {
		return
	}

	connector := "├── "
	if isLast {
		connector = "└── "
	}

	label := fmt.Sprintf("%s (%s)", node.Name, node.Item.Type)

	// The root node prints without a connector.
	if node.Depth == 0 {
		fmt.Fprintf(w, "  %s\n", label)
	} else {
		fmt.Fprintf(w, "  %s%s%s\n", prefix, connector, label)
	}

	childPrefix := prefix
	if node.Depth > 0 {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}

	for i, child := range node.Children {
		PrintTree(w, child, childPrefix, i == len(node.Children)-1)
	}
}
