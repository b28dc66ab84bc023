package registry

import "fmt"

// ItemType is the closed set of registry item kind tags.
type ItemType string

const (
	TypeComponent ItemType = "registry:component"
	TypeBlock     ItemType = "registry:block"
	TypeLib       ItemType = "registry:lib"
	TypeUI        ItemType = "registry:ui"
	TypeHook      ItemType = "registry:hook"
	TypeTheme     ItemType = "registry:theme"
	TypePage      ItemType = "registry:page"
	TypeFile      ItemType = "registry:file"
	TypeStyle     ItemType = "registry:style"
)

// ItemTypes lists every valid kind tag in declaration order.
var ItemTypes = []ItemType{
	TypeComponent,
	TypeBlock,
	TypeLib,
	TypeUI,
	TypeHook,
	TypeTheme,
	TypePage,
	TypeFile,
	TypeStyle,
}

// ParseItemType converts a wire tag into an ItemType, rejecting unknown tags.
func ParseItemType(s string) (ItemType, error) {
	t := ItemType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown registry item type %q", s)
	}
	return t, nil
}

// Valid reports whether t is a member of the closed kind-tag set.
func (t ItemType) Valid() bool {
	switch t {
	case TypeComponent, TypeBlock, TypeLib, TypeUI, TypeHook,
		TypeTheme, TypePage, TypeFile, TypeStyle:
		return true
	}
	return false
}

// RegistryItem is a named, typed unit of distributable code. Name and Type
// are always present; everything else defaults to an empty collection.
type RegistryItem struct {
	Name                 string                       `json:"name" yaml:"name"`
	Type                 ItemType                     `json:"type" yaml:"type"`
	Description          string                       `json:"description,omitempty" yaml:"description,omitempty"`
	Dependencies         []string                     `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	DevDependencies      []string                     `json:"devDependencies,omitempty" yaml:"devDependencies,omitempty"`
	RegistryDependencies []string                     `json:"registryDependencies,omitempty" yaml:"registryDependencies,omitempty"`
	Files                []RegistryFile               `json:"files,omitempty" yaml:"files,omitempty"`
	CSSVars              map[string]map[string]string `json:"cssVars,omitempty" yaml:"cssVars,omitempty"`
}

// RegistryFile is one file belonging to an item. A nil Content means the
// file has no materializable content and is skipped at install time.
type RegistryFile struct {
	Path    string   `json:"path" yaml:"path"`
	Content *string  `json:"content,omitempty" yaml:"content,omitempty"`
	Type    ItemType `json:"type,omitempty" yaml:"type,omitempty"`
}

// DependencyNode is one node in a resolved dependency tree. Nodes are
// created during tree construction and immutable afterward.
type DependencyNode struct {
	Name     string
	Item     *RegistryItem
	Children []*DependencyNode
	Depth    int // distance from the root (root = 0)
}

// IndexEntry is one row of a registry's index.json listing.
type IndexEntry struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`
}

// AggregatedDeps is the union of dependencies across a flattened tree.
type AggregatedDeps struct {
	Registry []string        // registry item names, deduplicated
	NPM      []string        // npm dependencies, deduplicated
	NPMDev   []string        // npm devDependencies, deduplicated
	Items    []*RegistryItem // flattened item list, first-seen order
}
