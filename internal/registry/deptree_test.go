package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

// serveItems starts a registry server answering {name}.json for each item.
func serveItems(t *testing.T, items ...*RegistryItem) *Client {
	t.Helper()

	byPath := make(map[string]*RegistryItem, len(items))
	for _, item := range items {
		byPath["/"+item.Name+".json"] = item
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		item, ok := byPath[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(item)
	}))
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, srv.Client())
}

func TestBuildDependencyTreeOrder(t *testing.T) {
	client := serveItems(t,
		&RegistryItem{Name: "button", Type: TypeUI},
		&RegistryItem{Name: "card", Type: TypeComponent, RegistryDependencies: []string{"button"}},
	)

	builder := NewTreeBuilder(client, nil, nil)
	tree, err := builder.Build(context.Background(), "card")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	order := InstallationOrder(tree)
	want := []string{"button", "card"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("InstallationOrder = %v, want %v", order, want)
	}
}

func TestBuildDependencyTreeDiamond(t *testing.T) {
	// dialog and card both depend on button; button appears once.
	client := serveItems(t,
		&RegistryItem{Name: "button", Type: TypeUI},
		&RegistryItem{Name: "card", Type: TypeComponent, RegistryDependencies: []string{"button"}},
		&RegistryItem{Name: "dialog", Type: TypeComponent, RegistryDependencies: []string{"button"}},
		&RegistryItem{Name: "page", Type: TypeBlock, RegistryDependencies: []string{"card", "dialog"}},
	)

	builder := NewTreeBuilder(client, nil, nil)
	tree, err := builder.Build(context.Background(), "page")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	order := InstallationOrder(tree)
	want := []string{"button", "card", "dialog", "page"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("InstallationOrder = %v, want %v", order, want)
	}

	seen := make(map[string]int)
	for _, item := range FlattenTree(tree) {
		seen[item.Name]++
	}
	if seen["button"] != 1 {
		t.Errorf("button flattened %d times, want 1", seen["button"])
	}
}

func TestBuildDependencyTreeSelfCycle(t *testing.T) {
	fetches := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		json.NewEncoder(w).Encode(&RegistryItem{
			Name: "a", Type: TypeComponent, RegistryDependencies: []string{"a"},
		})
	}))
	defer srv.Close()

	builder := NewTreeBuilder(NewClient(srv.URL, srv.Client()), nil, nil)
	_, err := builder.Build(context.Background(), "a")

	var cyc *CircularDependencyError
	if !errors.As(err, &cyc) {
		t.Fatalf("got %v, want CircularDependencyError", err)
	}
	if cyc.Name != "a" {
		t.Errorf("cycle names %q, want %q", cyc.Name, "a")
	}
	if fetches != 1 {
		t.Errorf("performed %d fetches, want 1 (no fetch past the cycle check)", fetches)
	}
}

func TestBuildDependencyTreeMutualCycle(t *testing.T) {
	client := serveItems(t,
		&RegistryItem{Name: "a", Type: TypeComponent, RegistryDependencies: []string{"b"}},
		&RegistryItem{Name: "b", Type: TypeComponent, RegistryDependencies: []string{"a"}},
	)

	builder := NewTreeBuilder(client, nil, nil)
	_, err := builder.Build(context.Background(), "a")

	var cyc *CircularDependencyError
	if !errors.As(err, &cyc) {
		t.Fatalf("got %v, want CircularDependencyError", err)
	}
}

func TestBuildDependencyTreeSiblingsShareNoVisited(t *testing.T) {
	// card and dialog both depend on button: not a cycle, only a shared
	// dependency. Ancestor sets are branch-local.
	client := serveItems(t,
		&RegistryItem{Name: "button", Type: TypeUI},
		&RegistryItem{Name: "card", Type: TypeComponent, RegistryDependencies: []string{"button"}},
		&RegistryItem{Name: "dialog", Type: TypeComponent, RegistryDependencies: []string{"button"}},
		&RegistryItem{Name: "page", Type: TypeBlock, RegistryDependencies: []string{"card", "dialog"}},
	)

	builder := NewTreeBuilder(client, nil, nil)
	tree, err := builder.Build(context.Background(), "page")
	if err != nil {
		t.Fatalf("shared sibling dependency must not be reported as a cycle: %v", err)
	}

	if len(tree.Children) != 2 {
		t.Fatalf("page has %d children, want 2", len(tree.Children))
	}
	for _, child := range tree.Children {
		if len(child.Children) != 1 || child.Children[0].Name != "button" {
			t.Errorf("child %s should keep its own button subtree", child.Name)
		}
		if child.Children[0].Depth != 2 {
			t.Errorf("button depth = %d, want 2", child.Children[0].Depth)
		}
	}
}

func TestBuildDependencyTreeSkipsFailingDependency(t *testing.T) {
	// "missing" is never served; card still resolves.
	client := serveItems(t,
		&RegistryItem{Name: "button", Type: TypeUI},
		&RegistryItem{Name: "card", Type: TypeComponent, RegistryDependencies: []string{"missing", "button"}},
	)

	var warnings bytes.Buffer
	builder := NewTreeBuilder(client, nil, &warnings)
	tree, err := builder.Build(context.Background(), "card")
	if err != nil {
		t.Fatalf("dependency fetch failure must be isolated: %v", err)
	}

	if len(tree.Children) != 1 || tree.Children[0].Name != "button" {
		t.Fatalf("got children %+v, want only button", tree.Children)
	}
	if !bytes.Contains(warnings.Bytes(), []byte("missing")) {
		t.Errorf("expected a warning naming the skipped dependency, got %q", warnings.String())
	}
}

func TestBuildDependencyTreeRootFetchFatal(t *testing.T) {
	client := serveItems(t) // serves nothing

	builder := NewTreeBuilder(client, nil, nil)
	_, err := builder.Build(context.Background(), "ghost")

	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("got %v, want FetchError", err)
	}
	if ferr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", ferr.StatusCode)
	}
}

func TestBuildDependencyTreeValidation(t *testing.T) {
	schema := &ItemSchema{
		Required: []string{"name", "type", "files"},
		Properties: map[string]PropertySpec{
			"name":  {Type: "string"},
			"type":  {Type: "string"},
			"files": {Type: "array"},
		},
	}

	client := serveItems(t,
		&RegistryItem{Name: "bad", Type: TypeComponent}, // no files
	)

	builder := NewTreeBuilder(client, schema, nil)
	_, err := builder.Build(context.Background(), "bad")

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if len(verr.Errors) != 1 || verr.Errors[0] != "Missing required field: files" {
		t.Errorf("errors = %v", verr.Errors)
	}
}

func TestAllDependencies(t *testing.T) {
	client := serveItems(t,
		&RegistryItem{Name: "button", Type: TypeUI, Dependencies: []string{"react"}},
		&RegistryItem{
			Name: "card", Type: TypeComponent,
			RegistryDependencies: []string{"button"},
			Dependencies:         []string{"react", "clsx"},
			DevDependencies:      []string{"typescript"},
		},
	)

	builder := NewTreeBuilder(client, nil, nil)
	tree, err := builder.Build(context.Background(), "card")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	agg := AllDependencies(tree)
	if !reflect.DeepEqual(agg.Registry, []string{"button"}) {
		t.Errorf("Registry = %v", agg.Registry)
	}
	if !reflect.DeepEqual(agg.NPM, []string{"react", "clsx"}) {
		t.Errorf("NPM = %v", agg.NPM)
	}
	if !reflect.DeepEqual(agg.NPMDev, []string{"typescript"}) {
		t.Errorf("NPMDev = %v", agg.NPMDev)
	}
	if len(agg.Items) != 2 {
		t.Errorf("flattened %d items, want 2", len(agg.Items))
	}
}
