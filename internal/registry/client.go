package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Client retrieves registry items, indexes, and schemas by name, URL, or
// local file path.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for the given registry base URL. A nil
// httpClient falls back to http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// BaseURL returns the registry base URL the client was configured with.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchItem retrieves a registry item and decodes it into a RegistryItem.
func (c *Client) FetchItem(ctx context.Context, ref string) (*RegistryItem, error) {
	raw, err := c.FetchRaw(ctx, ref)
	if err != nil {
		return nil, err
	}
	return DecodeItem(raw)
}

// FetchRaw retrieves a registry item as a generic JSON-shaped map, suitable
// for schema validation before decoding. The ref may be a bare item name
// (resolved against the registry base URL), an absolute http(s) URL, or a
// local .json/.yaml/.yml file path.
func (c *Client) FetchRaw(ctx context.Context, ref string) (map[string]any, error) {
	if isLocalRef(ref) {
		return readLocal(ref)
	}

	url := ref
	if !isURL(ref) {
		url = fmt.Sprintf("%s/%s.json", c.baseURL, ref)
	}

	var raw map[string]any
	if err := c.getJSON(ctx, ref, url, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// FetchIndex retrieves the registry's index.json listing, sorted by name.
func (c *Client) FetchIndex(ctx context.Context) ([]IndexEntry, error) {
	url := c.baseURL + "/index.json"

	var entries []IndexEntry
	if err := c.getJSON(ctx, "index", url, &entries); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// FetchSchema retrieves the registry item schema document. An empty url
// resolves to {baseURL}/schema.json.
func (c *Client) FetchSchema(ctx context.Context, url string) (*ItemSchema, error) {
	if url == "" {
		url = c.baseURL + "/schema.json"
	}

	var schema ItemSchema
	if err := c.getJSON(ctx, "schema", url, &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

// getJSON performs a GET and decodes the JSON response body into v.
// Non-2xx statuses and decode failures surface as *FetchError.
func (c *Client) getJSON(ctx context.Context, ref, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &FetchError{Ref: ref, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "stencil")

	resp, err := c.http.Do(req)
	if err != nil {
		return &FetchError{Ref: ref, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{Ref: ref, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{Ref: ref, Err: fmt.Errorf("reading response body: %w", err)}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &FetchError{Ref: ref, Err: fmt.Errorf("parsing JSON: %w", err)}
	}
	return nil
}

// DecodeItem converts a generic map into a RegistryItem and checks the
// structural invariant that name and type are present and valid.
func DecodeItem(raw map[string]any) (*RegistryItem, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding item: %w", err)
	}

	var item RegistryItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("decoding item: %w", err)
	}

	if item.Name == "" {
		return nil, fmt.Errorf("registry item has no name")
	}
	if !item.Type.Valid() {
		return nil, fmt.Errorf("registry item %s: unknown type %q", item.Name, string(item.Type))
	}
	return &item, nil
}

// isURL reports whether ref is an absolute http(s) URL.
func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// isLocalRef reports whether ref points at a local item file rather than a
// registry name or URL.
func isLocalRef(ref string) bool {
	if isURL(ref) {
		return false
	}
	switch filepath.Ext(ref) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../") || filepath.IsAbs(ref)
}

// readLocal reads a registry item from a local JSON or YAML file.
func readLocal(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FetchError{Ref: path, Err: err}
	}

	var raw map[string]any
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &FetchError{Ref: path, Err: fmt.Errorf("parsing YAML: %w", err)}
		}
		raw, _ = normalizeYAML(raw).(map[string]any)
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, &FetchError{Ref: path, Err: fmt.Errorf("parsing JSON: %w", err)}
		}
	}
	return raw, nil
}

// normalizeYAML recursively converts YAML-decoded values to JSON-compatible
// types so that schema validation sees the same shapes for both formats.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, inner := range val {
			m[k] = normalizeYAML(inner)
		}
		return m
	case []any:
		a := make([]any, len(val))
		for i, inner := range val {
			a[i] = normalizeYAML(inner)
		}
		return a
	default:
		return val
	}
}
