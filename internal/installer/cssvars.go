package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	cssVarsStart = "/* stencil:css-vars:start */"
	cssVarsEnd   = "/* stencil:css-vars:end */"
)

// cssGroupOrder fixes the emission order of the well-known variable groups.
var cssGroupOrder = []string{"theme", "light", "dark"}

// ProcessCSSVars flattens nested CSS variable groups into a single
// comment-delimited block and appends it to the project's global
// stylesheet, creating the stylesheet's directory if missing. Existing
// stylesheet content is never replaced. Empty input is a no-op.
func (p *Processor) ProcessCSSVars(cssVars map[string]map[string]string) error {
	if len(cssVars) == 0 {
		return nil
	}

	block := renderCSSVars(cssVars)
	path := p.cfg.StylesheetPath()

	if err := p.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating stylesheet directory: %w", err)
	}

	f, err := p.fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening stylesheet %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(block); err != nil {
		return fmt.Errorf("appending to stylesheet %s: %w", path, err)
	}

	fmt.Fprintf(p.out, "  ✓ appended CSS variables to %s\n", p.relPath(path))
	return nil
}

// renderCSSVars builds the appended block: well-known groups first in fixed
// order, remaining groups sorted, keys sorted within each group.
func renderCSSVars(cssVars map[string]map[string]string) string {
	var groups []string
	for _, g := range cssGroupOrder {
		if _, ok := cssVars[g]; ok {
			groups = append(groups, g)
		}
	}
	var rest []string
	for g := range cssVars {
		if !containsGroup(cssGroupOrder, g) {
			rest = append(rest, g)
		}
	}
	sort.Strings(rest)
	groups = append(groups, rest...)

	var b strings.Builder
	b.WriteString("\n" + cssVarsStart + "\n:root {\n")
	for _, g := range groups {
		vars := cssVars[g]
		keys := make([]string, 0, len(vars))
		for k := range vars {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  --%s: %s;\n", k, vars[k])
		}
	}
	b.WriteString("}\n" + cssVarsEnd + "\n")
	return b.String()
}

func containsGroup(list []string, g string) bool {
	for _, item := range list {
		if item == g {
			return true
		}
	}
	return false
}
