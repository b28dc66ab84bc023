package transform

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/stencil-ui/stencil/internal/project"
)

// rolePatterns matches "registry/<platform>/<role>/" for each directory
// role. The platform segment is a wildcard: registry/nextjs/lib/ and
// registry/universal/lib/ both map under the lib alias.
var rolePatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(project.Roles))
	for _, role := range project.Roles {
		m[role] = regexp.MustCompile(`^registry/[^/]+/` + role + `/`)
	}
	return m
}()

// ResolveTarget maps a registry file's virtual path to an absolute on-disk
// path in the consuming project. Paths under a known role prefix go through
// the alias table; unmatched paths are resolved verbatim relative to the
// project root when preserveDirs is set, or flattened to their base name
// otherwise. Pure and deterministic for identical inputs.
func ResolveTarget(virtualPath string, cfg *project.Config, preserveDirs bool) string {
	vp := strings.TrimPrefix(filepath.ToSlash(virtualPath), "@/")

	for _, role := range project.Roles {
		loc := rolePatterns[role].FindStringIndex(vp)
		if loc == nil {
			continue
		}
		alias := cfg.AliasFor(role)
		if alias == "" {
			continue
		}
		rest := vp[loc[1]:]
		return filepath.Join(cfg.RootDir, filepath.FromSlash(cfg.ExpandAlias(alias)), filepath.FromSlash(rest))
	}

	if preserveDirs {
		return filepath.Join(cfg.RootDir, filepath.FromSlash(vp))
	}
	return filepath.Join(cfg.RootDir, filepath.Base(vp))
}
