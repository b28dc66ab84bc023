package transform

import (
	"regexp"

	"github.com/stencil-ui/stencil/internal/project"
)

// stmtPrefix matches the statement forms whose string literals get
// rewritten: from, dynamic import(, bare import, require(, and CSS @import.
const stmtPrefix = `(from\s+|import\s*\(\s*|import\s+|require\s*\(\s*|@import\s+)`

// quotePrefix covers the statement forms subject to quote normalization
// (require is deliberately absent).
const quotePrefix = `(from\s+|import\s*\(\s*|import\s+|@import\s+)`

// Rewriter rewrites registry-namespace import paths in file content to the
// consuming project's aliases.
//
// This is a targeted regex rewrite, not a parser-based transform: a literal
// string containing import-like syntax could be incorrectly rewritten.
// Acceptable here since registry files are component definitions, not
// arbitrary user text, and they may target multiple front-end dialects that
// no single parser covers.
type Rewriter struct {
	rules     []rewriteRule
	quoteRule *regexp.Regexp
}

type rewriteRule struct {
	re    *regexp.Regexp
	alias string
}

// NewRewriter prepares the per-role rewrite rules for a project config.
func NewRewriter(cfg *project.Config) *Rewriter {
	var rules []rewriteRule
	for _, role := range project.Roles {
		alias := cfg.AliasFor(role)
		if alias == "" {
			continue
		}
		// The leading "@/" on the virtual path is optional and immaterial;
		// the platform segment is a wildcard.
		re := regexp.MustCompile(stmtPrefix + `(["'])(?:@/)?registry/[^/"']+/` + role + `/([^"']+)["']`)
		rules = append(rules, rewriteRule{re: re, alias: alias})
	}

	return &Rewriter{
		rules:     rules,
		quoteRule: regexp.MustCompile(quotePrefix + `'(@/[^']*)'`),
	}
}

// Rewrite replaces registry-namespace specifiers with the configured
// aliases, preserving the sub-path after the matched prefix, then
// normalizes alias-prefixed specifiers to double quotes.
func (r *Rewriter) Rewrite(content string) string {
	for _, rule := range r.rules {
		content = rule.re.ReplaceAllString(content, `${1}"`+rule.alias+`/${3}"`)
	}
	return r.quoteRule.ReplaceAllString(content, `${1}"${2}"`)
}
