package render

import (
	"sort"
	"strings"

	"github.com/lnkday/page-engine/internal/page"
)

// ResolveTheme merges a variant theme override into the base theme. The merge
// is shallow and key-by-key: a key present in the override replaces the base
// value wholesale, every other key keeps its base value. Neither input is
// mutated.
func ResolveTheme(base page.Theme, override page.Theme) page.Theme {
	out := make(page.Theme, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// ThemeCSS renders the effective theme as a CSS custom-property block scoped
// to :root. Keys are emitted in sorted order so output is deterministic.
func ThemeCSS(theme page.Theme) string {
	if len(theme) == 0 {
		return ""
	}
	keys := make([]string, 0, len(theme))
	for k := range theme {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(":root {\n")
	for _, k := range keys {
		sb.WriteString("  --pe-")
		sb.WriteString(cssVarName(k))
		sb.WriteString(": ")
		sb.WriteString(theme[k])
		sb.WriteString(";\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// cssVarName converts a camelCase theme key to kebab-case.
func cssVarName(key string) string {
	var sb strings.Builder
	for i, r := range key {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r + ('a' - 'A'))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
