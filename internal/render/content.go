package render

import (
	"fmt"
	"html/template"
	"sort"
	"strconv"
	"strings"

	"github.com/lnkday/page-engine/internal/page"
)

// Block content arrives as decoded JSON, so values are string, float64, bool
// or nested maps/slices. The helpers below normalize the common cases.

func contentString(content map[string]any, key string) string {
	if content == nil {
		return ""
	}
	if s, ok := content[key].(string); ok {
		return s
	}
	return ""
}

func contentBool(content map[string]any, key string, def bool) bool {
	if content == nil {
		return def
	}
	if b, ok := content[key].(bool); ok {
		return b
	}
	return def
}

func contentFloat(content map[string]any, key string, def float64) float64 {
	if content == nil {
		return def
	}
	switch v := content[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// contentScalar reads a value that may arrive as either a string or a JSON
// number, normalizing numbers to their shortest decimal form.
func contentScalar(content map[string]any, key string) string {
	if content == nil {
		return ""
	}
	switch v := content[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func contentList(content map[string]any, key string) []map[string]any {
	if content == nil {
		return nil
	}
	raw, ok := content[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// esc escapes plain-text content for safe embedding in markup. Note that
// html-type blocks and custom CSS/JS are deliberately NOT escaped; those are
// trusted input per the page settings trust boundary.
func esc(s string) string {
	return template.HTMLEscapeString(s)
}

// styleAttr flattens a block's presentational overrides into an inline style
// attribute, keys sorted for deterministic output. Empty map, empty string.
func styleAttr(style map[string]string) string {
	if len(style) == 0 {
		return ""
	}
	keys := make([]string, 0, len(style))
	for k := range style {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(cssVarName(k))
		sb.WriteString(": ")
		sb.WriteString(style[k])
		sb.WriteString("; ")
	}
	return fmt.Sprintf(` style="%s"`, esc(strings.TrimSpace(sb.String())))
}

// wrap encloses a compiled fragment in the standard block container carrying
// the block id for click attribution.
func wrap(b page.Block, inner string) string {
	return fmt.Sprintf(`<div class="pe-block pe-block--%s" data-pe-block="%s"%s>%s</div>`,
		esc(b.Type), esc(b.ID), styleAttr(b.Style), inner)
}
