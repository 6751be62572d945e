package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/lnkday/page-engine/internal/page"
)

//go:embed templates/*
var templates embed.FS

var pageTmpl = template.Must(template.ParseFS(templates, "templates/page.html.tmpl"))

// Document is one rendered page. VariantID carries the selected experiment
// variant (empty when none) so the caller can attribute views and clicks.
type Document struct {
	HTML      string
	VariantID string
}

type shellData struct {
	PageID    string
	VariantID string
	Head      template.HTML
	ThemeCSS  template.CSS
	Body      template.HTML
	CustomCSS template.CSS
	CustomJS  template.JS
}

// Render turns a page and an optional selected variant into one
// self-contained document. headHTML is the opaque head-metadata fragment
// supplied by the SEO collaborator; it is injected verbatim at the reserved
// point. Variant blocks replace the page blocks wholesale, the variant theme
// is shallow-merged over the base theme, and custom CSS/JS pass through
// untouched.
func Render(p *page.Page, variant *page.Variant, headHTML string) (*Document, error) {
	blocks := p.Blocks
	var variantTheme page.Theme
	variantID := ""
	if variant != nil {
		variantID = variant.ID
		variantTheme = variant.Theme
		if variant.Blocks != nil {
			blocks = variant.Blocks
		}
	}

	theme := ResolveTheme(p.Theme, variantTheme)

	// Ascending by Order; blocks sharing a value keep their stored relative
	// position, which sort.SliceStable guarantees.
	ordered := make([]page.Block, len(blocks))
	copy(ordered, blocks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})

	var body strings.Builder
	for _, b := range ordered {
		body.WriteString(Compile(b, theme))
		body.WriteByte('\n')
	}

	data := shellData{
		PageID:    p.ID,
		VariantID: variantID,
		Head:      template.HTML(headHTML),
		ThemeCSS:  template.CSS(ThemeCSS(theme)),
		Body:      template.HTML(body.String()),
		CustomCSS: template.CSS(p.Settings.CustomCSS),
		CustomJS:  template.JS(p.Settings.CustomJS),
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render page document: %w", err)
	}

	return &Document{HTML: buf.String(), VariantID: variantID}, nil
}
