package seo

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/lnkday/page-engine/internal/page"
)

// HeadProvider supplies the head-metadata fragment for a page. The render
// pipeline injects the fragment verbatim; it never inspects it.
type HeadProvider interface {
	Head(p *page.Page) string
}

// MetaProvider derives title, description and OpenGraph tags from the page's
// own content: the first header block supplies the title, the first text
// block the description, with the slug as last resort.
type MetaProvider struct {
	// SiteName goes into og:site_name when set.
	SiteName string
}

func (m *MetaProvider) Head(p *page.Page) string {
	title := pageTitle(p)
	description := pageDescription(p)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<title>%s</title>\n", esc(title)))
	if description != "" {
		sb.WriteString(fmt.Sprintf("<meta name=\"description\" content=\"%s\">\n", esc(description)))
	}
	sb.WriteString(fmt.Sprintf("<meta property=\"og:title\" content=\"%s\">\n", esc(title)))
	if description != "" {
		sb.WriteString(fmt.Sprintf("<meta property=\"og:description\" content=\"%s\">\n", esc(description)))
	}
	sb.WriteString("<meta property=\"og:type\" content=\"website\">\n")
	if m.SiteName != "" {
		sb.WriteString(fmt.Sprintf("<meta property=\"og:site_name\" content=\"%s\">\n", esc(m.SiteName)))
	}
	return sb.String()
}

func pageTitle(p *page.Page) string {
	for _, b := range p.Blocks {
		if b.Type != "header" {
			continue
		}
		if text, ok := b.Content["text"].(string); ok && text != "" {
			return text
		}
	}
	return p.Slug
}

func pageDescription(p *page.Page) string {
	for _, b := range p.Blocks {
		if b.Type != "text" {
			continue
		}
		if text, ok := b.Content["text"].(string); ok && text != "" {
			// Truncate on rune boundaries so multi-byte text stays valid.
			runes := []rune(text)
			if len(runes) > 160 {
				return string(runes[:157]) + "..."
			}
			return text
		}
	}
	return ""
}

func esc(s string) string {
	return template.HTMLEscapeString(s)
}
