package render_test

import (
	"strings"
	"testing"

	"github.com/lnkday/page-engine/internal/page"
	"github.com/lnkday/page-engine/internal/render"
)

func TestCompile_UnknownTypeIsEmpty(t *testing.T) {
	b := page.Block{ID: "x1", Type: "not-a-real-type", Content: map[string]any{"text": "hi"}}

	if got := render.Compile(b, nil); got != "" {
		t.Errorf("expected empty fragment for unknown type, got %q", got)
	}
}

func TestCompile_UnknownTypeDoesNotAbortSiblings(t *testing.T) {
	p := &page.Page{
		ID:     "p1",
		Slug:   "test",
		Status: page.StatusPublished,
		Blocks: []page.Block{
			{ID: "b1", Type: "text", Content: map[string]any{"text": "before"}, Order: 0},
			{ID: "b2", Type: "not-a-real-type", Order: 1},
			{ID: "b3", Type: "text", Content: map[string]any{"text": "after"}, Order: 2},
		},
	}

	doc, err := render.Render(p, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(doc.HTML, "before") || !strings.Contains(doc.HTML, "after") {
		t.Error("expected sibling blocks to compile around the unknown one")
	}
}

func TestRegister_Override(t *testing.T) {
	render.Register("custom-widget", func(b page.Block, _ page.Theme) string {
		return "<span>custom</span>"
	})

	b := page.Block{ID: "c1", Type: "custom-widget"}
	if got := render.Compile(b, nil); got != "<span>custom</span>" {
		t.Errorf("expected registered compiler output, got %q", got)
	}
}
