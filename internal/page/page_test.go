package page_test

import (
	"testing"
	"time"

	"github.com/lnkday/page-engine/internal/page"
)

func TestPublishSetsPublishedAtOnce(t *testing.T) {
	p := &page.Page{Slug: "links", Status: page.StatusDraft}

	first := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	p.Publish(first)

	if p.Status != page.StatusPublished {
		t.Errorf("expected published, got %s", p.Status)
	}
	if p.PublishedAt == nil || !p.PublishedAt.Equal(first) {
		t.Fatalf("expected publishedAt %v, got %v", first, p.PublishedAt)
	}

	p.Unpublish()
	if p.Status != page.StatusDraft {
		t.Errorf("expected draft after unpublish, got %s", p.Status)
	}
	if p.PublishedAt == nil || !p.PublishedAt.Equal(first) {
		t.Error("expected publishedAt kept across unpublish")
	}

	// Republishing later keeps the original timestamp.
	p.Publish(first.Add(48 * time.Hour))
	if !p.PublishedAt.Equal(first) {
		t.Errorf("expected original publishedAt kept, got %v", p.PublishedAt)
	}
}

func TestUnpublishIdempotent(t *testing.T) {
	p := &page.Page{Slug: "links", Status: page.StatusDraft}

	p.Unpublish()
	p.Unpublish()

	if p.Status != page.StatusDraft {
		t.Errorf("expected draft, got %s", p.Status)
	}
	if p.PublishedAt != nil {
		t.Error("expected no publishedAt on never-published page")
	}
}

func TestArchive(t *testing.T) {
	p := &page.Page{Slug: "links", Status: page.StatusPublished}
	p.Archive()
	if p.Status != page.StatusArchived {
		t.Errorf("expected archived, got %s", p.Status)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	now := time.Now()
	p := &page.Page{
		ID:   "p1",
		Slug: "links",
		Blocks: []page.Block{
			{ID: "b1", Type: "header",
				Content: map[string]any{"text": "Hello"},
				Style:   map[string]string{"color": "red"}},
		},
		Theme: page.Theme{"background": "#fff"},
		Settings: page.Settings{
			Experiment: &page.Experiment{
				IsEnabled: true,
				Variants: []page.Variant{
					{ID: "v1", Theme: page.Theme{"background": "#000"}},
				},
			},
		},
		PublishedAt: &now,
	}

	c := p.Clone()
	c.Blocks[0].Content["text"] = "changed"
	c.Blocks[0].Style["color"] = "blue"
	c.Theme["background"] = "#000"
	c.Settings.Experiment.IsEnabled = false
	c.Settings.Experiment.Variants[0].Theme["background"] = "#fff"
	*c.PublishedAt = now.Add(time.Hour)

	if p.Blocks[0].Content["text"] != "Hello" {
		t.Error("block content shared with clone")
	}
	if p.Blocks[0].Style["color"] != "red" {
		t.Error("block style shared with clone")
	}
	if p.Theme["background"] != "#fff" {
		t.Error("theme shared with clone")
	}
	if !p.Settings.Experiment.IsEnabled {
		t.Error("experiment shared with clone")
	}
	if p.Settings.Experiment.Variants[0].Theme["background"] != "#000" {
		t.Error("variant theme shared with clone")
	}
	if !p.PublishedAt.Equal(now) {
		t.Error("publishedAt shared with clone")
	}
}

func TestThemeCloneNil(t *testing.T) {
	var th page.Theme
	if th.Clone() != nil {
		t.Error("expected nil theme to clone to nil")
	}
}

func TestExperimentVariantLookup(t *testing.T) {
	exp := &page.Experiment{
		Variants: []page.Variant{{ID: "v1"}, {ID: "v2", Name: "Dark"}},
	}

	if v := exp.Variant("v2"); v == nil || v.Name != "Dark" {
		t.Errorf("expected v2 lookup, got %v", v)
	}
	if exp.Variant("missing") != nil {
		t.Error("expected nil for unknown id")
	}

	var none *page.Experiment
	if none.Variant("v1") != nil {
		t.Error("expected nil receiver lookup to return nil")
	}
}
