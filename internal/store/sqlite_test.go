package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/lnkday/page-engine/internal/page"
	"github.com/lnkday/page-engine/internal/store"
)

func openTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "pages.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func samplePage(id, slug string) *page.Page {
	return &page.Page{
		ID:     id,
		Slug:   slug,
		TeamID: "team-1",
		Status: page.StatusDraft,
		Blocks: []page.Block{
			{ID: "b1", Type: "header", Content: map[string]any{"text": "Hello"}, Order: 0},
			{ID: "b2", Type: "text", Content: map[string]any{"text": "World"}, Order: 1},
		},
		Theme: page.Theme{"background": "#fff"},
		Settings: page.Settings{
			CustomCSS: ".pe-block { margin: 0; }",
		},
	}
}

func TestCreateAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := samplePage("p1", "my-links")
	if err := s.Create(ctx, p); err != nil {
		t.Fatalf("failed to create page: %v", err)
	}

	got, err := s.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("failed to get page: %v", err)
	}
	if got.Slug != "my-links" {
		t.Errorf("expected slug my-links, got %s", got.Slug)
	}
	if got.TeamID != "team-1" {
		t.Errorf("expected team-1, got %s", got.TeamID)
	}
	if len(got.Blocks) != 2 || got.Blocks[0].Content["text"] != "Hello" {
		t.Errorf("expected blocks roundtrip, got %v", got.Blocks)
	}
	if got.Theme["background"] != "#fff" {
		t.Errorf("expected theme roundtrip, got %v", got.Theme)
	}
	if got.Settings.CustomCSS != ".pe-block { margin: 0; }" {
		t.Errorf("expected settings roundtrip, got %v", got.Settings)
	}
	if got.PublishedAt != nil {
		t.Error("expected no publishedAt on draft")
	}
}

func TestGetBySlug(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, samplePage("p1", "my-links")); err != nil {
		t.Fatalf("failed to create page: %v", err)
	}

	got, err := s.GetBySlug(ctx, "my-links")
	if err != nil {
		t.Fatalf("failed to get page by slug: %v", err)
	}
	if got.ID != "p1" {
		t.Errorf("expected p1, got %s", got.ID)
	}

	if _, err := s.GetBySlug(ctx, "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateDuplicateSlug(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, samplePage("p1", "my-links")); err != nil {
		t.Fatalf("failed to create page: %v", err)
	}

	err := s.Create(ctx, samplePage("p2", "my-links"))
	if !errors.Is(err, store.ErrSlugTaken) {
		t.Errorf("expected ErrSlugTaken, got %v", err)
	}
}

func TestSave(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := samplePage("p1", "my-links")
	if err := s.Create(ctx, p); err != nil {
		t.Fatalf("failed to create page: %v", err)
	}

	p.Publish(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	p.Theme["background"] = "#000"
	if err := s.Save(ctx, p); err != nil {
		t.Fatalf("failed to save page: %v", err)
	}

	got, err := s.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("failed to get page: %v", err)
	}
	if got.Status != page.StatusPublished {
		t.Errorf("expected published, got %s", got.Status)
	}
	if got.PublishedAt == nil || got.PublishedAt.Unix() != p.PublishedAt.Unix() {
		t.Errorf("expected publishedAt roundtrip, got %v", got.PublishedAt)
	}
	if got.Theme["background"] != "#000" {
		t.Errorf("expected updated theme, got %v", got.Theme)
	}
}

func TestSaveUnknownPage(t *testing.T) {
	s := openTestStore(t)

	err := s.Save(context.Background(), samplePage("ghost", "ghost"))
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveExperimentRoundtrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := samplePage("p1", "my-links")
	if err := s.Create(ctx, p); err != nil {
		t.Fatalf("failed to create page: %v", err)
	}

	p.Settings.Experiment = &page.Experiment{
		IsEnabled: true,
		Variants: []page.Variant{
			{ID: "v1", Name: "Control", TrafficPercentage: 50, IsControl: true},
			{ID: "v2", Name: "Dark", TrafficPercentage: 50, Theme: page.Theme{"background": "#000"}},
		},
	}
	if err := s.Save(ctx, p); err != nil {
		t.Fatalf("failed to save page: %v", err)
	}

	got, err := s.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("failed to get page: %v", err)
	}
	exp := got.Settings.Experiment
	if exp == nil || !exp.IsEnabled {
		t.Fatal("expected enabled experiment roundtrip")
	}
	if len(exp.Variants) != 2 || !exp.Variants[0].IsControl {
		t.Errorf("expected variants roundtrip, got %v", exp.Variants)
	}
	if exp.Variants[1].Theme["background"] != "#000" {
		t.Errorf("expected variant theme roundtrip, got %v", exp.Variants[1].Theme)
	}
}

func TestList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, slug := range []string{"one", "two", "three"} {
		if err := s.Create(ctx, samplePage("id-"+slug, slug)); err != nil {
			t.Fatalf("failed to create %s: %v", slug, err)
		}
	}

	pages, err := s.List(ctx)
	if err != nil {
		t.Fatalf("failed to list pages: %v", err)
	}
	if len(pages) != 3 {
		t.Errorf("expected 3 pages, got %d", len(pages))
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, samplePage("p1", "my-links")); err != nil {
		t.Fatalf("failed to create page: %v", err)
	}

	if err := s.Delete(ctx, "my-links"); err != nil {
		t.Fatalf("failed to delete page: %v", err)
	}
	if _, err := s.GetBySlug(ctx, "my-links"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := s.Delete(ctx, "my-links"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestIncrementViews(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, samplePage("p1", "my-links")); err != nil {
		t.Fatalf("failed to create page: %v", err)
	}

	if err := s.IncrementViews(ctx, "p1", true); err != nil {
		t.Fatalf("failed to increment views: %v", err)
	}
	if err := s.IncrementViews(ctx, "p1", false); err != nil {
		t.Fatalf("failed to increment views: %v", err)
	}

	got, err := s.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("failed to get page: %v", err)
	}
	if got.Views != 2 {
		t.Errorf("expected 2 views, got %d", got.Views)
	}
	if got.UniqueViews != 1 {
		t.Errorf("expected 1 unique view, got %d", got.UniqueViews)
	}
}
