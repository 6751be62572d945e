package experiment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lnkday/page-engine/internal/experiment"
	"github.com/lnkday/page-engine/internal/page"
	"github.com/lnkday/page-engine/internal/store"
)

// fakeStore records saves so manager tests can run without a database.
type fakeStore struct {
	saved   *page.Page
	saveErr error
}

func (f *fakeStore) Create(context.Context, *page.Page) error { return nil }
func (f *fakeStore) Get(context.Context, string) (*page.Page, error) {
	return nil, store.ErrNotFound
}
func (f *fakeStore) GetBySlug(context.Context, string) (*page.Page, error) {
	return nil, store.ErrNotFound
}
func (f *fakeStore) List(context.Context) ([]*page.Page, error) { return nil, nil }
func (f *fakeStore) Save(_ context.Context, p *page.Page) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = p
	return nil
}
func (f *fakeStore) Delete(context.Context, string) error               { return nil }
func (f *fakeStore) IncrementViews(context.Context, string, bool) error { return nil }
func (f *fakeStore) Close() error                                       { return nil }

func experimentPage() *page.Page {
	return &page.Page{
		ID:     "p1",
		Slug:   "my-links",
		Status: page.StatusPublished,
		Blocks: []page.Block{
			{ID: "b1", Type: "header", Content: map[string]any{"text": "Hello"}, Order: 0},
		},
		Theme: page.Theme{"background": "#fff", "textColor": "#111"},
		Settings: page.Settings{
			Experiment: &page.Experiment{
				IsEnabled: true,
				Variants: []page.Variant{
					{ID: "v1", Name: "Control", TrafficPercentage: 50, IsControl: true},
					{ID: "v2", Name: "Dark", TrafficPercentage: 50,
						Theme: page.Theme{"background": "#000"},
						Blocks: []page.Block{
							{ID: "vb1", Type: "header", Content: map[string]any{"text": "Dark Hello"}, Order: 0},
						},
					},
				},
			},
		},
	}
}

func TestApplyConfig_RejectsBadTrafficSum(t *testing.T) {
	for _, sum := range [][]float64{{51, 50}, {49, 49}} {
		cfg := experiment.Config{
			IsEnabled: true,
			Variants: []page.Variant{
				{ID: "v1", TrafficPercentage: sum[0]},
				{ID: "v2", TrafficPercentage: sum[1]},
			},
		}

		_, err := experiment.ApplyConfig(experimentPage(), cfg)
		if !errors.Is(err, experiment.ErrTrafficSum) {
			t.Errorf("sum %v: expected ErrTrafficSum, got %v", sum, err)
		}
	}
}

func TestApplyConfig_AcceptsValidSum(t *testing.T) {
	cfg := experiment.Config{
		IsEnabled: true,
		Variants: []page.Variant{
			{ID: "v1", TrafficPercentage: 33.33},
			{ID: "v2", TrafficPercentage: 33.33},
			{ID: "v3", TrafficPercentage: 33.34},
		},
	}

	updated, err := experiment.ApplyConfig(experimentPage(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Settings.Experiment.Variants) != 3 {
		t.Error("expected new variant set stored")
	}
}

func TestApplyConfig_DisabledSkipsValidation(t *testing.T) {
	cfg := experiment.Config{
		IsEnabled: false,
		Variants:  []page.Variant{{ID: "v1", TrafficPercentage: 10}},
	}

	if _, err := experiment.ApplyConfig(experimentPage(), cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyConfig_DoesNotMutateInput(t *testing.T) {
	p := experimentPage()
	cfg := experiment.Config{IsEnabled: false, Variants: nil}

	if _, err := experiment.ApplyConfig(p, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(p.Settings.Experiment.Variants) != 2 {
		t.Error("expected input page untouched")
	}
}

func TestMergeWinner_MergesThemeAndBlocks(t *testing.T) {
	p := experimentPage()

	updated, err := experiment.MergeWinner(p, "v2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Theme: shallow merge, overridden key replaced, others kept.
	if updated.Theme["background"] != "#000" {
		t.Errorf("expected winner background, got %s", updated.Theme["background"])
	}
	if updated.Theme["textColor"] != "#111" {
		t.Errorf("expected base textColor kept, got %s", updated.Theme["textColor"])
	}

	// Blocks: wholesale replacement.
	if len(updated.Blocks) != 1 || updated.Blocks[0].ID != "vb1" {
		t.Errorf("expected winner blocks wholesale, got %v", updated.Blocks)
	}

	exp := updated.Settings.Experiment
	if exp.IsEnabled {
		t.Error("expected experiment disabled after winner merge")
	}
	if exp.WinnerVariantID != "v2" {
		t.Errorf("expected winner recorded, got %s", exp.WinnerVariantID)
	}
}

func TestMergeWinner_WithoutBlocksOverride(t *testing.T) {
	p := experimentPage()

	updated, err := experiment.MergeWinner(p, "v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(updated.Blocks) != 1 || updated.Blocks[0].ID != "b1" {
		t.Error("expected base blocks kept when winner has no override")
	}
	if updated.Theme["background"] != "#fff" {
		t.Error("expected base theme kept when winner has no override")
	}
}

func TestMergeWinner_UnknownVariant(t *testing.T) {
	_, err := experiment.MergeWinner(experimentPage(), "nope")
	if !errors.Is(err, experiment.ErrVariantNotFound) {
		t.Errorf("expected ErrVariantNotFound, got %v", err)
	}
}

func TestMergeWinner_NoActiveExperiment(t *testing.T) {
	p := experimentPage()
	p.Settings.Experiment.IsEnabled = false

	_, err := experiment.MergeWinner(p, "v2")
	if !errors.Is(err, experiment.ErrNoActiveExperiment) {
		t.Errorf("expected ErrNoActiveExperiment, got %v", err)
	}
}

func TestMergeWinner_OneWayBoundary(t *testing.T) {
	first, err := experiment.MergeWinner(experimentPage(), "v2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The concluded record cannot host a second declaration.
	_, err = experiment.MergeWinner(first, "v1")
	if !errors.Is(err, experiment.ErrNoActiveExperiment) {
		t.Errorf("expected second declaration to fail with ErrNoActiveExperiment, got %v", err)
	}
}

func TestMergeWinner_DoesNotMutateInput(t *testing.T) {
	p := experimentPage()

	if _, err := experiment.MergeWinner(p, "v2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Theme["background"] != "#fff" {
		t.Error("expected input theme untouched")
	}
	if p.Blocks[0].ID != "b1" {
		t.Error("expected input blocks untouched")
	}
	if !p.Settings.Experiment.IsEnabled {
		t.Error("expected input experiment still enabled")
	}
}

func TestManager_ConfigurePersists(t *testing.T) {
	fs := &fakeStore{}
	m := experiment.NewManager(fs)

	cfg := experiment.Config{
		IsEnabled: true,
		Variants: []page.Variant{
			{ID: "v1", TrafficPercentage: 50},
			{ID: "v2", TrafficPercentage: 50},
		},
	}

	updated, err := m.Configure(context.Background(), experimentPage(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fs.saved != updated {
		t.Error("expected updated record saved to store")
	}
}

func TestManager_ConfigureRejectsBeforeSave(t *testing.T) {
	fs := &fakeStore{}
	m := experiment.NewManager(fs)

	cfg := experiment.Config{
		IsEnabled: true,
		Variants:  []page.Variant{{ID: "v1", TrafficPercentage: 90}},
	}

	_, err := m.Configure(context.Background(), experimentPage(), cfg)
	if !errors.Is(err, experiment.ErrTrafficSum) {
		t.Fatalf("expected ErrTrafficSum, got %v", err)
	}
	if fs.saved != nil {
		t.Error("expected nothing saved on validation failure")
	}
}

func TestManager_DeclareWinnerPersists(t *testing.T) {
	fs := &fakeStore{}
	m := experiment.NewManager(fs)

	updated, err := m.DeclareWinner(context.Background(), experimentPage(), "v2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fs.saved != updated {
		t.Error("expected updated record saved to store")
	}
	if updated.Settings.Experiment.WinnerVariantID != "v2" {
		t.Error("expected winner recorded on saved record")
	}
}
