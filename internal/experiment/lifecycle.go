package experiment

import (
	"context"
	"fmt"

	"github.com/lnkday/page-engine/internal/page"
	"github.com/lnkday/page-engine/internal/render"
	"github.com/lnkday/page-engine/internal/store"
)

// Config is an experiment configuration change: the enabled flag plus the
// full variant set it applies to.
type Config struct {
	IsEnabled bool           `json:"isEnabled"`
	Variants  []page.Variant `json:"variants"`
}

// ApplyConfig validates the configuration and returns an updated page record
// carrying it. The input page is not mutated.
func ApplyConfig(p *page.Page, cfg Config) (*page.Page, error) {
	next := &page.Experiment{
		IsEnabled: cfg.IsEnabled,
		Variants:  cfg.Variants,
	}
	if err := ValidateTraffic(next); err != nil {
		return nil, err
	}

	out := p.Clone()
	out.Settings.Experiment = next
	return out, nil
}

// MergeWinner folds the winning variant into the canonical page definition
// and concludes the experiment: the winner's theme override is shallow-merged
// over the base theme, a blocks override replaces the page blocks wholesale,
// the experiment is disabled and the winner id recorded. The transition is
// one-way; a second call fails with ErrNoActiveExperiment. The input page is
// not mutated.
func MergeWinner(p *page.Page, variantID string) (*page.Page, error) {
	exp := p.Settings.Experiment
	if exp == nil || !exp.IsEnabled {
		return nil, ErrNoActiveExperiment
	}
	winner := exp.Variant(variantID)
	if winner == nil {
		return nil, ErrVariantNotFound
	}

	out := p.Clone()
	merged := out.Settings.Experiment.Variant(variantID)
	if merged.Theme != nil {
		out.Theme = render.ResolveTheme(p.Theme, merged.Theme)
	}
	if merged.Blocks != nil {
		out.Blocks = merged.Blocks
	}
	out.Settings.Experiment.IsEnabled = false
	out.Settings.Experiment.WinnerVariantID = variantID
	return out, nil
}

// Manager couples the experiment state transitions to the page store.
type Manager struct {
	store store.Store
}

func NewManager(s store.Store) *Manager {
	return &Manager{store: s}
}

// Configure validates and persists an experiment configuration change,
// returning the updated record.
func (m *Manager) Configure(ctx context.Context, p *page.Page, cfg Config) (*page.Page, error) {
	updated, err := ApplyConfig(p, cfg)
	if err != nil {
		return nil, err
	}
	if err := m.store.Save(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to save experiment config: %w", err)
	}
	return updated, nil
}

// DeclareWinner performs the winner merge and persists the result.
func (m *Manager) DeclareWinner(ctx context.Context, p *page.Page, variantID string) (*page.Page, error) {
	updated, err := MergeWinner(p, variantID)
	if err != nil {
		return nil, err
	}
	if err := m.store.Save(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to save winner merge: %w", err)
	}
	return updated, nil
}
