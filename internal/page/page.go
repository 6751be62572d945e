package page

import "time"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Page is one publishable document: an ordered set of content blocks plus a
// visual theme, optionally carrying an experiment configuration.
type Page struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	TeamID      string     `json:"teamId"`
	Status      Status     `json:"status"`
	Blocks      []Block    `json:"blocks"`
	Theme       Theme      `json:"theme"`
	Settings    Settings   `json:"settings"`
	Views       int64      `json:"views"`
	UniqueViews int64      `json:"uniqueViews"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Block is one renderable unit. Order defines render position via ascending
// stable sort; it is not required to be contiguous or unique.
type Block struct {
	ID      string            `json:"id"`
	Type    string            `json:"type"`
	Content map[string]any    `json:"content"`
	Style   map[string]string `json:"style,omitempty"`
	Order   int               `json:"order"`
}

// Theme is a flat map of style properties (colors, fonts, button shape).
type Theme map[string]string

type Settings struct {
	Experiment *Experiment `json:"experiment,omitempty"`
	CustomCSS  string      `json:"customCss,omitempty"`
	CustomJS   string      `json:"customJs,omitempty"`
}

type Experiment struct {
	IsEnabled       bool      `json:"isEnabled"`
	Variants        []Variant `json:"variants"`
	WinnerVariantID string    `json:"winnerVariantId,omitempty"`
}

// Variant is an alternate rendering of a page competing in an experiment.
// A theme override is shallow-merged over the page theme; a blocks override
// replaces the page blocks wholesale.
type Variant struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	TrafficPercentage float64 `json:"trafficPercentage"`
	IsControl         bool    `json:"isControl"`
	Theme             Theme   `json:"theme,omitempty"`
	Blocks            []Block `json:"blocks,omitempty"`
}

// Publish marks the page published. PublishedAt is set on the first
// transition and kept across later unpublish/publish cycles.
func (p *Page) Publish(now time.Time) {
	p.Status = StatusPublished
	if p.PublishedAt == nil {
		t := now
		p.PublishedAt = &t
	}
}

// Unpublish reverts the page to draft. Idempotent; PublishedAt is not
// cleared.
func (p *Page) Unpublish() {
	p.Status = StatusDraft
}

// Archive marks the page archived. There is no unarchive transition.
func (p *Page) Archive() {
	p.Status = StatusArchived
}

// Clone returns a deep copy of the page so state transitions can produce an
// updated record without mutating the input.
func (p *Page) Clone() *Page {
	out := *p
	out.Blocks = cloneBlocks(p.Blocks)
	out.Theme = p.Theme.Clone()
	if p.Settings.Experiment != nil {
		exp := *p.Settings.Experiment
		exp.Variants = make([]Variant, len(p.Settings.Experiment.Variants))
		for i, v := range p.Settings.Experiment.Variants {
			cv := v
			cv.Theme = v.Theme.Clone()
			cv.Blocks = cloneBlocks(v.Blocks)
			exp.Variants[i] = cv
		}
		out.Settings.Experiment = &exp
	}
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		out.PublishedAt = &t
	}
	return &out
}

// Clone copies the theme map. A nil theme clones to nil.
func (t Theme) Clone() Theme {
	if t == nil {
		return nil
	}
	out := make(Theme, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

func cloneBlocks(blocks []Block) []Block {
	if blocks == nil {
		return nil
	}
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		cb := b
		if b.Content != nil {
			cb.Content = make(map[string]any, len(b.Content))
			for k, v := range b.Content {
				cb.Content[k] = v
			}
		}
		if b.Style != nil {
			cb.Style = make(map[string]string, len(b.Style))
			for k, v := range b.Style {
				cb.Style[k] = v
			}
		}
		out[i] = cb
	}
	return out
}

// Variant returns the variant with the given id, or nil.
func (e *Experiment) Variant(id string) *Variant {
	if e == nil {
		return nil
	}
	for i := range e.Variants {
		if e.Variants[i].ID == id {
			return &e.Variants[i]
		}
	}
	return nil
}
