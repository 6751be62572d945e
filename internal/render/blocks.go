package render

import (
	"fmt"
	"strings"

	"github.com/lnkday/page-engine/internal/page"
)

func compileHeader(b page.Block, _ page.Theme) string {
	text := contentString(b.Content, "text")
	subtitle := contentString(b.Content, "subtitle")

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<h1 class="pe-header">%s</h1>`, esc(text)))
	if subtitle != "" {
		sb.WriteString(fmt.Sprintf(`<p class="pe-subtitle">%s</p>`, esc(subtitle)))
	}
	return wrap(b, sb.String())
}

func compileText(b page.Block, _ page.Theme) string {
	text := contentString(b.Content, "text")
	return wrap(b, fmt.Sprintf(`<p class="pe-text">%s</p>`, esc(text)))
}

func compileImage(b page.Block, _ page.Theme) string {
	url := contentString(b.Content, "url")
	if url == "" {
		return wrap(b, "")
	}
	alt := contentString(b.Content, "alt")
	img := fmt.Sprintf(`<img class="pe-image" src="%s" alt="%s" loading="lazy">`, esc(url), esc(alt))
	if link := contentString(b.Content, "link"); link != "" {
		img = fmt.Sprintf(`<a href="%s">%s</a>`, esc(link), img)
	}
	return wrap(b, img)
}

func compileDivider(b page.Block, _ page.Theme) string {
	return wrap(b, `<hr class="pe-divider">`)
}

// compileHTML passes the embedded markup through verbatim. This is trusted
// input; access control on who may set it lives with the caller.
func compileHTML(b page.Block, _ page.Theme) string {
	return wrap(b, contentString(b.Content, "html"))
}

func compileButton(b page.Block, _ page.Theme) string {
	url := contentString(b.Content, "url")
	label := contentString(b.Content, "label")
	if label == "" {
		label = url
	}
	return wrap(b, anchorButton(url, label, b.ID))
}

// compileLinks renders a stack of anchor buttons, one per configured link.
func compileLinks(b page.Block, _ page.Theme) string {
	items := contentList(b.Content, "links")
	var sb strings.Builder
	sb.WriteString(`<div class="pe-links">`)
	for _, item := range items {
		url, _ := item["url"].(string)
		label, _ := item["label"].(string)
		if label == "" {
			label = url
		}
		sb.WriteString(anchorButton(url, label, b.ID))
	}
	sb.WriteString(`</div>`)
	return wrap(b, sb.String())
}

func anchorButton(url, label, blockID string) string {
	return fmt.Sprintf(`<a class="pe-button" href="%s" data-pe-click="%s" rel="noopener">%s</a>`,
		esc(url), esc(blockID), esc(label))
}

// compileProduct renders a product card. The strikethrough original price
// only appears when one is provided; the buy link only when a URL is set.
func compileProduct(b page.Block, _ page.Theme) string {
	name := contentString(b.Content, "name")
	currency := contentString(b.Content, "currency")
	price := contentFloat(b.Content, "price", 0)

	var sb strings.Builder
	if badge := contentString(b.Content, "badge"); badge != "" {
		sb.WriteString(fmt.Sprintf(`<span class="pe-product-badge">%s</span>`, esc(badge)))
	}
	if img := contentString(b.Content, "imageUrl"); img != "" {
		sb.WriteString(fmt.Sprintf(`<img class="pe-product-image" src="%s" alt="%s" loading="lazy">`, esc(img), esc(name)))
	}
	sb.WriteString(fmt.Sprintf(`<h3 class="pe-product-name">%s</h3>`, esc(name)))
	if desc := contentString(b.Content, "description"); desc != "" {
		sb.WriteString(fmt.Sprintf(`<p class="pe-product-description">%s</p>`, esc(desc)))
	}

	sb.WriteString(`<div class="pe-product-pricing">`)
	sb.WriteString(fmt.Sprintf(`<span class="pe-product-price">%s</span>`, esc(formatPrice(price, currency))))
	if _, ok := b.Content["originalPrice"]; ok {
		original := contentFloat(b.Content, "originalPrice", 0)
		sb.WriteString(fmt.Sprintf(`<s class="pe-product-original-price">%s</s>`, esc(formatPrice(original, currency))))
	}
	sb.WriteString(`</div>`)

	if variants := contentList(b.Content, "variants"); len(variants) > 0 {
		sb.WriteString(`<select class="pe-product-variants">`)
		for _, v := range variants {
			name, _ := v["name"].(string)
			sb.WriteString(fmt.Sprintf(`<option>%s</option>`, esc(name)))
		}
		sb.WriteString(`</select>`)
	}
	if buyURL := contentString(b.Content, "buyUrl"); buyURL != "" {
		sb.WriteString(anchorButton(buyURL, buyLabel(b), b.ID))
	}
	return wrap(b, sb.String())
}

func buyLabel(b page.Block) string {
	if label := contentString(b.Content, "buyLabel"); label != "" {
		return label
	}
	return "Buy now"
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"BRL": "R$",
	"CAD": "CA$",
	"AUD": "A$",
	"INR": "₹",
	"TRY": "₺",
}

// formatPrice renders an amount per its currency code. Unknown codes fall
// back to "CODE amount"; JPY has no minor unit.
func formatPrice(amount float64, currency string) string {
	code := strings.ToUpper(currency)
	if code == "JPY" {
		return fmt.Sprintf("%s%.0f", currencySymbols[code], amount)
	}
	if sym, ok := currencySymbols[code]; ok {
		return fmt.Sprintf("%s%.2f", sym, amount)
	}
	if code == "" {
		return fmt.Sprintf("%.2f", amount)
	}
	return fmt.Sprintf("%s %.2f", code, amount)
}
