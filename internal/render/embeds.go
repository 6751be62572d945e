package render

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/lnkday/page-engine/internal/page"
)

// Provider-embeddable blocks resolve a concrete embed URL from either an
// explicit URL or a provider-specific id. When neither resolves, they render
// a labelled placeholder instead of failing the document.

var musicEmbeds = map[string]string{
	"spotify":    "https://open.spotify.com/embed/track/%s",
	"apple":      "https://embed.music.apple.com/song/%s",
	"soundcloud": "https://w.soundcloud.com/player/?url=%s",
	"youtube":    "https://www.youtube.com/embed/%s",
}

var podcastEmbeds = map[string]string{
	"spotify": "https://open.spotify.com/embed/episode/%s",
	"apple":   "https://embed.podcasts.apple.com/podcast/%s",
}

func compileMusic(b page.Block, _ page.Theme) string {
	return wrap(b, providerFrame(b, musicEmbeds, "Music embed unavailable"))
}

func compilePodcast(b page.Block, _ page.Theme) string {
	return wrap(b, providerFrame(b, podcastEmbeds, "Podcast embed unavailable"))
}

func providerFrame(b page.Block, templates map[string]string, placeholder string) string {
	src := contentString(b.Content, "embedUrl")
	if src == "" {
		provider := strings.ToLower(contentString(b.Content, "provider"))
		id := contentString(b.Content, "trackId")
		if id == "" {
			id = contentString(b.Content, "episodeId")
		}
		tmpl, ok := templates[provider]
		if ok && id != "" {
			src = fmt.Sprintf(tmpl, url.PathEscape(id))
		}
	}
	if src == "" {
		return fmt.Sprintf(`<div class="pe-placeholder">%s</div>`, esc(placeholder))
	}
	return fmt.Sprintf(`<iframe class="pe-embed" src="%s" loading="lazy" allow="encrypted-media" frameborder="0"></iframe>`, esc(src))
}

func compileMap(b page.Block, _ page.Theme) string {
	provider := strings.ToLower(contentString(b.Content, "provider"))
	zoom := int(contentFloat(b.Content, "zoom", 14))

	lat := contentScalar(b.Content, "latitude")
	lng := contentScalar(b.Content, "longitude")
	address := contentString(b.Content, "address")

	var src string
	switch provider {
	case "openstreetmap", "osm":
		if lat != "" && lng != "" {
			src = fmt.Sprintf("https://www.openstreetmap.org/export/embed.html?layer=mapnik&marker=%s%%2C%s&zoom=%d",
				url.QueryEscape(lat), url.QueryEscape(lng), zoom)
		}
	default: // google
		q := address
		if lat != "" && lng != "" {
			q = lat + "," + lng
		}
		if q != "" {
			src = fmt.Sprintf("https://maps.google.com/maps?q=%s&z=%d&output=embed", url.QueryEscape(q), zoom)
		}
	}
	if src == "" {
		return wrap(b, `<div class="pe-placeholder">Map location not configured</div>`)
	}
	return wrap(b, fmt.Sprintf(`<iframe class="pe-embed pe-map" src="%s" loading="lazy" frameborder="0"></iframe>`, esc(src)))
}

// compileNFT shows a collection view when a collection slug is present, a
// single-item view when a contract+token pair is, and a placeholder when
// neither resolves.
func compileNFT(b page.Block, _ page.Theme) string {
	platform := strings.ToLower(contentString(b.Content, "platform"))
	if platform == "" {
		platform = "opensea"
	}

	collection := contentString(b.Content, "collection")
	contract := contentString(b.Content, "contract")
	token := contentString(b.Content, "tokenId")

	switch {
	case collection != "":
		href := fmt.Sprintf("https://opensea.io/collection/%s", url.PathEscape(collection))
		if platform == "rarible" {
			href = fmt.Sprintf("https://rarible.com/collection/%s", url.PathEscape(collection))
		}
		return wrap(b, fmt.Sprintf(`<a class="pe-nft pe-nft--collection pe-button" href="%s" data-pe-click="%s" rel="noopener">View %s collection</a>`,
			esc(href), esc(b.ID), esc(collection)))
	case contract != "" && token != "":
		href := fmt.Sprintf("https://opensea.io/assets/ethereum/%s/%s", url.PathEscape(contract), url.PathEscape(token))
		if platform == "rarible" {
			href = fmt.Sprintf("https://rarible.com/token/%s:%s", url.PathEscape(contract), url.PathEscape(token))
		}
		return wrap(b, fmt.Sprintf(`<a class="pe-nft pe-nft--item pe-button" href="%s" data-pe-click="%s" rel="noopener">View item #%s</a>`,
			esc(href), esc(b.ID), esc(token)))
	default:
		return wrap(b, `<div class="pe-placeholder">NFT reference not configured</div>`)
	}
}
