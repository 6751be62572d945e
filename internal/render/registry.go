package render

import (
	"github.com/lnkday/page-engine/internal/page"
)

// CompileFunc turns one block into a markup fragment against the effective
// theme. Compilers are pure: same block and theme, same fragment.
type CompileFunc func(b page.Block, theme page.Theme) string

var compilers = map[string]CompileFunc{}

// Register binds a block type to its compiler. Later registrations replace
// earlier ones, which lets callers override a builtin.
func Register(blockType string, fn CompileFunc) {
	compilers[blockType] = fn
}

// Compile dispatches on the block type. An unrecognized type compiles to the
// empty string so a single bad block never takes down the whole document.
func Compile(b page.Block, theme page.Theme) string {
	fn, ok := compilers[b.Type]
	if !ok {
		return ""
	}
	return fn(b, theme)
}

func init() {
	Register("header", compileHeader)
	Register("text", compileText)
	Register("image", compileImage)
	Register("divider", compileDivider)
	Register("html", compileHTML)
	Register("button", compileButton)
	Register("links", compileLinks)
	Register("carousel", compileCarousel)
	Register("countdown", compileCountdown)
	Register("music", compileMusic)
	Register("podcast", compilePodcast)
	Register("map", compileMap)
	Register("subscribe", compileSubscribe)
	Register("nft", compileNFT)
	Register("product", compileProduct)
}
