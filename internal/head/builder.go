// internal/head/builder.go
//
// Per-request collector for everything that lands in a page's <head>.
//
// Context
// -------
// Controllers and placeholder resolvers push the page title and script tags
// into the Builder during request handling; the theme layout decides where
// each slice is emitted.  The title is single-valued and the last caller
// wins, which is exactly the contract the page-title placeholder needs:
// settable by the handler, overwritable until render time.
package head

import (
	"html/template"
	"strings"
	"sync"
)

// Builder is scoped to one request.  One goroutine per request is the norm,
// so a plain mutex covers the occasional background writer.
type Builder struct {
	mu sync.Mutex

	title   string
	metas   []string
	scripts []string

	seen map[string]struct{} // dedup keys
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// SetTitle overrides the page title.  The last caller wins.
func (b *Builder) SetTitle(t string) {
	b.mu.Lock()
	b.title = t
	b.mu.Unlock()
}

// TitleText returns the raw title string (possibly empty).
func (b *Builder) TitleText() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.title
}

// Title returns a fully formed, escaped <title> tag or an empty string.
func (b *Builder) Title() template.HTML {
	t := b.TitleText()
	if t == "" {
		return ""
	}
	return template.HTML("<title>" + template.HTMLEscapeString(t) + "</title>")
}

// Meta appends a pre-escaped meta tag, deduplicated by content.
func (b *Builder) Meta(tag string) { b.add("meta:"+tag, &b.metas, tag) }

// Script appends a pre-escaped script tag, deduplicated by content.
func (b *Builder) Script(tag string) { b.add("script:"+tag, &b.scripts, tag) }

func (b *Builder) add(key string, tgt *[]string, tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

// Metas concatenates collected meta tags for the layout.
func (b *Builder) Metas() template.HTML { return concat(b.metas) }

// Scripts concatenates collected script tags for the layout.
func (b *Builder) Scripts() template.HTML { return concat(b.scripts) }

func concat(sl []string) template.HTML {
	return template.HTML(strings.Join(sl, ""))
}
