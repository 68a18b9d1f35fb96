// internal/view/render.go
//
// View engine: template lookup, override chain, placeholder injection, and
// an LRU of parsed template sets.
//
// Lookup precedence (first hit wins):
//  1. sites/<host>/templates/<tpl>.html
//  2. themes/<theme>/templates/<tpl>.html
//  3. templates/<tpl>.html
//
// All *.html files in the matched directory are parsed as one set so
// sub-templates ({{ template "row" . }}) work out of the box.
//
// Placeholders
// ------------
// Templates pull deferred values with {{ placeholder "name" }}.  Parsed sets
// are cached with stub funcs and cloned per render so the placeholder func
// can close over the request context; a resolver failure aborts template
// execution and reaches the caller with the placeholder name attached.
package view

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/keelframework/keel/internal/cache"
	"github.com/keelframework/keel/internal/metrics"
	"github.com/keelframework/keel/internal/placeholder"
)

// Engine holds the template root and the parsed-set cache.  One Engine is
// shared by all requests; Bindings are per-request.
type Engine struct {
	baseDir string
	lru     *cache.LRU[string, *template.Template]
}

// NewEngine returns an Engine rooted at baseDir.
func NewEngine(baseDir string) *Engine {
	return &Engine{
		baseDir: baseDir,
		lru:     cache.New[string, *template.Template](1024),
	}
}

// Bind ties the engine to one request's host, theme, and placeholder
// registry.  The Binding is the rendering collaborator handed to the
// controller.
func (e *Engine) Bind(host, theme string, reg *placeholder.Registry) *Binding {
	return &Binding{engine: e, host: host, theme: theme, reg: reg}
}

// Binding renders templates for a single request.
type Binding struct {
	engine *Engine
	host   string
	theme  string
	reg    *placeholder.Registry
}

// Render executes the named template set and streams it to w.  Placeholder
// resolvers run lazily, in template-appearance order, as execution reaches
// each {{ placeholder }} call.
func (b *Binding) Render(ctx context.Context, w io.Writer, name string, data any) error {
	t, err := b.prepare(ctx, name)
	if err != nil {
		return err
	}
	if err := t.ExecuteTemplate(w, execName(t, name), data); err != nil {
		return err
	}
	metrics.PageRenderTotal.Inc()
	return nil
}

// Fragment executes a named template set into a buffer and returns the
// markup.  Used for nested fragments (flash alerts, editor scaffolding).
func (b *Binding) Fragment(ctx context.Context, name string) (template.HTML, error) {
	t, err := b.prepare(ctx, name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, execName(t, name), nil); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// prepare loads the parsed set and rebinds the func map with per-request
// closures.  Clone keeps the cached set free of request state.
func (b *Binding) prepare(ctx context.Context, name string) (*template.Template, error) {
	t, err := b.engine.load(b.host, b.theme, name)
	if err != nil {
		return nil, err
	}
	t, err = t.Clone()
	if err != nil {
		return nil, fmt.Errorf("view: clone %q: %w", name, err)
	}
	return t.Funcs(b.funcMap(ctx)), nil
}

func (b *Binding) funcMap(ctx context.Context) template.FuncMap {
	return template.FuncMap{
		"dict": dict,
		"placeholder": func(name string, flag ...any) (template.HTML, error) {
			var f any
			if len(flag) > 0 {
				f = flag[0]
			}
			v, err := b.reg.Resolve(ctx, name, f)
			if err != nil {
				metrics.PlaceholderFailTotal.Inc()
				return "", err
			}
			return v.HTML(), nil
		},
	}
}

//
// internal: load
//

// load finds and (if necessary) parses the template set for host, theme,
// and base name.
func (e *Engine) load(host, theme, name string) (*template.Template, error) {
	key := strings.Join([]string{host, theme, name}, "::")
	if t, ok := e.lru.Get(key); ok {
		return t, nil
	}

	paths := []string{
		filepath.Join(e.baseDir, "sites", host, "templates", name+".html"),
		filepath.Join(e.baseDir, "themes", theme, "templates", name+".html"),
		filepath.Join(e.baseDir, "templates", name+".html"),
	}

	var base string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			base = p
			break
		}
	}
	if base == "" {
		return nil, fmt.Errorf("view: template %q: %w", name, os.ErrNotExist)
	}

	// Parse the whole directory as one set; stub funcs are rebound per
	// render.
	pattern := filepath.Join(filepath.Dir(base), "*.html")
	t, err := template.New(name).Funcs(stubFuncMap()).ParseGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("view: parse %q: %w", name, err)
	}

	e.lru.Add(key, t)
	return t, nil
}

// stubFuncMap satisfies the parser; real closures are attached per render.
func stubFuncMap() template.FuncMap {
	return template.FuncMap{
		"dict": dict,
		"placeholder": func(string, ...any) (template.HTML, error) {
			return "", nil
		},
	}
}

//
// helpers
//

// execName picks the concrete template to execute: "<name>.html" when the
// file has no {{ define }}, otherwise the root template "<name>".
func execName(t *template.Template, name string) string {
	if t.Lookup(name+".html") != nil {
		return name + ".html"
	}
	return name
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}
