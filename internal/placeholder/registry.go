// internal/placeholder/registry.go
//
// Named placeholder registry with deferred resolution.
//
// Context
// -------
// Page templates reference named placeholders whose values are produced
// lazily at render time.  Each name maps to one Resolver; registering a name
// twice silently shadows the earlier resolver (last registration wins).
// Resolvers may be pure or may consult external state; completion is the
// function return, so no dependent computation can observe a value before
// its producer finishes.
//
// Notes
// -----
//   - The registry is owned by one request and driven by one logical writer;
//     no locking.
//   - Resolvers must not assume sibling placeholders have or have not run.
package placeholder

import (
	"context"
	"errors"
	"fmt"
	"html/template"
)

// Value is the tagged result of a resolver: plain text that the render pass
// escapes, or raw markup emitted verbatim (script tags, pre-sanitized
// fragments).
type Value struct {
	text string
	raw  bool
}

// Text returns a Value that is HTML-escaped at render time.
func Text(s string) Value { return Value{text: s} }

// RawMarkup returns a Value emitted without escaping.  Callers are
// responsible for the markup being safe already.
func RawMarkup(s string) Value { return Value{text: s, raw: true} }

// String returns the unescaped payload.
func (v Value) String() string { return v.text }

// IsRaw reports whether the render pass must skip escaping.
func (v Value) IsRaw() bool { return v.raw }

// HTML renders the value for template emission, escaping unless raw.
func (v Value) HTML() template.HTML {
	if v.raw {
		return template.HTML(v.text)
	}
	return template.HTML(template.HTMLEscapeString(v.text))
}

// Resolver produces a placeholder value.  The flag argument is opaque and
// passed through from Resolve; most resolvers ignore it, it is reserved for
// resolvers that vary behavior by call site.
type Resolver func(ctx context.Context, flag any) (Value, error)

// ErrUnknown reports a lookup for a name that was never registered.
var ErrUnknown = errors.New("placeholder: not registered")

// ResolveError carries the failing placeholder name for render-pass
// diagnostics.  Recovery policy (abort vs. partial page) belongs to the
// render pass, not here.
type ResolveError struct {
	Name string
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("placeholder %q: %v", e.Name, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// Registry maps placeholder names to resolvers.  Insertion order is
// irrelevant; lookup is by name at render time.
type Registry struct {
	resolvers map[string]Resolver
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]Resolver, 16)}
}

// Register binds name to fn.  A later registration for the same name
// silently shadows the earlier one.
func (r *Registry) Register(name string, fn Resolver) {
	r.resolvers[name] = fn
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.resolvers[name]
	return ok
}

// Resolve invokes the resolver bound to name.  Unknown names and resolver
// failures both surface as *ResolveError so the render pass can attribute
// the failure.
func (r *Registry) Resolve(ctx context.Context, name string, flag any) (Value, error) {
	fn, ok := r.resolvers[name]
	if !ok {
		return Value{}, &ResolveError{Name: name, Err: ErrUnknown}
	}
	v, err := fn(ctx, flag)
	if err != nil {
		return Value{}, &ResolveError{Name: name, Err: err}
	}
	return v, nil
}
