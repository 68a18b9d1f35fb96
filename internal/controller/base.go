// internal/controller/base.go
//
// Per-request controller base: context construction, site resolution, and
// the standard placeholder set.
//
// Init protocol
// -------------
// UNINITIALIZED → BUILDING_CONTEXT → RESOLVING_SITE → READY, with the
// alternate terminal SITE_LOOKUP_FAILED.  Building the context copies the
// supplied per-request properties, constructs the rendering binding, and
// registers every placeholder that does not depend on the resolved site.
// The single site lookup then gates readiness: on failure the request's
// not-found handler runs, ErrSiteUnresolved comes back, and no site
// placeholder is ever registered; on success the site placeholders become
// resolvable before Init returns, so nothing can observe them half-built.
// No retries — one failed lookup is fatal to the request's initialization.
//
// All collaborators arrive through Deps; there is no ambient framework
// handle.
package controller

import (
	"context"
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/keelframework/keel/internal/analytics"
	"github.com/keelframework/keel/internal/head"
	"github.com/keelframework/keel/internal/locale"
	"github.com/keelframework/keel/internal/metrics"
	"github.com/keelframework/keel/internal/placeholder"
	"github.com/keelframework/keel/internal/sanitize"
	"github.com/keelframework/keel/internal/session"
	"github.com/keelframework/keel/internal/site"
)

var (
	// ErrSiteUnresolved reports that the site lookup failed during Init.
	// The not-found handler has already run; callers must not proceed with
	// the request.
	ErrSiteUnresolved = errors.New("controller: site unresolved")

	// ErrAlreadyInitialized reports a second Init on the same Base.
	ErrAlreadyInitialized = errors.New("controller: already initialized")

	// ErrBodyConsumed reports a second body read on a single-read stream.
	ErrBodyConsumed = errors.New("controller: request body already consumed")
)

type initState int

const (
	stateUninitialized initState = iota
	stateBuildingContext
	stateResolvingSite
	stateReady
	stateSiteLookupFailed
)

// Renderer is the template-rendering collaborator the controller supplies
// values to.  Rendering itself is owned elsewhere.
type Renderer interface {
	Render(ctx context.Context, w io.Writer, name string, data any) error
	Fragment(ctx context.Context, name string) (template.HTML, error)
}

// BindFunc constructs the per-request Renderer from the request host, the
// active theme, and the placeholder registry.
type BindFunc func(host, theme string, reg *placeholder.Registry) Renderer

// Deps are the process-wide collaborators, injected once.
type Deps struct {
	Sites           site.Lookup
	Bind            BindFunc
	Analytics       analytics.Injector // nil → analytics.Noop
	Sanitizer       *sanitize.Policy   // nil → UGC policy
	DefaultSiteRoot string
	NewID           func() string      // nil → uuid.NewString
	Log             *zap.SugaredLogger // nil → zap.S()
}

// Props carry the per-request properties supplied by the dispatch layer.
type Props struct {
	Request  *http.Request
	Writer   http.ResponseWriter
	Session  *session.Store
	Locale   locale.Service
	Params   map[string]string // path variables
	Query    url.Values
	Theme    string
	SiteUID  string
	NotFound func() // runs when site resolution fails
}

// Base is the controller aggregate owned by one in-flight request.  It is
// never shared across requests and is discarded when the request completes.
type Base struct {
	deps  Deps
	state initState

	req     *http.Request
	w       http.ResponseWriter
	sess    *session.Store
	loc     locale.Service
	params  map[string]string
	query   url.Values
	theme   string
	siteCtx *site.Context

	reg      *placeholder.Registry
	hd       *head.Builder
	renderer Renderer

	clientLocalization bool
	bodyRead           bool
}

// New returns an uninitialized Base bound to deps, filling collaborator
// defaults.
func New(deps Deps) *Base {
	if deps.Analytics == nil {
		deps.Analytics = analytics.Noop{}
	}
	if deps.Sanitizer == nil {
		deps.Sanitizer = sanitize.NewUGC()
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	if deps.Log == nil {
		deps.Log = zap.S()
	}
	return &Base{deps: deps}
}

// Init runs the initialization protocol.  It returns nil exactly when the
// Base reached READY; ErrSiteUnresolved means the not-found handler already
// handled the response.
func (b *Base) Init(ctx context.Context, p Props) error {
	if b.state != stateUninitialized {
		return ErrAlreadyInitialized
	}

	// BUILDING_CONTEXT: copy per-request properties, build collaborators.
	b.state = stateBuildingContext
	b.req = p.Request
	b.w = p.Writer
	b.sess = p.Session
	if b.sess == nil {
		b.sess = session.New()
	}
	b.loc = p.Locale
	b.params = p.Params
	b.query = p.Query
	b.theme = p.Theme
	b.hd = head.New()
	b.reg = placeholder.NewRegistry()
	b.clientLocalization = true
	b.renderer = b.deps.Bind(p.Request.Host, p.Theme, b.reg)
	b.registerStandard()

	// RESOLVING_SITE: single lookup, no retries.
	b.state = stateResolvingSite
	rec, err := b.deps.Sites.ByUID(ctx, p.SiteUID)
	if err != nil {
		b.state = stateSiteLookupFailed
		metrics.SiteLookupFailTotal.Inc()
		b.deps.Log.Warnw("site lookup failed", "site", p.SiteUID, "err", err)
		if p.NotFound != nil {
			p.NotFound()
		}
		return ErrSiteUnresolved
	}

	// READY: site context is fully populated before the site placeholders
	// become visible, and both before Init returns.
	b.siteCtx = site.NewContext(rec)
	b.registerSiteBound()
	b.state = stateReady
	return nil
}

//
// accessors
//

// Ready reports whether Init completed successfully.
func (b *Base) Ready() bool { return b.state == stateReady }

// Request returns the raw request handle.
func (b *Base) Request() *http.Request { return b.req }

// Session returns the request-scoped session store.
func (b *Base) Session() *session.Store { return b.sess }

// Site returns the resolved site context, or nil before READY.
func (b *Base) Site() *site.Context { return b.siteCtx }

// Head returns the per-request head builder.
func (b *Base) Head() *head.Builder { return b.hd }

// Param returns the named path variable, or "".
func (b *Base) Param(name string) string { return b.params[name] }

// QueryValue returns the first query value for name, or "".
func (b *Base) QueryValue(name string) string { return b.query.Get(name) }

// Placeholders returns the request's registry; the render pass resolves
// from it in template-appearance order.
func (b *Base) Placeholders() *placeholder.Registry { return b.reg }
