// internal/analytics/injector.go
//
// Analytics injection collaborator.
//
// Context
// -------
// The analytics placeholder delegates here with the request, session, and
// locale.  The script injector emits the site's measurement snippet, tagged
// with the visitor's language; crawler traffic is skipped outright so bot
// hits never inflate measurements.
package analytics

import (
	"context"
	"fmt"
	"html/template"
	"net/http"

	"github.com/avct/uasurfer"

	"github.com/keelframework/keel/internal/session"
)

// Injector produces the analytics markup for one request, or "" to opt out.
type Injector interface {
	Inject(ctx context.Context, r *http.Request, sess *session.Store, lang string) (string, error)
}

// ScriptInjector emits a measurement script tag for a fixed property tag.
type ScriptInjector struct {
	PropertyTag string // e.g. "K-12345"
}

// Inject implements Injector.  Known crawlers get nothing.
func (i *ScriptInjector) Inject(_ context.Context, r *http.Request, _ *session.Store, lang string) (string, error) {
	if i.PropertyTag == "" {
		return "", nil
	}

	u := uasurfer.Parse(r.UserAgent())
	if u.DeviceType == uasurfer.DeviceBot || u.Browser.Name == uasurfer.BrowserBot {
		return "", nil
	}

	snippet := fmt.Sprintf(
		`<script async src="/assets/measure.js" data-property=%q data-lang=%q></script>`,
		template.HTMLEscapeString(i.PropertyTag),
		template.HTMLEscapeString(lang),
	)
	return snippet, nil
}

// Noop is an Injector that always opts out; useful in tests and for sites
// with analytics disabled.
type Noop struct{}

func (Noop) Inject(context.Context, *http.Request, *session.Store, string) (string, error) {
	return "", nil
}
