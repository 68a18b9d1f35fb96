// internal/controller/placeholders.go
//
// The standard placeholder set.
//
// Context
// -------
// registerStandard runs during BUILDING_CONTEXT and covers everything that
// does not need the resolved site; registerSiteBound runs once the lookup
// succeeds.  Resolvers must not assume sibling placeholders have run.  The
// flash resolver consumes session state: one render pass must invoke it at
// most once per request or the second call silently observes no flash.
package controller

import (
	"context"
	"fmt"
	"html/template"
	"net/url"

	"github.com/keelframework/keel/internal/placeholder"
)

// Placeholder names consumed by theme layouts.
const (
	PlaceholderLocale             = "locale"
	PlaceholderPageName           = "page_name"
	PlaceholderErrorSuccess       = "error_success"
	PlaceholderLocalizationScript = "localization_script"
	PlaceholderAnalytics          = "analytics"
	PlaceholderWysiwyg            = "wysiwyg"
	PlaceholderWysiwygID          = "wysiwyg_id"
	PlaceholderSiteRoot           = "site_root"
	PlaceholderSiteName           = "site_name"
)

// editorFragment is the nested template loaded by the wysiwyg resolver.
const editorFragment = "wysiwyg"

func (b *Base) registerStandard() {
	b.reg.Register(PlaceholderLocale, func(context.Context, any) (placeholder.Value, error) {
		return placeholder.Text(b.loc.Language()), nil
	})

	b.reg.Register(PlaceholderPageName, func(context.Context, any) (placeholder.Value, error) {
		return placeholder.Text(b.hd.TitleText()), nil
	})

	b.reg.Register(PlaceholderErrorSuccess, b.resolveFlash)
	b.reg.Register(PlaceholderLocalizationScript, b.resolveLocalizationScript)
	b.reg.Register(PlaceholderAnalytics, b.resolveAnalytics)
	b.reg.Register(PlaceholderWysiwyg, b.resolveEditor)
}

func (b *Base) registerSiteBound() {
	b.reg.Register(PlaceholderSiteRoot, func(context.Context, any) (placeholder.Value, error) {
		return placeholder.Text(b.siteCtx.RootURL(b.deps.DefaultSiteRoot)), nil
	})

	b.reg.Register(PlaceholderSiteName, func(context.Context, any) (placeholder.Value, error) {
		return placeholder.Text(b.siteCtx.DisplayName()), nil
	})
}

// resolveFlash renders the pending flash message as a styled alert and
// deletes it from the session.  The read is destructive and exactly-once
// per request.
func (b *Base) resolveFlash(context.Context, any) (placeholder.Value, error) {
	if msg, ok := b.sess.TakeError(); ok {
		return placeholder.RawMarkup(b.alertFragment("error", msg)), nil
	}
	if msg, ok := b.sess.TakeSuccess(); ok {
		return placeholder.RawMarkup(b.alertFragment("success", msg)), nil
	}
	return placeholder.Text(""), nil
}

// alertFragment builds a localized, escaped alert block.
func (b *Base) alertFragment(kind, msg string) string {
	return fmt.Sprintf(`<div class="alert alert-%s" role="alert">%s</div>`,
		kind, template.HTMLEscapeString(b.loc.Get(msg)))
}

// resolveLocalizationScript yields the client-side localization include, or
// nothing when the controller opted out.
func (b *Base) resolveLocalizationScript(context.Context, any) (placeholder.Value, error) {
	if !b.clientLocalization {
		return placeholder.Text(""), nil
	}
	src := "/locale/" + url.PathEscape(b.loc.Language()) + ".js"
	return placeholder.RawMarkup(`<script src="` + src + `"></script>`), nil
}

// resolveAnalytics delegates to the injection collaborator, forwarding
// request, session, and locale.
func (b *Base) resolveAnalytics(ctx context.Context, _ any) (placeholder.Value, error) {
	snippet, err := b.deps.Analytics.Inject(ctx, b.req, b.sess, b.loc.Language())
	if err != nil {
		return placeholder.Value{}, err
	}
	return placeholder.RawMarkup(snippet), nil
}

// resolveEditor generates a fresh editor id, publishes it under the nested
// placeholder name the fragment consumes, then loads the fragment as raw
// markup.
func (b *Base) resolveEditor(ctx context.Context, _ any) (placeholder.Value, error) {
	id := b.deps.NewID()
	b.reg.Register(PlaceholderWysiwygID, func(context.Context, any) (placeholder.Value, error) {
		return placeholder.Text(id), nil
	})

	frag, err := b.renderer.Fragment(ctx, editorFragment)
	if err != nil {
		return placeholder.Value{}, err
	}
	return placeholder.RawMarkup(string(frag)), nil
}
