// internal/controller/helpers.go
//
// Convenience surface for handlers built on Base: body reads, redirects,
// JSON envelopes, sanitization delegation, and flash consumption.
package controller

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/keelframework/keel/internal/body"
	"github.com/keelframework/keel/internal/metrics"
	"github.com/keelframework/keel/internal/placeholder"
)

// ReadForm consumes the request body and returns decoded form parameters.
// The body stream is single-read; a second read reports ErrBodyConsumed.
func (b *Base) ReadForm() (map[string]string, error) {
	if b.bodyRead {
		return nil, ErrBodyConsumed
	}
	b.bodyRead = true

	params, err := body.FormParams(b.req.Body, b.req.Header.Get("Content-Type"))
	if err != nil {
		b.countBodyError(err)
		return nil, err
	}
	return params, nil
}

// ReadJSON consumes the request body and unmarshals it into v.  Size-limit
// and parse failures stay distinct: body.ErrPayloadTooLarge vs.
// *body.MalformedError.
func (b *Base) ReadJSON(v any) error {
	if b.bodyRead {
		return ErrBodyConsumed
	}
	b.bodyRead = true

	if err := body.DecodeJSON(b.req.Body, b.req.Header.Get("Content-Type"), v); err != nil {
		b.countBodyError(err)
		return err
	}
	return nil
}

func (b *Base) countBodyError(err error) {
	var me *body.MalformedError
	switch {
	case errors.Is(err, body.ErrPayloadTooLarge):
		metrics.BodyRejectedTotal.Inc()
		b.deps.Log.Warnw("request body rejected", "limit", body.MaxBodyBytes)
	case errors.As(err, &me):
		metrics.BodyMalformedTotal.Inc()
		b.deps.Log.Debugw("malformed request body", "err", me.Unwrap())
	}
}

// SetPageName sets the page title placeholder value.  Overwritable until
// render time; the last call wins.
func (b *Base) SetPageName(name string) { b.hd.SetTitle(name) }

// PageName returns the current page title (default empty).
func (b *Base) PageName() string { return b.hd.TitleText() }

// SetClientLocalization toggles the localization-script placeholder.  The
// default is on.
func (b *Base) SetClientLocalization(on bool) { b.clientLocalization = on }

// RegisterPlaceholder binds a resolver under name.  When raw is true the
// resolved value is emitted without escaping.  Re-registering a name
// shadows the earlier resolver.
func (b *Base) RegisterPlaceholder(name string, fn placeholder.Resolver, raw bool) {
	if raw {
		inner := fn
		fn = func(ctx context.Context, flag any) (placeholder.Value, error) {
			v, err := inner(ctx, flag)
			if err != nil {
				return placeholder.Value{}, err
			}
			return placeholder.RawMarkup(v.String()), nil
		}
	}
	b.reg.Register(name, fn)
}

// ConsumeFlash resolves the flash placeholder directly, for handlers that
// emit the alert outside a template.  Like any flash read it is
// destructive.
func (b *Base) ConsumeFlash(ctx context.Context) (template.HTML, error) {
	v, err := b.reg.Resolve(ctx, PlaceholderErrorSuccess, nil)
	if err != nil {
		return "", err
	}
	return v.HTML(), nil
}

// Render executes the named page template to the response writer.
func (b *Base) Render(ctx context.Context, name string, data any) error {
	return b.renderer.Render(ctx, b.w, name, data)
}

// Redirect sends an HTTP redirect; permanent selects 308 over 303.
func (b *Base) Redirect(url string, permanent bool) {
	code := http.StatusSeeOther
	if permanent {
		code = http.StatusPermanentRedirect
	}
	http.Redirect(b.w, b.req, url, code)
}

// Envelope is the JSON response wrapper handlers return for API calls.
type Envelope struct {
	Success bool   `json:"success"`
	Value   any    `json:"value,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON writes an Envelope with the given status code.
func (b *Base) JSON(status int, e Envelope) error {
	b.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	b.w.WriteHeader(status)
	return json.NewEncoder(b.w).Encode(e)
}

// Sanitize delegates to the configured HTML sanitization policy.
func (b *Base) Sanitize(s string) string {
	return b.deps.Sanitizer.Sanitize(s)
}
