// internal/site/context.go
//
// Resolved site identity for one in-flight request.  Immutable once built;
// destroyed with the request, never cached across requests.
package site

// Context is the per-request view of a resolved site.
type Context struct {
	UID    string
	Name   string
	Host   string
	Global bool
}

// NewContext freezes the fields of a looked-up record.
func NewContext(rec *Record) *Context {
	return &Context{
		UID:    rec.UID,
		Name:   rec.Name,
		Host:   rec.Host,
		Global: rec.Global,
	}
}

// DisplayName returns the configured display name, or the uid itself for
// the designated global site.
func (c *Context) DisplayName() string {
	if c.Global {
		return c.UID
	}
	return c.Name
}

// RootURL returns the protocol-qualified hostname, or fallback when the
// site has no hostname configured.
func (c *Context) RootURL(fallback string) string {
	if c.Host == "" {
		return fallback
	}
	return "https://" + c.Host
}
