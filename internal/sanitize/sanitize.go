// internal/sanitize/sanitize.go
//
// HTML sanitization collaborator, backed by bluemonday.
//
// Rule content is policy configuration, not engineering; controllers only
// delegate.  UGC covers user-authored rich text, Strict strips everything
// down to plain text.
package sanitize

import "github.com/microcosm-cc/bluemonday"

// Policy wraps a bluemonday policy behind the single-call surface the
// controller consumes.
type Policy struct {
	p *bluemonday.Policy
}

// NewUGC returns a policy for user-generated rich text.
func NewUGC() *Policy {
	return &Policy{p: bluemonday.UGCPolicy()}
}

// NewStrict returns a policy that strips all markup.
func NewStrict() *Policy {
	return &Policy{p: bluemonday.StrictPolicy()}
}

// Sanitize applies the policy to s.
func (p *Policy) Sanitize(s string) string {
	return p.p.Sanitize(s)
}
