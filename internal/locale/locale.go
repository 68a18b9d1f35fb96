// internal/locale/locale.go
//
// Localization service consumed by controllers and placeholder resolvers.
//
// Context
// -------
// The catalog backend (database, PO files, …) is owned elsewhere; this
// package defines the interface the controller core consumes plus a small
// in-memory implementation used by bootstrap and tests.  Language tags are
// normalized through x/text so "EN_us" and "en-US" agree.
package locale

import "golang.org/x/text/language"

// Service resolves message keys and exposes the active language tag.
type Service interface {
	// Get returns the localized string for key.  Implementations return the
	// key itself when no translation exists, so templates degrade readably.
	Get(key string) string

	// Language returns the request's resolved BCP 47 tag, e.g. "en-US".
	Language() string
}

// Catalog is a map-backed Service.
type Catalog struct {
	tag  language.Tag
	msgs map[string]string
}

// NewCatalog builds a Catalog for the given tag.  Unparseable tags fall
// back to English rather than failing; locale selection must not block a
// request.
func NewCatalog(tag string, msgs map[string]string) *Catalog {
	t, err := language.Parse(tag)
	if err != nil {
		t = language.English
	}
	if msgs == nil {
		msgs = map[string]string{}
	}
	return &Catalog{tag: t, msgs: msgs}
}

// Get implements Service.
func (c *Catalog) Get(key string) string {
	if v, ok := c.msgs[key]; ok {
		return v
	}
	return key
}

// Language implements Service.
func (c *Catalog) Language() string { return c.tag.String() }
