// internal/controller/base_test.go
//
// Unit-tests for the init protocol and the standard placeholder set.
//
// Workflow
// --------
// fakeLookup and fakeRenderer stand in for the site service and the view
// binding so each test drives Init and the resolvers without a database or
// template files on disk.

package controller

import (
	"context"
	"errors"
	"html/template"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/keelframework/keel/internal/locale"
	"github.com/keelframework/keel/internal/placeholder"
	"github.com/keelframework/keel/internal/session"
	"github.com/keelframework/keel/internal/site"
)

// fakeLookup satisfies site.Lookup with injectable results.
type fakeLookup struct {
	rec *site.Record
	err error
}

func (f *fakeLookup) ByUID(context.Context, string) (*site.Record, error) {
	return f.rec, f.err
}

// fakeRenderer records renders and serves a canned editor fragment that
// consumes the nested id placeholder, mirroring what the real template
// does.
type fakeRenderer struct {
	reg *placeholder.Registry
}

func (f *fakeRenderer) Render(_ context.Context, w io.Writer, name string, _ any) error {
	_, err := w.Write([]byte("page:" + name))
	return err
}

func (f *fakeRenderer) Fragment(ctx context.Context, _ string) (template.HTML, error) {
	v, err := f.reg.Resolve(ctx, PlaceholderWysiwygID, nil)
	if err != nil {
		return "", err
	}
	return template.HTML(`<div class="editor" id="` + v.String() + `"></div>`), nil
}

func newTestBase(t *testing.T, lookup site.Lookup) (*Base, Props, *bool) {
	t.Helper()

	deps := Deps{
		Sites: lookup,
		Bind: func(_, _ string, reg *placeholder.Registry) Renderer {
			return &fakeRenderer{reg: reg}
		},
		DefaultSiteRoot: "https://default.example.com",
		NewID:           func() string { return "id-1" },
	}

	notFound := false
	props := Props{
		Request:  httptest.NewRequest("GET", "https://acme.example.com/page", nil),
		Writer:   httptest.NewRecorder(),
		Session:  session.New(),
		Locale:   locale.NewCatalog("en-US", map[string]string{"flash.saved": "Saved."}),
		Params:   map[string]string{"slug": "page"},
		Query:    url.Values{"q": {"x"}},
		Theme:    "base",
		SiteUID:  "acme",
		NotFound: func() { notFound = true },
	}
	return New(deps), props, &notFound
}

func TestInit_Ready(t *testing.T) {
	b, props, notFound := newTestBase(t, &fakeLookup{
		rec: &site.Record{UID: "acme", Name: "Acme Travel", Host: "acme.example.com"},
	})

	if err := b.Init(context.Background(), props); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !b.Ready() {
		t.Fatal("Ready() = false after successful Init")
	}
	if *notFound {
		t.Fatal("not-found handler ran on the success path")
	}

	ctx := context.Background()
	v, err := b.Placeholders().Resolve(ctx, PlaceholderSiteName, nil)
	if err != nil {
		t.Fatalf("site_name: %v", err)
	}
	if v.String() != "Acme Travel" {
		t.Fatalf("site_name = %q, want display name", v.String())
	}

	v, err = b.Placeholders().Resolve(ctx, PlaceholderSiteRoot, nil)
	if err != nil {
		t.Fatalf("site_root: %v", err)
	}
	if v.String() != "https://acme.example.com" {
		t.Fatalf("site_root = %q", v.String())
	}
}

func TestInit_GlobalSiteNameIsUID(t *testing.T) {
	b, props, _ := newTestBase(t, &fakeLookup{
		rec: &site.Record{UID: "hub", Name: "The Hub", Global: true},
	})
	if err := b.Init(context.Background(), props); err != nil {
		t.Fatalf("Init: %v", err)
	}

	v, err := b.Placeholders().Resolve(context.Background(), PlaceholderSiteName, nil)
	if err != nil {
		t.Fatalf("site_name: %v", err)
	}
	if v.String() != "hub" {
		t.Fatalf("global site_name = %q, want uid", v.String())
	}

	// No hostname configured → configured default root.
	v, _ = b.Placeholders().Resolve(context.Background(), PlaceholderSiteRoot, nil)
	if v.String() != "https://default.example.com" {
		t.Fatalf("site_root fallback = %q", v.String())
	}
}

func TestInit_LookupFailure(t *testing.T) {
	b, props, notFound := newTestBase(t, &fakeLookup{err: site.ErrNotFound})

	err := b.Init(context.Background(), props)
	if !errors.Is(err, ErrSiteUnresolved) {
		t.Fatalf("Init = %v, want ErrSiteUnresolved", err)
	}
	if b.Ready() {
		t.Fatal("Ready() = true after failed lookup")
	}
	if !*notFound {
		t.Fatal("not-found handler did not run")
	}

	// Site placeholders were never registered in this branch.
	if b.Placeholders().Has(PlaceholderSiteName) || b.Placeholders().Has(PlaceholderSiteRoot) {
		t.Fatal("site placeholders registered despite lookup failure")
	}
}

func TestInit_SecondCallRejected(t *testing.T) {
	b, props, _ := newTestBase(t, &fakeLookup{rec: &site.Record{UID: "acme"}})
	if err := b.Init(context.Background(), props); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := b.Init(context.Background(), props); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("second Init = %v, want ErrAlreadyInitialized", err)
	}
}

func TestFlashPlaceholder_DestructiveRead(t *testing.T) {
	b, props, _ := newTestBase(t, &fakeLookup{rec: &site.Record{UID: "acme"}})
	if err := b.Init(context.Background(), props); err != nil {
		t.Fatalf("Init: %v", err)
	}
	b.Session().SetError("flash.saved")

	ctx := context.Background()
	v, err := b.Placeholders().Resolve(ctx, PlaceholderErrorSuccess, nil)
	if err != nil {
		t.Fatalf("error_success: %v", err)
	}
	if !v.IsRaw() || !strings.Contains(v.String(), "alert-error") || !strings.Contains(v.String(), "Saved.") {
		t.Fatalf("alert fragment = %q", v.String())
	}

	// Second resolve in the same request observes no flash.
	v, err = b.Placeholders().Resolve(ctx, PlaceholderErrorSuccess, nil)
	if err != nil {
		t.Fatalf("second error_success: %v", err)
	}
	if v.String() != "" {
		t.Fatalf("second resolve = %q, want empty", v.String())
	}
	if b.Session().Len() != 0 {
		t.Fatal("flash key survived consumption")
	}
}

func TestPageNamePlaceholder_LastSetWins(t *testing.T) {
	b, props, _ := newTestBase(t, &fakeLookup{rec: &site.Record{UID: "acme"}})
	if err := b.Init(context.Background(), props); err != nil {
		t.Fatalf("Init: %v", err)
	}

	ctx := context.Background()
	v, _ := b.Placeholders().Resolve(ctx, PlaceholderPageName, nil)
	if v.String() != "" {
		t.Fatalf("default page_name = %q, want empty", v.String())
	}

	b.SetPageName("First")
	b.SetPageName("Second")
	v, _ = b.Placeholders().Resolve(ctx, PlaceholderPageName, nil)
	if v.String() != "Second" {
		t.Fatalf("page_name = %q, want last set", v.String())
	}
}

func TestLocalizationScriptPlaceholder(t *testing.T) {
	b, props, _ := newTestBase(t, &fakeLookup{rec: &site.Record{UID: "acme"}})
	if err := b.Init(context.Background(), props); err != nil {
		t.Fatalf("Init: %v", err)
	}

	ctx := context.Background()
	v, _ := b.Placeholders().Resolve(ctx, PlaceholderLocalizationScript, nil)
	if !strings.Contains(v.String(), "/locale/en-US.js") {
		t.Fatalf("script include = %q", v.String())
	}

	b.SetClientLocalization(false)
	v, _ = b.Placeholders().Resolve(ctx, PlaceholderLocalizationScript, nil)
	if v.String() != "" {
		t.Fatalf("opted-out include = %q, want empty", v.String())
	}
}

func TestEditorPlaceholder_RegistersNestedID(t *testing.T) {
	b, props, _ := newTestBase(t, &fakeLookup{rec: &site.Record{UID: "acme"}})
	if err := b.Init(context.Background(), props); err != nil {
		t.Fatalf("Init: %v", err)
	}

	v, err := b.Placeholders().Resolve(context.Background(), PlaceholderWysiwyg, nil)
	if err != nil {
		t.Fatalf("wysiwyg: %v", err)
	}
	if !v.IsRaw() || !strings.Contains(v.String(), `id="id-1"`) {
		t.Fatalf("editor fragment = %q", v.String())
	}
	if !b.Placeholders().Has(PlaceholderWysiwygID) {
		t.Fatal("nested id placeholder not registered")
	}
}

func TestLocalePlaceholder(t *testing.T) {
	b, props, _ := newTestBase(t, &fakeLookup{rec: &site.Record{UID: "acme"}})
	if err := b.Init(context.Background(), props); err != nil {
		t.Fatalf("Init: %v", err)
	}
	v, _ := b.Placeholders().Resolve(context.Background(), PlaceholderLocale, nil)
	if v.String() != "en-US" {
		t.Fatalf("locale = %q", v.String())
	}
}

func TestRegisterPlaceholder_ShadowAndRaw(t *testing.T) {
	b, props, _ := newTestBase(t, &fakeLookup{rec: &site.Record{UID: "acme"}})
	if err := b.Init(context.Background(), props); err != nil {
		t.Fatalf("Init: %v", err)
	}

	b.RegisterPlaceholder("foo", func(context.Context, any) (placeholder.Value, error) {
		return placeholder.Text("first"), nil
	}, false)
	b.RegisterPlaceholder("foo", func(context.Context, any) (placeholder.Value, error) {
		return placeholder.Text("<b>second</b>"), nil
	}, true)

	v, err := b.Placeholders().Resolve(context.Background(), "foo", nil)
	if err != nil {
		t.Fatalf("foo: %v", err)
	}
	if v.String() != "<b>second</b>" || !v.IsRaw() {
		t.Fatalf("shadowed or escaped unexpectedly: %q raw=%v", v.String(), v.IsRaw())
	}
}
