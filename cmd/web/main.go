// cmd/web/main.go
//
// Keel – HTTP entry point.
//
// Request life-cycle
// ------------------
//
//  1. Load env vars (server-wide file → .env fallback).
//
//  2. Start the daily rotating logger (tees to console in a TTY).
//
//  3. Load layered configuration and open the control-plane DB.
//
//  4. Build the view engine and the controller dependency set.
//
//  5. Serve two listeners via errgroup: the app router and the
//     Prometheus /metrics endpoint.
//
//  6. Per request: build controller props (session, locale, path vars,
//     theme, declared site uid), run the init protocol, and render the
//     page; a failed site lookup has already produced the 404 by the
//     time Init returns.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/keelframework/keel/internal/analytics"
	"github.com/keelframework/keel/internal/config"
	"github.com/keelframework/keel/internal/controller"
	"github.com/keelframework/keel/internal/database"
	"github.com/keelframework/keel/internal/locale"
	"github.com/keelframework/keel/internal/logger"
	"github.com/keelframework/keel/internal/placeholder"
	"github.com/keelframework/keel/internal/session"
	"github.com/keelframework/keel/internal/site"
	"github.com/keelframework/keel/internal/view"
)

const serverEnvPath = "/usr/local/etc/keel/global.env"

// loadEnv prefers the server-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	loadEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.Paths.Root, logger.Options{Tee: runningInTTY()})
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()
	globalDB, err := database.Open(ctx, cfg.Database.GlobalDSN)
	if err != nil {
		zlog.Fatalw("connect global DB", "err", err)
	}
	defer globalDB.Close()
	zlog.Infow("global DB online")

	sites := site.NewRepository(globalDB)

	// Log the active-site count as an early sanity check on the DSN.
	if active, err := sites.AllActive(ctx); err != nil {
		zlog.Warnw("active-site count unavailable", "err", err)
	} else {
		zlog.Infow("sites online", "active", len(active))
	}

	engine := view.NewEngine(cfg.Paths.Root)

	deps := controller.Deps{
		Sites: sites,
		Bind: func(host, theme string, reg *placeholder.Registry) controller.Renderer {
			return engine.Bind(host, theme, reg)
		},
		Analytics:       &analytics.ScriptInjector{PropertyTag: os.Getenv("KEEL_ANALYTICS_TAG")},
		DefaultSiteRoot: cfg.Site.DefaultRoot,
		Log:             zlog,
	}

	r := chi.NewRouter()
	r.Get("/{site}", pageHandler(deps, cfg))
	r.Get("/{site}/{slug}", pageHandler(deps, cfg))

	var g errgroup.Group
	g.Go(func() error {
		zlog.Infow("web online", "addr", cfg.HTTP.ListenAddr)
		return http.ListenAndServe(cfg.HTTP.ListenAddr, r)
	})
	g.Go(func() error {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		zlog.Infow("metrics online", "addr", cfg.HTTP.MetricsAddr)
		return http.ListenAndServe(cfg.HTTP.MetricsAddr, mux)
	})

	if err := g.Wait(); err != nil {
		zlog.Fatalw("server exited", "err", err)
	}
}

// pageHandler runs the full controller protocol for one page request.
func pageHandler(deps controller.Deps, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		base := controller.New(deps)

		props := controller.Props{
			Request: r,
			Writer:  w,
			Session: session.New(),
			Locale:  locale.NewCatalog(cfg.Site.DefaultLocale, nil),
			Params: map[string]string{
				"slug": chi.URLParam(r, "slug"),
			},
			Query:    r.URL.Query(),
			Theme:    cfg.Site.DefaultTheme,
			SiteUID:  chi.URLParam(r, "site"),
			NotFound: func() { http.NotFound(w, r) },
		}
		if err := base.Init(r.Context(), props); err != nil {
			// Site lookup failures already wrote the 404; anything else is
			// an internal fault.
			if !errors.Is(err, controller.ErrSiteUnresolved) {
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		base.SetPageName(base.Site().DisplayName())
		if err := base.Render(r.Context(), "home", nil); err != nil {
			deps.Log.Errorw("render failed", "site", base.Site().UID, "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}
