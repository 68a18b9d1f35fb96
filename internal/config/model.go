// internal/config/model.go
//
// Typed configuration model.
//
// Context
// -------
// These structs shape the tree that `internal/config/loader.go` merges from
// three overlay layers:
//
//   - optional `conf/.env`                    – dotenv values,
//   - `conf/global.yaml`                      – primary static file,
//   - `KEEL_`-prefixed environment overrides  – highest precedence.
//
// Validation happens immediately after unmarshal; the app fails fast when a
// required field is missing.  Struct tags use `koanf:"…"` — Koanf ignores
// `yaml` tags unless configured otherwise.  The `Paths` block is filled at
// runtime; YAML must not try to set it.
package config

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr  string `koanf:"listen_addr"  validate:"required,hostname_port"`
	MetricsAddr string `koanf:"metrics_addr" validate:"required,hostname_port"`
}

//
// Database section
//

// Database holds the control-plane DSN used for site lookups.
type Database struct {
	GlobalDSN string `koanf:"global_dsn" validate:"required"`
}

//
// Site section
//

// Site holds per-request defaults: the root URL used when a site has no
// hostname, the fallback locale, and the default theme.
type Site struct {
	DefaultRoot   string `koanf:"default_root"   validate:"required,url"`
	DefaultLocale string `koanf:"default_locale" validate:"required"`
	DefaultTheme  string `koanf:"default_theme"  validate:"required"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set from YAML or env.
type Paths struct {
	Root string // KEEL_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Site     Site     `koanf:"site"`
	Paths    Paths    `koanf:"-"`
}
