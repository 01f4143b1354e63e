// internal/config/model.go
//
// Typed configuration model for the TruckChecks report service.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                              – dotenv values,
//   • `conf/global.yaml`                           – primary static file,
//   • `TRUCKCHECKS_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* validation, so the model never stores
// Vault URIs — only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.  The SMTP block is deliberately *not*
// required: a missing relay is a deployment problem the mailer reports as
// a configuration error at send time, not a reason to refuse boot.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"` — Koanf ignores `yaml`
//     tags unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

//
// HTTP section
//

// HTTP holds web-server tunables.  BaseURL is the externally visible
// origin used when building deep links back into the admin panel (report
// footers, locker-check QR targets).
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	BaseURL    string `koanf:"base_url"    validate:"required,url"`
}

//
// Database section
//

// Database holds the DSN template and its secret.
//
// The *template* (`DSN`) is kept in YAML so operators can tweak host,
// port, or flags without touching Vault.  The *secret* portion
// (`Password`) is stored in Vault and injected at runtime, keeping
// credentials out of flat files and git history.
type Database struct {
	DSN      string `koanf:"dsn"      validate:"required"`
	Password string `koanf:"password" validate:"required"`
}

//
// SMTP section
//

// SMTP describes the outbound mail relay.  All fields may be empty at
// boot; the mailer gates on them per send and reports a configuration
// error when the relay is unusable.
type SMTP struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"     validate:"omitempty,min=1,max=65535"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	Security string `koanf:"security" validate:"omitempty,oneof=none starttls tls"`
	FromName string `koanf:"from_name"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime — never set in YAML or env.  The loader
// discovers `Root` (repo root or TRUCKCHECKS_ROOT override) so later code
// can build absolute file paths.
type Paths struct {
	Root string // TRUCKCHECKS_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	SMTP     SMTP     `koanf:"smtp"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
