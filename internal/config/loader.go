// internal/config/loader.go
//
// Configuration loader and hot-reloader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file — `<root>/conf/.env`.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `TRUCKCHECKS_`, where `__` maps to “.”
     (e.g., `TRUCKCHECKS_SMTP__HOST → smtp.host`).

After merging, the tree is unmarshalled into strongly-typed structs, the
`vault:` references in the two password fields are resolved, the result is
validated, enriched with the runtime root path, and cached in an
`atomic.Pointer` for lock-free reads.  `Reload()` simply calls `Load()`
again and swaps the pointer.

Instrumentation
---------------
  • DEBUG spans — root discovery, YAML read, env overlay.
  • ERROR spans — YAML parse, env overlay, unmarshal, Vault, validation.
  • INFO  span  — final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed.
*/
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/stationops/truckchecks/internal/vault"
)

var current atomic.Pointer[Config]

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves TRUCKCHECKS_ROOT or climbs directories until
// conf/global.yaml is found.  Falls back to executable heuristic for the
// production layout.
func rootDir() string {
	if r := os.Getenv("TRUCKCHECKS_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, resolves secrets, validates, and
// caches Config.
func Load() (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// Env overrides: TRUCKCHECKS_SMTP__HOST → smtp.host
	if err := k.Load(env.Provider("TRUCKCHECKS_", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	if err := resolveSecrets(&cfg); err != nil {
		zap.S().Errorw("config secret resolution failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"base_url", cfg.HTTP.BaseURL,
		"smtp_host", cfg.SMTP.Host,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// resolveSecrets replaces `vault:` references in the password fields.  The
// Vault client is only constructed when at least one reference is present,
// so dev setups without a Vault server keep working.
func resolveSecrets(cfg *Config) error {
	if !vault.IsRef(cfg.Database.Password) && !vault.IsRef(cfg.SMTP.Password) {
		return nil
	}

	cli, err := vault.New()
	if err != nil {
		return err
	}

	ctx := context.Background()
	if cfg.Database.Password, err = cli.Resolve(ctx, cfg.Database.Password); err != nil {
		return err
	}
	if cfg.SMTP.Password, err = cli.Resolve(ctx, cfg.SMTP.Password); err != nil {
		return err
	}
	return nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config  { return current.Load() }
func Reload() error { _, err := Load(); return err }
