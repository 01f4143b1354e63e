// cmd/web/main.go
//
// TruckChecks report service – HTTP entry point.
//
// Request life-cycle
// ------------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Load config (YAML + env overlay, Vault-resolved secrets).
//
//  4. Open the control-plane DB and log active-station count.
//
//  5. Build the station cache (lazy-loads each station on first hit).
//
//  6. Mount /metrics plus every registered module behind the station
//     resolver, wrap with security headers, and serve.
//
// Module dispatch: each module registered a path at init(); the resolver
// turns ?station_id=N into a cached *station.Station before the module
// handler runs.  Handlers that need a station reject a nil one.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stationops/truckchecks/internal/config"
	"github.com/stationops/truckchecks/internal/database"
	"github.com/stationops/truckchecks/internal/logger"
	"github.com/stationops/truckchecks/internal/middleware"
	"github.com/stationops/truckchecks/internal/module"
	"github.com/stationops/truckchecks/internal/server"
	"github.com/stationops/truckchecks/internal/station"

	_ "github.com/stationops/truckchecks/modules/debug"
	_ "github.com/stationops/truckchecks/modules/report"
	_ "github.com/stationops/truckchecks/modules/settings"
)

const serverEnvPath = "/usr/local/etc/truckchecks/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
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

func init() { loadEnv() }

func main() {
	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	//
	// ── 1.  Config ──────────────────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		logOut.Fatalf("load config: %v", err)
	}

	//
	// ── 2.  Control-plane DB connect ───────────────────────────────────
	//
	logOut.Info("connecting to DB …")
	db, err := database.Open(resolveDSN(cfg))
	if err != nil {
		logOut.Fatalf("connect DB: %v", err)
	}
	defer db.Close()
	logOut.Info("DB online")

	// Log active-station count as an early sanity check.
	if active, err := station.AllActive(db); err == nil {
		logOut.Infof("%d active station(s) found", len(active))
	}

	//
	// ── 3.  Station cache (lazy loader) ────────────────────────────────
	//
	stations := station.New(db, station.IdleTTL, station.MaxEntries)
	env := &module.Env{DB: db, Cfg: cfg, Stations: stations}

	//
	// ── 4.  Router: metrics + module dispatch ──────────────────────────
	//
	r := chi.NewRouter()
	r.Use(middleware.Security)
	r.Handle("/metrics", promhttp.Handler())

	for path, h := range module.All() {
		r.HandleFunc(path, withStation(env, h))
	}

	//
	// ── 5.  Serve ──────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, r)
	logOut.Infof("listening on %s", cfg.HTTP.ListenAddr)
	if err := srv.ListenAndServe(); err != nil {
		logOut.Fatalf("http server: %v", err)
	}
}

// resolveDSN splices the secret password into the DSN template.  The
// template carries exactly one %s verb.
func resolveDSN(cfg *config.Config) string {
	return fmt.Sprintf(cfg.Database.DSN, cfg.Database.Password)
}

// withStation adapts a module.Handler into http.HandlerFunc, resolving an
// optional ?station_id=N through the cache.
func withStation(env *module.Env, h module.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var st *station.Station
		if raw := r.URL.Query().Get("station_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				http.Error(w, "invalid station_id", http.StatusBadRequest)
				return
			}
			st, err = env.Stations.Get(r.Context(), id)
			if err != nil {
				http.NotFound(w, r)
				return
			}
		}
		h(env, st, w, r)
	}
}
