// internal/module/registry.go
//
// A super-light registry: modules call Register(path, handler) in an
// init() function.  The dispatcher in cmd/web looks up the exact URL path
// and, if found, executes the handler with the resolved station.
//
// Handler signature:
//
//	func(env *Env, st *station.Station,
//	     w http.ResponseWriter, r *http.Request)
//
// `st` is non-nil when the request carried a resolvable `station_id`;
// handlers that need a station scope must check and reject nil.  Method
// discrimination happens inside handlers.
package module

import (
	"net/http"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/stationops/truckchecks/internal/config"
	"github.com/stationops/truckchecks/internal/station"
)

// Env bundles the process-wide collaborators a module handler may need.
type Env struct {
	DB       *sqlx.DB
	Cfg      *config.Config
	Stations *station.Cache
}

// Handler is what modules register.
type Handler func(*Env, *station.Station, http.ResponseWriter, *http.Request)

var (
	mu       sync.RWMutex
	registry = map[string]Handler{}
)

// Register is called from module init() functions.
func Register(path string, h Handler) {
	mu.Lock()
	registry[path] = h
	mu.Unlock()
}

// Lookup returns the handler for an exact path or nil.
func Lookup(path string) Handler {
	mu.RLock()
	defer mu.RUnlock()
	return registry[path]
}

// All returns a copy of the registered path → handler map so the
// dispatcher can mount every module at boot.
func All() map[string]Handler {
	mu.RLock()
	defer mu.RUnlock()
	out := make(map[string]Handler, len(registry))
	for p, h := range registry {
		out[p] = h
	}
	return out
}
