// modules/debug/debug.go
//
// Demo module that echoes the resolved station and config highlights.
package debug

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/stationops/truckchecks/internal/module"
	"github.com/stationops/truckchecks/internal/station"
)

func init() {
	// Register at exact path /debug
	module.Register("/debug", handler)
}

// handler writes a JSON blob with selected context fields.
func handler(env *module.Env, st *station.Station, w http.ResponseWriter, r *http.Request) {
	out := map[string]any{
		"ip":       clientIP(r),
		"base_url": env.Cfg.HTTP.BaseURL,
	}
	if st != nil {
		out["station_id"] = st.ID
		out["station_name"] = st.Name
		out["station_tz"] = st.Location().String()
	}

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

// clientIP grabs the remote address without port.
func clientIP(r *http.Request) string {
	h, _, _ := net.SplitHostPort(r.RemoteAddr)
	return h
}
