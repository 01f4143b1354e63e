// modules/settings/settings.go
//
// Recipient-settings module.
//
// Endpoints (all station-scoped)
// ------------------------------
//
//	GET    /settings/recipients?station_id=N  – explicit list + admin email.
//	POST   /settings/recipients?station_id=N  – append {email} to the list.
//	DELETE /settings/recipients?station_id=N&id=M – remove one entry.
//	POST   /settings/admin-email?station_id=N – upsert the admin address
//	       (single atomic statement; never check-then-write).
package settings

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strconv"

	"github.com/stationops/truckchecks/internal/module"
	"github.com/stationops/truckchecks/internal/station"
)

func init() {
	module.Register("/settings/recipients", handleRecipients)
	module.Register("/settings/admin-email", handleAdminEmail)
}

type recipientsResponse struct {
	Success    bool     `json:"success"`
	Emails     []string `json:"emails,omitempty"`
	AdminEmail string   `json:"adminEmail,omitempty"`
	Error      string   `json:"error,omitempty"`
}

type emailRequest struct {
	Email string `json:"email"`
}

func handleRecipients(env *module.Env, st *station.Station, w http.ResponseWriter, r *http.Request) {
	if st == nil {
		writeJSON(w, http.StatusBadRequest, recipientsResponse{Error: "station_id required"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		emails, err := station.RecipientEmails(r.Context(), env.DB, st.ID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, recipientsResponse{Error: "query failed"})
			return
		}
		admin, err := station.AdminEmail(r.Context(), env.DB, st.ID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, recipientsResponse{Error: "query failed"})
			return
		}
		writeJSON(w, http.StatusOK, recipientsResponse{Success: true, Emails: emails, AdminEmail: admin})

	case http.MethodPost:
		req, ok := decodeEmail(w, r)
		if !ok {
			return
		}
		if err := station.AddRecipientEmail(r.Context(), env.DB, st.ID, req.Email); err != nil {
			writeJSON(w, http.StatusInternalServerError, recipientsResponse{Error: "insert failed"})
			return
		}
		writeJSON(w, http.StatusOK, recipientsResponse{Success: true})

	case http.MethodDelete:
		id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, recipientsResponse{Error: "id required"})
			return
		}
		if err := station.RemoveRecipientEmail(r.Context(), env.DB, st.ID, id); err != nil {
			writeJSON(w, http.StatusInternalServerError, recipientsResponse{Error: "delete failed"})
			return
		}
		writeJSON(w, http.StatusOK, recipientsResponse{Success: true})

	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func handleAdminEmail(env *module.Env, st *station.Station, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	if st == nil {
		writeJSON(w, http.StatusBadRequest, recipientsResponse{Error: "station_id required"})
		return
	}

	req, ok := decodeEmail(w, r)
	if !ok {
		return
	}
	if err := station.UpsertAdminEmail(r.Context(), env.DB, st.ID, req.Email); err != nil {
		writeJSON(w, http.StatusInternalServerError, recipientsResponse{Error: "upsert failed"})
		return
	}
	writeJSON(w, http.StatusOK, recipientsResponse{Success: true})
}

// decodeEmail parses the body and rejects syntactically invalid addresses
// before any write.
func decodeEmail(w http.ResponseWriter, r *http.Request) (emailRequest, bool) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, recipientsResponse{Error: "invalid request body"})
		return req, false
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeJSON(w, http.StatusBadRequest, recipientsResponse{Error: "invalid email address"})
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
