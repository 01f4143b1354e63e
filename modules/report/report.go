// modules/report/report.go
//
// Report module – preview, preview-send, and dispatch endpoints.
//
// Endpoints
// ---------
//
//	GET  /report/preview?station_id=N   – build the station report and
//	     return it as JSON for in-browser preview.
//	POST /report/send                   – send previously built report
//	     fields to one ad hoc address, subject suffixed " (PREVIEW)".
//	POST /report/dispatch?station_id=N  – build and fan out to the
//	     station's recipient list, one send per address; a failure for
//	     one recipient never aborts the loop.
//
// The module never resolves stations itself; the dispatcher hands it an
// already-loaded *station.Station (nil when no station_id was supplied).
package report

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/stationops/truckchecks/internal/config"
	"github.com/stationops/truckchecks/internal/mailer"
	"github.com/stationops/truckchecks/internal/module"
	"github.com/stationops/truckchecks/internal/report"
	"github.com/stationops/truckchecks/internal/station"
)

func init() {
	module.Register("/report/preview", handlePreview)
	module.Register("/report/send", handleSend)
	module.Register("/report/dispatch", handleDispatch)
}

// relayConfig maps the app SMTP block onto the mailer's contract.
func relayConfig(c config.SMTP) mailer.Config {
	return mailer.Config{
		Host:     c.Host,
		Port:     c.Port,
		Username: c.Username,
		Password: c.Password,
		Security: c.Security,
		FromName: c.FromName,
	}
}

/*──────────────────────────── preview ─────────────────────────────────────*/

type previewResponse struct {
	Success      bool     `json:"success"`
	HTMLContent  string   `json:"htmlContent,omitempty"`
	PlainContent string   `json:"plainContent,omitempty"`
	Emails       []string `json:"emails,omitempty"`
	Subject      string   `json:"subject,omitempty"`
	Error        string   `json:"error,omitempty"`
}

func handlePreview(env *module.Env, st *station.Station, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	if st == nil {
		writeJSON(w, http.StatusBadRequest, previewResponse{Error: "station_id required"})
		return
	}

	b := &report.Builder{DB: env.DB, BaseURL: env.Cfg.HTTP.BaseURL}
	rep, err := b.Build(r.Context(), st, time.Now())
	if err != nil {
		zap.S().Errorw("report build failed", "station", st.ID, "err", err)
		writeJSON(w, http.StatusInternalServerError,
			previewResponse{Error: "could not generate report"})
		return
	}

	writeJSON(w, http.StatusOK, previewResponse{
		Success:      true,
		HTMLContent:  rep.HTMLBody,
		PlainContent: rep.PlainBody,
		Emails:       rep.Recipients,
		Subject:      rep.Subject,
	})
}

/*──────────────────────────── preview send ────────────────────────────────*/

type sendRequest struct {
	Email        string `json:"email"`
	Subject      string `json:"subject"`
	HTMLContent  string `json:"htmlContent"`
	PlainContent string `json:"plainContent"`
}

type sendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func handleSend(env *module.Env, _ *station.Station, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, sendResponse{Error: "invalid request body"})
		return
	}

	subject := req.Subject + " (PREVIEW)"
	err := mailer.Send(relayConfig(env.Cfg.SMTP), req.Email, subject,
		req.HTMLContent, req.PlainContent)
	status, resp := classifySend(req.Email, err)
	writeJSON(w, status, resp)
}

// classifySend maps mailer outcomes onto the caller-facing JSON contract.
// The relay diagnostic is shown verbatim; it is assumed non-sensitive.
func classifySend(dest string, err error) (int, sendResponse) {
	switch e := err.(type) {
	case nil:
		return http.StatusOK, sendResponse{Success: true, Message: "sent to " + dest}
	case *mailer.ValidationError:
		return http.StatusBadRequest, sendResponse{Error: e.Error()}
	case *mailer.SendError:
		return http.StatusBadGateway, sendResponse{Error: "failed to send: " + e.Diagnostic}
	default:
		if err == mailer.ErrNotConfigured {
			zap.S().Errorw("mail relay not configured")
			return http.StatusInternalServerError,
				sendResponse{Error: "mail transport is not configured"}
		}
		return http.StatusInternalServerError, sendResponse{Error: "failed to send"}
	}
}

/*──────────────────────────── dispatch ────────────────────────────────────*/

type dispatchResult struct {
	Email string `json:"email"`
	Sent  bool   `json:"sent"`
	Error string `json:"error,omitempty"`
}

type dispatchResponse struct {
	Success bool             `json:"success"`
	Results []dispatchResult `json:"results,omitempty"`
	Error   string           `json:"error,omitempty"`
}

func handleDispatch(env *module.Env, st *station.Station, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	if st == nil {
		writeJSON(w, http.StatusBadRequest, dispatchResponse{Error: "station_id required"})
		return
	}

	b := &report.Builder{DB: env.DB, BaseURL: env.Cfg.HTTP.BaseURL}
	rep, err := b.Build(r.Context(), st, time.Now())
	if err != nil {
		zap.S().Errorw("report build failed", "station", st.ID, "err", err)
		writeJSON(w, http.StatusInternalServerError,
			dispatchResponse{Error: "could not generate report"})
		return
	}

	relay := relayConfig(env.Cfg.SMTP)
	results := make([]dispatchResult, 0, len(rep.Recipients))
	for _, dest := range rep.Recipients {
		res := dispatchResult{Email: dest}
		if err := mailer.Send(relay, dest, rep.Subject, rep.HTMLBody, rep.PlainBody); err != nil {
			res.Error = err.Error()
			zap.S().Warnw("report send failed", "station", st.ID, "to", dest, "err", err)
		} else {
			res.Sent = true
		}
		results = append(results, res)
	}

	writeJSON(w, http.StatusOK, dispatchResponse{Success: true, Results: results})
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
