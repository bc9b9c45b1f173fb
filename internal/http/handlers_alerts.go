package http

import (
	"net/http"

	"financas/internal/core"
	"financas/internal/events"
)

type alertCreateRequest struct {
	MonthlyLimit core.Money `json:"limite_mensal"`
	Month        int        `json:"mes"`
	Year         int        `json:"ano"`
	Active       *bool      `json:"ativo"`
}

// handleReplaceAlert installs the limit for one period. Any previous configs
// for that period are gone once this returns.
func (s *Server) handleReplaceAlert(w http.ResponseWriter, r *http.Request) {
	var req alertCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	created, err := s.store.ReplaceAlertConfig(r.Context(), core.AlertConfig{
		MonthlyLimit: req.MonthlyLimit,
		Month:        req.Month,
		Year:         req.Year,
		Active:       active,
	})
	if err != nil {
		writeStoreError(w, r, err, "Alert config not found")
		return
	}

	s.publishChange(r.Context(), events.EntityAlertConfig, events.OpCreated, req.Month, req.Year)
	writeJSON(w, http.StatusOK, created)
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.store.ListAlertConfigs(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "Alert config not found")
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

// handleGetAlert returns the config for a period, active or not, or a JSON
// null when none exists. Absence is not an error.
func (s *Server) handleGetAlert(w http.ResponseWriter, r *http.Request) {
	month, ok := pathInt(w, r, "mes")
	if !ok {
		return
	}
	year, ok := pathInt(w, r, "ano")
	if !ok {
		return
	}

	alert, err := s.store.FindAlertConfig(r.Context(), int(month), int(year))
	if err != nil {
		writeStoreError(w, r, err, "Alert config not found")
		return
	}
	writeJSON(w, http.StatusOK, alert)
}
