package http

import (
	"net/http"
)

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	month, ok := pathInt(w, r, "mes")
	if !ok {
		return
	}
	year, ok := pathInt(w, r, "ano")
	if !ok {
		return
	}

	rep, err := s.reports.MonthlyReport(r.Context(), int(month), int(year))
	if err != nil {
		writeStoreError(w, r, err, "Report not found")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleYearDashboard(w http.ResponseWriter, r *http.Request) {
	year, ok := pathInt(w, r, "ano")
	if !ok {
		return
	}

	dash, err := s.reports.YearDashboard(r.Context(), int(year))
	if err != nil {
		writeStoreError(w, r, err, "Dashboard not found")
		return
	}
	writeJSON(w, http.StatusOK, dash)
}
