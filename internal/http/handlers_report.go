package http

import (
	"net/http"
	"strings"

	"budget/internal/core"
)

type periodResponse struct {
	Period string `json:"period"`
	Label  string `json:"label"`
}

// handleReport serves the full report for ?period=, or for the latest
// period with data when none is given.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriodQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var report core.Report
	if period == nil {
		report, err = s.reports.LatestReport(r.Context())
	} else {
		report, err = s.reports.Report(r.Context(), *period)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handlePeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := s.reports.Periods(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]periodResponse, len(periods))
	for i, p := range periods {
		out[i] = periodResponse{Period: p.String(), Label: p.Label()}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleBreakdown serves expenses by category for ?period=, or all time.
func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriodQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	totals, err := s.reports.Breakdown(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if totals == nil {
		totals = []core.CategoryTotal{}
	}
	writeJSON(w, http.StatusOK, totals)
}

// handleGoalProgress measures ?id= or the active goal.
func (s *Server) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	progress, ok, err := s.reports.GoalProgress(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "no goal"})
		return
	}
	writeJSON(w, http.StatusOK, progress)
}
