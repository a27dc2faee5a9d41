package http

import (
	"net/http"

	"budget/internal/core"
)

// transactionRequest is the create body. Amount is kept as text so the
// stored value is exactly what the caller sent.
type transactionRequest struct {
	Title       string `json:"title"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Date        string `json:"date"`
	Month       string `json:"month"`
	Year        string `json:"year"`
	Notes       string `json:"notes"`
}

func (req transactionRequest) toTransaction() core.Transaction {
	return core.Transaction{
		Title:       sanitizeInput(req.Title),
		Amount:      sanitizeInput(req.Amount),
		Category:    sanitizeInput(req.Category),
		Subcategory: sanitizeInput(req.Subcategory),
		Date:        sanitizeInput(req.Date),
		Month:       sanitizeInput(req.Month),
		Year:        sanitizeInput(req.Year),
		Notes:       sanitizeInput(req.Notes),
	}
}

type goalRequest struct {
	Name          string `json:"name"`
	TargetAmount  string `json:"targetAmount"`
	CurrentAmount string `json:"currentAmount"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriodQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	txs, err := s.ledger.ListTransactions(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.ledger.GetTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.ledger.CreateTransaction(r.Context(), req.toTransaction())
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/transactions/"+created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var upd core.TransactionUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		writeError(w, r, err)
		return
	}
	for _, f := range []*string{upd.Title, upd.Amount, upd.Category, upd.Subcategory, upd.Date, upd.Month, upd.Year, upd.Notes} {
		sanitizePtr(f)
	}
	updated, err := s.ledger.UpdateTransaction(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.ledger.ListGoals(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if goals == nil {
		goals = []core.Goal{}
	}
	writeJSON(w, http.StatusOK, goals)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := s.ledger.GetGoal(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.ledger.CreateGoal(r.Context(), core.Goal{
		Name:          sanitizeInput(req.Name),
		TargetAmount:  sanitizeInput(req.TargetAmount),
		CurrentAmount: sanitizeInput(req.CurrentAmount),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/goals/"+created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var upd core.GoalUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		writeError(w, r, err)
		return
	}
	sanitizePtr(upd.Name)
	sanitizePtr(upd.TargetAmount)
	sanitizePtr(upd.CurrentAmount)
	updated, err := s.ledger.UpdateGoal(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteGoal(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
