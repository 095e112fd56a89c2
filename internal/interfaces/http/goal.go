package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"finframe/internal/domain/goal"
	"finframe/internal/shared/dates"
	"finframe/internal/shared/validate"
)

type GoalHandler struct {
	goals *goal.Service
}

func NewGoalHandler(goals *goal.Service) *GoalHandler {
	return &GoalHandler{goals: goals}
}

type SavingGoalRequest struct {
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	TargetDate   string          `json:"targetDate"`
}

func (req SavingGoalRequest) params() (goal.SavingGoalParams, error) {
	p := goal.SavingGoalParams{Name: req.Name, TargetAmount: req.TargetAmount}
	if req.TargetDate != "" {
		d, ok := dates.Parse(req.TargetDate, isoDate)
		if !ok {
			return p, validate.Field("targetDate", "target date must be YYYY-MM-DD")
		}
		p.TargetDate = d
	}
	return p, nil
}

type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// HandleSavingGoals handles GET/POST /api/goals/
func (h *GoalHandler) HandleSavingGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		goals, err := h.goals.ListSaving(r.Context(), userID)
		if err != nil {
			writeError(w, r, err, "list goals")
			return
		}
		if goals == nil {
			goals = []*goal.SavingGoal{}
		}
		writeJSON(w, http.StatusOK, goals)
	case http.MethodPost:
		var req SavingGoalRequest
		if !decodeBody(w, r, &req) {
			return
		}
		params, err := req.params()
		if err != nil {
			writeError(w, r, err, "create goal")
			return
		}
		g, err := h.goals.CreateSaving(r.Context(), userID, params)
		if err != nil {
			writeError(w, r, err, "create goal")
			return
		}
		writeJSON(w, http.StatusCreated, g)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleSavingGoalByID handles GET/PUT/DELETE /api/goals/{id}
func (h *GoalHandler) HandleSavingGoalByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		g, err := h.goals.GetSaving(r.Context(), userID, id)
		if err != nil {
			writeError(w, r, err, "get goal")
			return
		}
		writeJSON(w, http.StatusOK, g)
	case http.MethodPut:
		var req SavingGoalRequest
		if !decodeBody(w, r, &req) {
			return
		}
		params, err := req.params()
		if err != nil {
			writeError(w, r, err, "update goal")
			return
		}
		g, err := h.goals.UpdateSaving(r.Context(), userID, id, params)
		if err != nil {
			writeError(w, r, err, "update goal")
			return
		}
		writeJSON(w, http.StatusOK, g)
	case http.MethodDelete:
		if err := h.goals.DeleteSaving(r.Context(), userID, id); err != nil {
			writeError(w, r, err, "delete goal")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleDeposit handles POST /api/goals/{id}/deposit
func (h *GoalHandler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req DepositRequest
	if !decodeBody(w, r, &req) {
		return
	}

	g, err := h.goals.Deposit(r.Context(), userID, id, req.Amount)
	if err != nil {
		writeError(w, r, err, "deposit to goal")
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// HandlePurchaseGoals handles GET/POST /api/purchase-goals/
func (h *GoalHandler) HandlePurchaseGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		goals, err := h.goals.ListPurchase(r.Context(), userID)
		if err != nil {
			writeError(w, r, err, "list purchase goals")
			return
		}
		if goals == nil {
			goals = []*goal.PurchaseGoal{}
		}
		writeJSON(w, http.StatusOK, goals)
	case http.MethodPost:
		var req goal.PurchaseGoalParams
		if !decodeBody(w, r, &req) {
			return
		}
		g, err := h.goals.CreatePurchase(r.Context(), userID, req)
		if err != nil {
			writeError(w, r, err, "create purchase goal")
			return
		}
		writeJSON(w, http.StatusCreated, g)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandlePurchaseGoalByID handles DELETE /api/purchase-goals/{id}
func (h *GoalHandler) HandlePurchaseGoalByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.goals.DeletePurchase(r.Context(), userID, id); err != nil {
		writeError(w, r, err, "delete purchase goal")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
