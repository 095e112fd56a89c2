package http

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"finframe/internal/domain/limit"
	"finframe/internal/shared/dates"
	"finframe/internal/shared/validate"
)

type LimitHandler struct {
	limits *limit.Service
}

func NewLimitHandler(limits *limit.Service) *LimitHandler {
	return &LimitHandler{limits: limits}
}

type LimitRequest struct {
	CategoryID int64           `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Period     dates.Period    `json:"period"`
	StartDate  string          `json:"startDate,omitempty"`
}

func (req LimitRequest) params() (limit.SaveParams, error) {
	p := limit.SaveParams{
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		Period:     req.Period,
	}
	if req.StartDate != "" {
		d, ok := dates.Parse(req.StartDate, isoDate)
		if !ok {
			return p, validate.Field("startDate", "start date must be YYYY-MM-DD")
		}
		p.StartDate = d
	}
	return p, nil
}

// HandleLimits handles GET/POST /api/limits/. GET accepts ?category= to
// narrow the list to one category.
func (h *LimitHandler) HandleLimits(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		var (
			statuses []limit.Status
			err      error
		)
		if v := r.URL.Query().Get("category"); v != "" {
			categoryID, perr := strconv.ParseInt(v, 10, 64)
			if perr != nil {
				writeError(w, r, validate.Field("category", "category must be a number"), "list limits")
				return
			}
			statuses, err = h.limits.ForCategory(r.Context(), userID, categoryID)
		} else {
			statuses, err = h.limits.List(r.Context(), userID)
		}
		if err != nil {
			writeError(w, r, err, "list limits")
			return
		}
		if statuses == nil {
			statuses = []limit.Status{}
		}
		writeJSON(w, http.StatusOK, statuses)
	case http.MethodPost:
		h.save(w, r, userID, nil, http.StatusCreated)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleLimitByID handles GET/PUT/DELETE /api/limits/{id}
func (h *LimitHandler) HandleLimitByID(w http.ResponseWriter, r *http.Request) {
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
		l, err := h.limits.Get(r.Context(), userID, id)
		if err != nil {
			writeError(w, r, err, "get limit")
			return
		}
		writeJSON(w, http.StatusOK, l)
	case http.MethodPut:
		h.save(w, r, userID, &id, http.StatusOK)
	case http.MethodDelete:
		if err := h.limits.Delete(r.Context(), userID, id); err != nil {
			writeError(w, r, err, "delete limit")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *LimitHandler) save(w http.ResponseWriter, r *http.Request, userID int64, id *int64, status int) {
	var req LimitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	params, err := req.params()
	if err != nil {
		writeError(w, r, err, "save limit")
		return
	}

	l, err := h.limits.Save(r.Context(), userID, id, params)
	if err != nil {
		writeError(w, r, err, "save limit")
		return
	}
	writeJSON(w, status, l)
}
