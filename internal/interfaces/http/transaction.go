package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"finframe/internal/domain/record"
	"finframe/internal/domain/transaction"
	"finframe/internal/shared/dates"
	"finframe/internal/shared/validate"
)

type TransactionHandler struct {
	transactions *transaction.Service
}

func NewTransactionHandler(transactions *transaction.Service) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// TransactionRequest is the body of both create and update. Date is
// YYYY-MM-DD and defaults to today.
type TransactionRequest struct {
	Type        record.EntryType `json:"type"`
	Amount      decimal.Decimal  `json:"amount"`
	CategoryID  *int64           `json:"categoryId,omitempty"`
	NewCategory string           `json:"newCategory,omitempty"`
	Description string           `json:"description"`
	Date        string           `json:"date,omitempty"`
	IsRegular   bool             `json:"isRegular"`
}

func (req TransactionRequest) input() (transaction.Input, error) {
	in := transaction.Input{
		Type:        req.Type,
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		NewCategory: req.NewCategory,
		Description: req.Description,
		IsRegular:   req.IsRegular,
	}
	if req.Date != "" {
		d, ok := dates.Parse(req.Date, isoDate)
		if !ok {
			return in, validate.Field("date", "date must be YYYY-MM-DD")
		}
		in.Date = d
	}
	return in, nil
}

type TransactionListResponse struct {
	Transactions []*transaction.Transaction `json:"transactions"`
	Pagination   PaginationResponse         `json:"pagination"`
}

// HandleTransactions handles GET/POST /api/transactions/
func (h *TransactionHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleTransactionByID handles GET/PUT/DELETE /api/transactions/{id}
func (h *TransactionHandler) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
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
		tx, err := h.transactions.Get(r.Context(), userID, id)
		if err != nil {
			writeError(w, r, err, "get transaction")
			return
		}
		writeJSON(w, http.StatusOK, tx)
	case http.MethodPut:
		var req TransactionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		in, err := req.input()
		if err != nil {
			writeError(w, r, err, "update transaction")
			return
		}
		tx, err := h.transactions.Update(r.Context(), userID, id, in)
		if err != nil {
			writeError(w, r, err, "update transaction")
			return
		}
		writeJSON(w, http.StatusOK, tx)
	case http.MethodDelete:
		if err := h.transactions.Delete(r.Context(), userID, id); err != nil {
			writeError(w, r, err, "delete transaction")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TransactionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	filter, err := transactionFilter(r, userID)
	if err != nil {
		writeError(w, r, err, "list transactions")
		return
	}
	page, perPage := pagination(r)
	filter.Limit = perPage
	filter.Offset = (page - 1) * perPage

	items, total, err := h.transactions.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err, "list transactions")
		return
	}
	if items == nil {
		items = []*transaction.Transaction{}
	}

	writeJSON(w, http.StatusOK, TransactionListResponse{
		Transactions: items,
		Pagination:   newPagination(page, perPage, int(total)),
	})
}

func (h *TransactionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req TransactionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, err, "create transaction")
		return
	}

	tx, err := h.transactions.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, r, err, "create transaction")
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

// transactionFilter reads type, category, from and to from the query.
func transactionFilter(r *http.Request, userID int64) (transaction.Filter, error) {
	q := r.URL.Query()
	f := transaction.Filter{
		UserID: userID,
		Type:   record.EntryType(q.Get("type")),
	}

	if v := q.Get("category"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, validate.Field("category", "category must be a number")
		}
		f.CategoryID = &id
	}

	var err error
	if f.From, err = queryDate(q.Get("from"), "from"); err != nil {
		return f, err
	}
	if f.To, err = queryDate(q.Get("to"), "to"); err != nil {
		return f, err
	}
	return f, validate.DateOrder("from", "to", f.From, f.To, true)
}

func queryDate(value, field string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	d, ok := dates.Parse(value, isoDate)
	if !ok {
		return time.Time{}, validate.Field(field, field+" must be YYYY-MM-DD")
	}
	return d, nil
}
