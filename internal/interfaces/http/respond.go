package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"finframe/internal/domain/category"
	"finframe/internal/domain/goal"
	"finframe/internal/domain/limit"
	"finframe/internal/domain/notification"
	"finframe/internal/domain/transaction"
	"finframe/internal/domain/user"
	"finframe/internal/infrastructure/exchangerate"
	"finframe/internal/shared/middleware"
	"finframe/internal/shared/validate"
)

const (
	maxBodySize    = 1 << 20 // 1 MiB
	defaultPerPage = 20
	maxPerPage     = 100
	maxPage        = 1_000_000

	// isoDate is the date layout of JSON bodies and query strings.
	isoDate = "2006-01-02"
)

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type PaginationResponse struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}

func newPagination(page, perPage, total int) PaginationResponse {
	pages := 0
	if total > 0 {
		pages = (total + perPage - 1) / perPage
	}
	return PaginationResponse{Page: page, PerPage: perPage, Total: total, Pages: pages}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// decodeBody reads a JSON body of at most maxBodySize bytes. On failure it
// has already written the 400.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return false
	}
	return true
}

// requireUser returns the authenticated user id or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return 0, false
	}
	return userID, true
}

// pathID parses the {id} path segment or writes a 400.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// pagination reads page and per_page. per_page defaults to 20 and is capped
// at 100. page is capped so the row offset stays far from overflowing.
func pagination(r *http.Request) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

var notFoundErrors = []error{
	category.ErrCategoryNotFound,
	transaction.ErrTransactionNotFound,
	limit.ErrLimitNotFound,
	goal.ErrGoalNotFound,
	user.ErrUserNotFound,
	notification.ErrNotificationNotFound,
}

var forbiddenErrors = []error{
	category.ErrForbidden,
	transaction.ErrForbidden,
	limit.ErrForbidden,
	goal.ErrForbidden,
}

var badRequestErrors = []error{
	category.ErrTypeMismatch,
	exchangerate.ErrCurrencyNotFound,
	user.ErrUnknownAttribute,
	user.ErrInvalidResetToken,
	notification.ErrInvalidCategory,
	notification.ErrInvalidPlatform,
	notification.ErrInvalidToken,
	notification.ErrEmptyMessage,
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// writeError maps domain errors to a status. Anything unrecognised is
// logged and reported as a 500 with action in the message.
func writeError(w http.ResponseWriter, r *http.Request, err error, action string) {
	if verr, ok := validate.As(err); ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: verr.Error(), Fields: verr.Fields})
		return
	}

	var apiErr *exchangerate.APIError
	switch {
	case errors.Is(err, user.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case isAny(err, notFoundErrors):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case isAny(err, forbiddenErrors):
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
	case errors.Is(err, category.ErrCategoryInUse), errors.Is(err, user.ErrFinancialInfoCompleted):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
	case isAny(err, badRequestErrors):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.As(err, &apiErr):
		log.Error().Err(err).Str("path", r.URL.Path).Msg("upstream request failed")
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "Exchange rate service unavailable"})
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Str("request_id", middleware.RequestIDFrom(r.Context())).Msg("failed to " + action)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to " + action})
	}
}
