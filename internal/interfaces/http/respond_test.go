package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"finframe/internal/domain/category"
	"finframe/internal/domain/goal"
	"finframe/internal/domain/transaction"
	"finframe/internal/infrastructure/exchangerate"
	"finframe/internal/shared/validate"
)

func TestPagination(t *testing.T) {
	tests := []struct {
		query       string
		wantPage    int
		wantPerPage int
	}{
		{"", 1, 20},
		{"?page=3&per_page=50", 3, 50},
		{"?page=0&per_page=0", 1, 20},
		{"?page=-2&per_page=500", 1, 100},
		{"?page=abc&per_page=xyz", 1, 20},
		{"?page=99999999999999999999&per_page=100", maxPage, 100},
		{"?page=9223372036854775807", maxPage, 20},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/transactions/"+tt.query, nil)
			page, perPage := pagination(req)
			if page != tt.wantPage || perPage != tt.wantPerPage {
				t.Errorf("pagination() = (%d, %d), want (%d, %d)", page, perPage, tt.wantPage, tt.wantPerPage)
			}
		})
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		total, perPage, wantPages int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
	}
	for _, tt := range tests {
		if got := newPagination(1, tt.perPage, tt.total); got.Pages != tt.wantPages {
			t.Errorf("total %d: pages = %d, want %d", tt.total, got.Pages, tt.wantPages)
		}
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", validate.Field("amount", "amount must be greater than zero"), http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("loading: %w", transaction.ErrTransactionNotFound), http.StatusNotFound},
		{"goal not found", goal.ErrGoalNotFound, http.StatusNotFound},
		{"forbidden", category.ErrForbidden, http.StatusForbidden},
		{"in use", category.ErrCategoryInUse, http.StatusConflict},
		{"type mismatch", fmt.Errorf("%w: x", category.ErrTypeMismatch), http.StatusBadRequest},
		{"unknown currency", exchangerate.ErrCurrencyNotFound, http.StatusBadRequest},
		{"upstream", &exchangerate.APIError{Kind: exchangerate.KindTimeout, Err: errors.New("slow")}, http.StatusBadGateway},
		{"unexpected", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, httptest.NewRequest(http.MethodGet, "/", nil), tt.err, "do it")
			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}

func TestWriteError_ValidationFields(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, httptest.NewRequest(http.MethodPost, "/", nil), validate.Field("email", "enter a valid email address"), "register")

	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Fields["email"] != "enter a valid email address" {
		t.Errorf("fields = %v", resp.Fields)
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		value  string
		wantOK bool
	}{
		{"12", true},
		{"0", false},
		{"-1", false},
		{"abc", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.SetPathValue("id", tt.value)
		rr := httptest.NewRecorder()
		_, ok := pathID(rr, req)
		if ok != tt.wantOK {
			t.Errorf("pathID(%q) ok = %v, want %v", tt.value, ok, tt.wantOK)
		}
	}
}
