package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finframe/internal/domain/category"
	"finframe/internal/domain/record"
)

func TestHandleCategories_List(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		repoErr        error
		expectedStatus int
		expectedLen    int
	}{
		{"All", "", nil, http.StatusOK, 2},
		{"By Type", "?type=expense", nil, http.StatusOK, 2},
		{"Invalid Type", "?type=transfer", nil, http.StatusBadRequest, 0},
		{"Repository Error", "", errors.New("db error"), http.StatusInternalServerError, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockCategoryRepo{
				ListByUserIDFunc: func(ctx context.Context, userID int64, typ record.EntryType) ([]*category.Category, error) {
					if tt.repoErr != nil {
						return nil, tt.repoErr
					}
					return []*category.Category{
						{ID: 1, UserID: userID, Name: "Rent", Type: record.Expense},
						{ID: 2, UserID: userID, Name: "Bills", Type: record.Expense},
					}, nil
				},
			}
			handler := NewCategoryHandler(category.NewService(repo))

			req := httptest.NewRequest(http.MethodGet, "/api/categories/"+tt.query, nil)
			req = withUser(req, 1)
			rr := httptest.NewRecorder()
			handler.HandleCategories(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.expectedStatus)
			}
			if tt.expectedStatus == http.StatusBadRequest {
				var resp ErrorResponse
				if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.Fields["type"] == "" {
					t.Errorf("fields = %v, want type", resp.Fields)
				}
			}
			if tt.expectedStatus == http.StatusOK {
				var resp []category.Category
				if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if len(resp) != tt.expectedLen {
					t.Errorf("len = %d, want %d", len(resp), tt.expectedLen)
				}
			}
		})
	}
}

func TestHandleCategories_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{"Success", `{"name":"Pets","type":"expense","icon":"paw"}`, http.StatusCreated},
		{"Missing Name", `{"type":"expense"}`, http.StatusBadRequest},
		{"Invalid Type", `{"name":"Pets","type":"other"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCategoryHandler(category.NewService(&MockCategoryRepo{}))

			req := httptest.NewRequest(http.MethodPost, "/api/categories/", strings.NewReader(tt.body))
			req = withUser(req, 1)
			rr := httptest.NewRecorder()
			handler.HandleCategories(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d: %s", rr.Code, tt.expectedStatus, rr.Body.String())
			}
		})
	}
}

func TestHandleCategoryByID_Delete(t *testing.T) {
	tests := []struct {
		name           string
		owner          int64
		deleteErr      error
		expectedStatus int
	}{
		{"Success", 1, nil, http.StatusNoContent},
		{"Other User", 2, nil, http.StatusForbidden},
		{"In Use", 1, category.ErrCategoryInUse, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockCategoryRepo{
				GetByIDFunc: func(ctx context.Context, id int64) (*category.Category, error) {
					return &category.Category{ID: id, UserID: tt.owner, Name: "Rent", Type: record.Expense}, nil
				},
				DeleteFunc: func(ctx context.Context, id int64) error {
					return tt.deleteErr
				},
			}
			handler := NewCategoryHandler(category.NewService(repo))

			req := httptest.NewRequest(http.MethodDelete, "/api/categories/3", nil)
			req.SetPathValue("id", "3")
			req = withUser(req, 1)
			rr := httptest.NewRecorder()
			handler.HandleCategoryByID(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.expectedStatus)
			}
		})
	}
}
