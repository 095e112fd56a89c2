package http

import (
	"net/http"

	"finframe/internal/domain/category"
	"finframe/internal/domain/record"
)

type CategoryHandler struct {
	categories *category.Service
}

func NewCategoryHandler(categories *category.Service) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

type CreateCategoryRequest struct {
	Name  string           `json:"name"`
	Type  record.EntryType `json:"type"`
	Icon  string           `json:"icon,omitempty"`
	Color string           `json:"color,omitempty"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name,omitempty"`
	Icon  *string `json:"icon,omitempty"`
	Color *string `json:"color,omitempty"`
}

// HandleCategories handles GET/POST /api/categories/
func (h *CategoryHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleCategoryByID handles GET/PUT/DELETE /api/categories/{id}
func (h *CategoryHandler) HandleCategoryByID(w http.ResponseWriter, r *http.Request) {
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
		c, err := h.categories.Get(r.Context(), userID, id)
		if err != nil {
			writeError(w, r, err, "get category")
			return
		}
		writeJSON(w, http.StatusOK, c)
	case http.MethodPut, http.MethodPatch:
		var req UpdateCategoryRequest
		if !decodeBody(w, r, &req) {
			return
		}
		c, err := h.categories.Update(r.Context(), userID, id, category.UpdateParams{
			Name:  req.Name,
			Icon:  req.Icon,
			Color: req.Color,
		})
		if err != nil {
			writeError(w, r, err, "update category")
			return
		}
		writeJSON(w, http.StatusOK, c)
	case http.MethodDelete:
		if err := h.categories.Delete(r.Context(), userID, id); err != nil {
			writeError(w, r, err, "delete category")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CategoryHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	typ := record.EntryType(r.URL.Query().Get("type"))
	categories, err := h.categories.List(r.Context(), userID, typ)
	if err != nil {
		writeError(w, r, err, "list categories")
		return
	}
	if categories == nil {
		categories = []*category.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req CreateCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.categories.Create(r.Context(), userID, category.CreateParams{
		Name:  req.Name,
		Type:  req.Type,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		writeError(w, r, err, "create category")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
