package http

import (
	"net/http"

	"finframe/internal/domain/user"
)

type UserHandler struct {
	users *user.Service
}

func NewUserHandler(users *user.Service) *UserHandler {
	return &UserHandler{users: users}
}

type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
}

// HandleMe handles GET/PATCH /api/users/me
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		u, err := h.users.Get(r.Context(), userID)
		if err != nil {
			writeError(w, r, err, "get user")
			return
		}
		writeJSON(w, http.StatusOK, u)
	case http.MethodPatch, http.MethodPut:
		var req UpdateUserRequest
		if !decodeBody(w, r, &req) {
			return
		}
		u, err := h.users.Update(r.Context(), userID, user.UpdateParams{Username: req.Username})
		if err != nil {
			writeError(w, r, err, "update user")
			return
		}
		writeJSON(w, http.StatusOK, u)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleFinancialInfo handles POST /api/users/me/financial-info, the
// one-time starting balance form.
func (h *UserHandler) HandleFinancialInfo(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req user.FinancialInfoParams
	if !post(w, r, &req) {
		return
	}

	u, err := h.users.CompleteFinancialInfo(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err, "save financial info")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type AttributeRequest struct {
	Value bool `json:"value"`
}

// HandleSetAttribute handles PUT /api/admin/users/{id}/attributes/{name}.
// Staff only: routes must wrap it with middleware.StaffRequired.
func (h *UserHandler) HandleSetAttribute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req AttributeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	name := r.PathValue("name")
	if err := h.users.SetAttribute(r.Context(), id, name, req.Value); err != nil {
		writeError(w, r, err, "update attribute")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{name: req.Value})
}
