package http

import (
	"context"
	"net/http"

	"finframe/internal/domain/notification"
)

// CacheFlusher drops cached entries under a key prefix on every API
// process.
type CacheFlusher func(ctx context.Context, prefix string) error

// AdminHandler serves staff-only operations. Routes must be wrapped with
// middleware.StaffRequired or middleware.PermissionRequired.
type AdminHandler struct {
	notifications *notification.Service
	flush         CacheFlusher
}

func NewAdminHandler(notifications *notification.Service, flush CacheFlusher) *AdminHandler {
	return &AdminHandler{notifications: notifications, flush: flush}
}

type BroadcastRequest struct {
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Category string            `json:"category"`
	Data     map[string]string `json:"data,omitempty"`
}

type CacheFlushRequest struct {
	Prefix string `json:"prefix"`
}

// HandleBroadcast handles POST /api/admin/notifications/broadcast
func (h *AdminHandler) HandleBroadcast(w http.ResponseWriter, r *http.Request) {
	var req BroadcastRequest
	if !post(w, r, &req) {
		return
	}
	if req.Category == "" {
		req.Category = notification.CategoryGeneral
	}

	n, err := h.notifications.Broadcast(r.Context(), notification.Message{
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
		Data:     req.Data,
	})
	if err != nil {
		writeError(w, r, err, "broadcast notification")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]int{"devices": n})
}

// HandleCacheFlush handles POST /api/admin/cache/flush. An empty prefix
// clears everything.
func (h *AdminHandler) HandleCacheFlush(w http.ResponseWriter, r *http.Request) {
	var req CacheFlushRequest
	if !post(w, r, &req) {
		return
	}

	if err := h.flush(r.Context(), req.Prefix); err != nil {
		writeError(w, r, err, "flush cache")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
