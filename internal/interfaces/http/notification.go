package http

import (
	"net/http"
	"strconv"

	"finframe/internal/domain/notification"
)

type NotificationHandler struct {
	notifications *notification.Service
}

func NewNotificationHandler(notifications *notification.Service) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

type DeviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// PreferencesResponse maps every category to whether it is delivered.
type PreferencesResponse struct {
	Categories map[string]bool `json:"categories"`
}

type InboxResponse struct {
	Notifications []*notification.Notification `json:"notifications"`
	Unread        int                          `json:"unread"`
	Pagination    PaginationResponse           `json:"pagination"`
}

// HandleInbox handles GET /api/notifications/ and POST
// /api/notifications/ with {"action":"read_all"}.
func (h *NotificationHandler) HandleInbox(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		page, perPage := pagination(r)
		inbox, err := h.notifications.Inbox(r.Context(), userID, page, perPage)
		if err != nil {
			writeError(w, r, err, "list notifications")
			return
		}
		items := inbox.Items
		if items == nil {
			items = []*notification.Notification{}
		}
		writeJSON(w, http.StatusOK, InboxResponse{
			Notifications: items,
			Unread:        inbox.Unread,
			Pagination:    newPagination(inbox.Page, inbox.Size, inbox.Total),
		})

	case http.MethodPost:
		var req struct {
			Action string `json:"action"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Action != "read_all" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "unknown action " + strconv.Quote(req.Action)})
			return
		}
		n, err := h.notifications.MarkAllOpened(r.Context(), userID)
		if err != nil {
			writeError(w, r, err, "update notifications")
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"updated": n})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleOpened handles PUT /api/notifications/{id}.
func (h *NotificationHandler) HandleOpened(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.notifications.MarkOpened(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, r, err, "update notification")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePreferences handles GET and PATCH /api/notifications/preferences.
// A PATCH body maps categories to their new enabled flag.
func (h *NotificationHandler) HandlePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var (
		prefs notification.Preferences
		err   error
	)
	switch r.Method {
	case http.MethodGet:
		prefs, err = h.notifications.Preferences(r.Context(), userID)
	case http.MethodPatch:
		var changes map[string]bool
		if !decodeBody(w, r, &changes) {
			return
		}
		prefs, err = h.notifications.UpdatePreferences(r.Context(), userID, changes)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err != nil {
		writeError(w, r, err, "update preferences")
		return
	}
	writeJSON(w, http.StatusOK, PreferencesResponse{Categories: prefs.Settings()})
}

// HandleDevices handles POST (register) and DELETE (unregister)
// /api/notifications/devices.
func (h *NotificationHandler) HandleDevices(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req DeviceRequest
	switch r.Method {
	case http.MethodPost:
		if !decodeBody(w, r, &req) {
			return
		}
		d, err := h.notifications.RegisterDevice(r.Context(), userID, req.Token, req.Platform)
		if err != nil {
			writeError(w, r, err, "register device")
			return
		}
		writeJSON(w, http.StatusCreated, d)

	case http.MethodDelete:
		if !decodeBody(w, r, &req) {
			return
		}
		if err := h.notifications.UnregisterDevice(r.Context(), req.Token); err != nil {
			writeError(w, r, err, "unregister device")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
