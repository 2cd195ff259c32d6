package web

import (
	"net/http"

	"github.com/hami-market/storefront/internal/notify"
)

type NotificationsHandler struct {
	center *notify.Center
}

func NewNotificationsHandler(center *notify.Center) *NotificationsHandler {
	return &NotificationsHandler{center: center}
}

type NotificationsResponse struct {
	Notifications []notify.Toast `json:"notifications"`
}

// Drain handles GET /api/v1/notifications and returns all pending
// toasts, emptying the queue.
func (h *NotificationsHandler) Drain(w http.ResponseWriter, r *http.Request) {
	toasts := h.center.Drain()
	if toasts == nil {
		toasts = []notify.Toast{}
	}
	respondJSON(w, http.StatusOK, NotificationsResponse{Notifications: toasts})
}
