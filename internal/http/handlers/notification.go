package handlers

import (
	"net/http"

	"placementcell/internal/app"
	"placementcell/internal/http/response"
)

type NotificationHandler struct {
	notifications *app.NotificationService
}

func NewNotificationHandler(notifications *app.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

type notificationRequest struct {
	StudentIDs []string `json:"student_ids"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
}

func (h *NotificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req notificationRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	ids, err := parseIDs(req.StudentIDs)
	if err != nil {
		response.Error(w, err)
		return
	}
	sent, err := h.notifications.SendCustom(r.Context(), app.CustomNotification{StudentIDs: ids, Subject: req.Subject, Body: req.Body})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusAccepted, map[string]int{"recipients": sent})
}
