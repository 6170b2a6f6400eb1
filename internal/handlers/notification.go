package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/baratonrides/gobackend/internal/services"
)

type NotificationHandler struct {
	service *services.NotificationService
	users   *services.UserService
	auth    *Auth
}

func NewNotificationHandler(service *services.NotificationService, users *services.UserService, auth *Auth) *NotificationHandler {
	return &NotificationHandler{service: service, users: users, auth: auth}
}

// CreateNotification is admin-only.
func (h *NotificationHandler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.UserID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil || !user.IsAdmin {
		respondError(w, http.StatusForbidden, "Admin access required")
		return
	}

	var req struct {
		Title        string `json:"title"`
		Body         string `json:"body"`
		TargetUserID string `json:"target_user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	notification, err := h.service.Create(r.Context(), userID, req.Title, req.Body, req.TargetUserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, notification)
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.UserID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	notifications, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}

	respondJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.UserID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	count, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to count notifications")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.UserID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.service.MarkRead(r.Context(), userID, mux.Vars(r)["notificationID"]); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to mark notification read")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Notification marked read"})
}
