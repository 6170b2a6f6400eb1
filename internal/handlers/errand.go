package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/baratonrides/gobackend/internal/services"
)

type ErrandHandler struct {
	service *services.ErrandService
	auth    *Auth
}

func NewErrandHandler(service *services.ErrandService, auth *Auth) *ErrandHandler {
	return &ErrandHandler{service: service, auth: auth}
}

func (h *ErrandHandler) RequestErrand(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.UserID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var params services.RequestErrandParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	errand, err := h.service.RequestErrand(r.Context(), userID, params)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, errand)
}

func (h *ErrandHandler) GetErrand(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.UserID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	errand, err := h.service.GetErrand(r.Context(), userID, mux.Vars(r)["errandID"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, errand)
}

func (h *ErrandHandler) ListErrands(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.UserID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	errands, err := h.service.ListErrands(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch errands")
		return
	}

	respondJSON(w, http.StatusOK, errands)
}
