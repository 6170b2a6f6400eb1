package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/baratonrides/gobackend/internal/services"
)

type RideHandler struct {
	service *services.RideService
	auth    *Auth
}

func NewRideHandler(service *services.RideService, auth *Auth) *RideHandler {
	return &RideHandler{service: service, auth: auth}
}

func (h *RideHandler) BookRide(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.UserID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var params services.BookRideParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ride, err := h.service.BookRide(r.Context(), userID, params)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, ride)
}

func (h *RideHandler) GetRide(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.UserID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	ride, err := h.service.GetRide(r.Context(), userID, mux.Vars(r)["rideID"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, ride)
}

func (h *RideHandler) ListRides(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.UserID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	rides, err := h.service.ListRides(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch rides")
		return
	}

	respondJSON(w, http.StatusOK, rides)
}

func (h *RideHandler) CancelRide(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.UserID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.service.CancelRide(r.Context(), userID, mux.Vars(r)["rideID"]); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Ride cancelled"})
}
