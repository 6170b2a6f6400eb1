package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/baratonrides/gobackend/internal/services"
)

type PackageDeliveryHandler struct {
	service *services.PackageDeliveryService
	auth    *Auth
}

func NewPackageDeliveryHandler(service *services.PackageDeliveryService, auth *Auth) *PackageDeliveryHandler {
	return &PackageDeliveryHandler{service: service, auth: auth}
}

func (h *PackageDeliveryHandler) SendPackage(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.UserID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var params services.SendPackageParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	delivery, err := h.service.SendPackage(r.Context(), userID, params)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, delivery)
}

func (h *PackageDeliveryHandler) GetDelivery(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.UserID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	delivery, err := h.service.GetDelivery(r.Context(), userID, mux.Vars(r)["deliveryID"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, delivery)
}

func (h *PackageDeliveryHandler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.UserID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	deliveries, err := h.service.ListDeliveries(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch package deliveries")
		return
	}

	respondJSON(w, http.StatusOK, deliveries)
}
