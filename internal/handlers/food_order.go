package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/baratonrides/gobackend/internal/services"
)

type FoodOrderHandler struct {
	service *services.FoodOrderService
	auth    *Auth
}

func NewFoodOrderHandler(service *services.FoodOrderService, auth *Auth) *FoodOrderHandler {
	return &FoodOrderHandler{service: service, auth: auth}
}

func (h *FoodOrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.UserID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var params services.PlaceOrderParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), userID, params)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func (h *FoodOrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.UserID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	order, err := h.service.GetOrder(r.Context(), userID, mux.Vars(r)["orderID"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *FoodOrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.UserID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	orders, err := h.service.ListOrders(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	respondJSON(w, http.StatusOK, orders)
}
